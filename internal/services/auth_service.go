package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yukikurage/dailydo-api/internal/auth"
	"github.com/yukikurage/dailydo-api/internal/models"
	"github.com/yukikurage/dailydo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUserExists           = errors.New("user with these credentials already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInvalidToken         = errors.New("could not validate credentials")
	ErrUsernameRequired     = errors.New("username is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrPasswordTooLong      = errors.New("password must be at most 72 bytes")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueTokens  = errors.New("failed to issue tokens")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   *auth.TokenService

	dummyOnce sync.Once
	dummy     string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user. Username and email must both be unused.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}

	if _, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, auth.TokenPair, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same bcrypt cost as a known user with a wrong password.
			s.hasher.Verify(input.Password, s.dummyHash())
			return nil, auth.TokenPair{}, ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(subjectFor(user.ID))
	if err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("%w: %v", ErrFailedToIssueTokens, err)
	}

	return user, pair, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	claims, err := s.tokens.Validate(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.ResolveSubject(ctx, claims.Subject)
	if err != nil {
		return auth.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(subjectFor(user.ID))
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("%w: %v", ErrFailedToIssueTokens, err)
	}
	return pair, nil
}

// Authenticate validates an access token and loads the user it names.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Validate(accessToken, auth.TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return s.ResolveSubject(ctx, claims.Subject)
}

// ResolveSubject loads the user named by a token subject. A subject that
// does not resolve is reported as ErrInvalidToken.
func (s *AuthService) ResolveSubject(ctx context.Context, subject string) (*models.User, error) {
	id, err := strconv.ParseUint(subject, 10, 63)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", ErrInvalidToken)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// dummyHash is a hash of a random password made with the service's hasher,
// so verifying against it costs the same as verifying a real user.
func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			log.Printf("failed to build dummy password hash: %v", err)
			return
		}
		s.dummy = hash
	})
	return s.dummy
}

func subjectFor(id uint64) string {
	return strconv.FormatUint(id, 10)
}
