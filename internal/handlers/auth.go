package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dailydo-api/internal/auth"
	"github.com/yukikurage/dailydo-api/internal/constants"
	"github.com/yukikurage/dailydo-api/internal/dto"
	apierrors "github.com/yukikurage/dailydo-api/internal/errors"
	"github.com/yukikurage/dailydo-api/internal/middleware"
	"github.com/yukikurage/dailydo-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user account. Accepts JSON or form bodies.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username" form:"username" binding:"required,max=50"`
		Email    string `json:"email" form:"email" binding:"required,email,max=255"`
		Password string `json:"password" form:"password" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, &req, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("User '%s' successfully registered", user.Username),
	})
}

// Token implements the password grant: form-encoded username and password
// in, access and refresh tokens out.
func (h *AuthHandler) Token(c *gin.Context) {
	type TokenRequest struct {
		GrantType string `form:"grant_type" json:"grant_type"`
		Username  string `form:"username" json:"username" binding:"required"`
		Password  string `form:"password" json:"password" binding:"required"`
	}

	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "username and password are required")
		return
	}
	if req.GrantType != "" && req.GrantType != "password" {
		apierrors.BadRequest(c, "unsupported grant_type")
		return
	}

	_, pair, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTokenResponse(pair))
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	type RefreshRequest struct {
		RefreshToken string `form:"refresh_token" json:"refresh_token" binding:"required"`
	}

	var req RefreshRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "refresh_token is required")
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTokenResponse(pair))
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func toTokenResponse(pair auth.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		TokenType:    constants.TokenTypeBearer,
		RefreshToken: pair.RefreshToken,
	}
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrPasswordTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "Invalid username or password")
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, services.ErrInvalidToken.Error())
	default:
		apierrors.InternalError(c, err)
	}
}
