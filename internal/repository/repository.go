package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/dailydo-api/internal/models"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("repository: duplicate key")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByUsernameOrEmail finds the first user holding either value
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
}

// TodoRepository defines the interface for todo data access. Every read and
// write is scoped to an owner; a todo owned by someone else is reported as
// gorm.ErrRecordNotFound.
type TodoRepository interface {
	// Create creates a new todo
	Create(ctx context.Context, todo *models.Todo) error

	// ListByOwner lists the owner's todos ordered by ID
	ListByOwner(ctx context.Context, ownerID uint64) ([]models.Todo, error)

	// FindByIDForOwner finds a todo by ID if ownerID owns it
	FindByIDForOwner(ctx context.Context, id, ownerID uint64) (*models.Todo, error)

	// Update saves content and completion state of a todo
	Update(ctx context.Context, todo *models.Todo) error

	// DeleteForOwner deletes a todo by ID if ownerID owns it
	DeleteForOwner(ctx context.Context, id, ownerID uint64) error
}
