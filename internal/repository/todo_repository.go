package repository

import (
	"context"

	"github.com/yukikurage/dailydo-api/internal/models"
	"gorm.io/gorm"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create creates a new todo
func (r *GormTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// ListByOwner lists the owner's todos ordered by ID
func (r *GormTodoRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]models.Todo, error) {
	var todos []models.Todo
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("id ASC").
		Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// FindByIDForOwner finds a todo by ID if ownerID owns it
func (r *GormTodoRepository) FindByIDForOwner(ctx context.Context, id, ownerID uint64) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// Update saves content and completion state of a todo. The owner predicate
// is part of the UPDATE so a foreign todo is never touched.
func (r *GormTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	return r.db.WithContext(ctx).
		Model(&models.Todo{}).
		Where("id = ? AND user_id = ?", todo.ID, todo.UserID).
		Updates(map[string]interface{}{
			"content":      todo.Content,
			"is_completed": todo.IsCompleted,
		}).Error
}

// DeleteForOwner deletes a todo by ID if ownerID owns it
func (r *GormTodoRepository) DeleteForOwner(ctx context.Context, id, ownerID uint64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Todo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
