package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/dailydo-api/internal/models"
	"github.com/yukikurage/dailydo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound    = errors.New("no task found")
	ErrNoTodos         = errors.New("no task found")
	ErrContentRequired = errors.New("content is required")
)

// TodoService handles todo business logic. Every operation takes the owner's
// ID; todos belonging to anyone else behave as if they did not exist.
type TodoService struct {
	todoRepo repository.TodoRepository
}

// NewTodoService creates a new TodoService
func NewTodoService(todoRepo repository.TodoRepository) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
	}
}

// UpdateTodoInput represents input for editing a todo
type UpdateTodoInput struct {
	Content     string
	IsCompleted bool
}

// CreateTodo creates a new todo owned by ownerID
func (s *TodoService) CreateTodo(ctx context.Context, ownerID uint64, content string) (*models.Todo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}

	todo := &models.Todo{
		Content: content,
		UserID:  ownerID,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// ListTodos returns the owner's todos, or ErrNoTodos if there are none
func (s *TodoService) ListTodos(ctx context.Context, ownerID uint64) ([]models.Todo, error) {
	todos, err := s.todoRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	if len(todos) == 0 {
		return nil, ErrNoTodos
	}
	return todos, nil
}

// GetTodo returns a single todo owned by ownerID
func (s *TodoService) GetTodo(ctx context.Context, ownerID, todoID uint64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByIDForOwner(ctx, todoID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return todo, nil
}

// UpdateTodo replaces content and completion state of a todo owned by ownerID
func (s *TodoService) UpdateTodo(ctx context.Context, ownerID, todoID uint64, input UpdateTodoInput) (*models.Todo, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	todo, err := s.GetTodo(ctx, ownerID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Content = content
	todo.IsCompleted = input.IsCompleted

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return s.GetTodo(ctx, ownerID, todoID)
}

// DeleteTodo deletes a todo owned by ownerID
func (s *TodoService) DeleteTodo(ctx context.Context, ownerID, todoID uint64) error {
	if err := s.todoRepo.DeleteForOwner(ctx, todoID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}
