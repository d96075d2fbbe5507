package dto

import (
	"time"

	"github.com/yukikurage/dailydo-api/internal/models"
)

// TodoDTO represents a todo in API responses
type TodoDTO struct {
	ID          uint64    `json:"id"`
	Content     string    `json:"content"`
	IsCompleted bool      `json:"is_completed"`
	UserID      uint64    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoCreatedResponse is returned after creating a todo
type TodoCreatedResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Todo      TodoDTO   `json:"todo"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// TodoListResponse lists the caller's todos
type TodoListResponse struct {
	Username string    `json:"username"`
	Todos    []TodoDTO `json:"todos"`
}

// TodoResponse wraps a single todo with its owner's name
type TodoResponse struct {
	Todo     TodoDTO `json:"todo"`
	Username string  `json:"username"`
}

// ToTodoDTO converts a Todo model to TodoDTO
func ToTodoDTO(todo models.Todo) TodoDTO {
	return TodoDTO{
		ID:          todo.ID,
		Content:     todo.Content,
		IsCompleted: todo.IsCompleted,
		UserID:      todo.UserID,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

// ToTodoListResponse converts a slice of todos to TodoListResponse
func ToTodoListResponse(username string, todos []models.Todo) TodoListResponse {
	items := make([]TodoDTO, len(todos))
	for i, todo := range todos {
		items[i] = ToTodoDTO(todo)
	}
	return TodoListResponse{
		Username: username,
		Todos:    items,
	}
}
