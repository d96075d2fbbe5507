package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dailydo-api/internal/dto"
	apierrors "github.com/yukikurage/dailydo-api/internal/errors"
	"github.com/yukikurage/dailydo-api/internal/middleware"
	"github.com/yukikurage/dailydo-api/internal/services"
)

type TodoHandler struct {
	todoService *services.TodoService
}

func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
	}
}

// CreateTodo creates a todo owned by the current user
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTodoRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, &req, err)
		return
	}

	todo, err := h.todoService.CreateTodo(c.Request.Context(), user.ID, req.Content)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TodoCreatedResponse{
		Success:   true,
		Message:   "Todo successfully created",
		Todo:      dto.ToTodoDTO(*todo),
		Username:  user.Username,
		Timestamp: time.Now().UTC(),
	})
}

// ListTodos returns every todo of the current user. An empty list is a 404.
func (h *TodoHandler) ListTodos(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	todos, err := h.todoService.ListTodos(c.Request.Context(), user.ID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoListResponse(user.Username, todos))
}

// GetTodo returns a specific todo by ID
func (h *TodoHandler) GetTodo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	todoID, ok := todoIDParam(c)
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodo(c.Request.Context(), user.ID, todoID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TodoResponse{
		Todo:     dto.ToTodoDTO(*todo),
		Username: user.Username,
	})
}

// UpdateTodo replaces content and completion state of a todo
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	todoID, ok := todoIDParam(c)
	if !ok {
		return
	}

	type UpdateTodoRequest struct {
		Content     string `json:"content" binding:"required"`
		IsCompleted *bool  `json:"is_completed" binding:"required"`
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, &req, err)
		return
	}

	todo, err := h.todoService.UpdateTodo(c.Request.Context(), user.ID, todoID, services.UpdateTodoInput{
		Content:     req.Content,
		IsCompleted: *req.IsCompleted,
	})
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// DeleteTodo deletes a todo
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	todoID, ok := todoIDParam(c)
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(c.Request.Context(), user.ID, todoID); err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task successfully deleted"})
}

// todoIDParam parses the :id parameter. A malformed ID is reported the same
// way as a missing todo.
func todoIDParam(c *gin.Context) (uint64, bool) {
	// Stored ids are signed 64-bit; anything above that range cannot exist.
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil || id == 0 {
		apierrors.NotFound(c, "No task found")
		return 0, false
	}
	return id, true
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTodoNotFound),
		errors.Is(err, services.ErrNoTodos):
		apierrors.NotFound(c, "No task found")
	case errors.Is(err, services.ErrContentRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, err)
	}
}
