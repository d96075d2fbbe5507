package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dailydo-api/internal/handlers"
	"github.com/yukikurage/dailydo-api/internal/middleware"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Todo          *handlers.TodoHandler
	Health        *handlers.HealthHandler
	Authenticator middleware.Authenticator
}

// New builds the engine with the global middleware and every route.
func New(h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(allowedOrigins)))

	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.Health)

	requireAuth := middleware.RequireAuth(h.Authenticator)

	// Auth routes
	r.POST("/user/register", h.Auth.Register)
	r.POST("/token", h.Auth.Token)
	r.POST("/token/refresh", h.Auth.RefreshToken)
	r.GET("/user/me", requireAuth, h.Auth.GetCurrentUser)

	// Todo routes (protected)
	todos := r.Group("/todos")
	todos.Use(requireAuth)
	{
		todos.POST("", h.Todo.CreateTodo)
		todos.POST("/", h.Todo.CreateTodo)
		todos.GET("", h.Todo.ListTodos)
		todos.GET("/", h.Todo.ListTodos)
		todos.GET("/:id", h.Todo.GetTodo)
		todos.PUT("/:id", h.Todo.UpdateTodo)
		todos.DELETE("/:id", h.Todo.DeleteTodo)
	}

	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = allowedOrigins
	return cfg
}
