package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/dailydo-api/internal/auth"
	"github.com/yukikurage/dailydo-api/internal/config"
	"github.com/yukikurage/dailydo-api/internal/database"
	"github.com/yukikurage/dailydo-api/internal/handlers"
	"github.com/yukikurage/dailydo-api/internal/repository"
	"github.com/yukikurage/dailydo-api/internal/router"
	"github.com/yukikurage/dailydo-api/internal/services"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	tokens := auth.NewTokenService(cfg.SecretKey, cfg.TokenIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := services.NewAuthService(repository.NewUserRepository(db), auth.NewBcryptHasher(cfg.BcryptCost), tokens)
	todoService := services.NewTodoService(repository.NewTodoRepository(db))

	// Initialize handlers and routes
	r := router.New(router.Handlers{
		Auth:          handlers.NewAuthHandler(authService),
		Todo:          handlers.NewTodoHandler(todoService),
		Health:        handlers.NewHealthHandler(pinger(db)),
		Authenticator: authService,
	}, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("Server starting on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shut down: %v", err)
	}
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}
}
