package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"blog/internal/auth"
	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/handlers"
	"blog/internal/media"
	"blog/internal/middleware"
	"blog/internal/repositories"
	"blog/internal/services"
	"blog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(config.New())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close(db)

	// --- Media ---
	images, err := media.NewLocalStore(cfg.ImageDir, cfg.PublicURL)
	if err != nil {
		log.Fatalf("Failed to prepare image directory: %v", err)
	}

	// Deletions go straight to disk unless the cleanup queue is enabled.
	var files services.FileDeleter = images
	if cfg.MediaQueueEnabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.MediaQueueName})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()

		files = media.NewQueuedDeleter(mqClient)
		startCleanupConsumer(mqClient, images)
	}

	app := newApp(cfg, db, images, files)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// newApp wires repositories, services and handlers into a Fiber app.
func newApp(cfg *config.Config, db *gorm.DB, images *media.LocalStore, files services.FileDeleter) *fiber.App {
	// --- Repositories ---
	store := repositories.NewGORMStore(db)

	// --- Services ---
	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTTTL)
	policy := auth.NewPolicy(verifier)

	authService := services.NewAuthService(store, verifier, cfg.BcryptCost)
	postService := services.NewPostService(store, policy, files)
	userService := services.NewUserService(store, policy)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService)
	statusHandler := handlers.NewStatusHandler(userService)
	imageHandler := handlers.NewImageHandler(images, postService, policy)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    media.MaxUploadSize + 1024*1024,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.Authenticate(verifier))

	// --- Routes ---
	imageHandler.RegisterRoutes(app)

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	postHandler.RegisterRoutes(apiV1)
	statusHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			dbStatus = "unreachable"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
		})
	})

	return app
}

// startCleanupConsumer removes files named by queued deletion messages.
func startCleanupConsumer(mqClient *rabbitmq.Client, images *media.LocalStore) {
	log.Println("Starting RabbitMQ consumer for media cleanup...")
	handler := func(msg rabbitmq.FileDeletion) error {
		return media.IgnoreMissing(images.DeleteFile(context.Background(), msg.Path))
	}
	if err := mqClient.ConsumeFileDeletions(handler); err != nil {
		log.Printf("Failed to start RabbitMQ consumer: %v", err)
	}
}
