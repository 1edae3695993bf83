package main

import (
	"log"
	"project/backend/config"
	"project/backend/middleware"
	"project/backend/realtime"
	"project/backend/routes"
	"project/backend/services"
	"project/backend/storage"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Chat push bus: Redis when configured, in-process otherwise
	var bus realtime.Bus
	if cfg.RedisAddr != "" {
		bus, err = realtime.NewRedisBus(cfg.RedisAddr, cfg.RedisChannel, logger)
		if err != nil {
			log.Fatalf("Error connecting to redis: %v", err)
		}
	} else {
		bus = realtime.NewMemoryBus()
	}
	defer bus.Close()

	// Local file store for thumbnails and lesson videos
	files, err := storage.NewFileStore(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		log.Fatalf("Error initializing file store: %v", err)
	}

	transcriber := services.NewHTTPTranscriber(cfg.TranscriberURL)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 512 * 1024 * 1024, // lesson videos
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Uploaded files are publicly resolvable
	app.Static("/uploads", cfg.UploadDir)

	// Setup routes
	routes.SetupRoutes(app, db, cfg, bus, files, transcriber, logger)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
