package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/hackmatch/team-platform/internal/config"
	"github.com/hackmatch/team-platform/internal/database"
	"github.com/hackmatch/team-platform/internal/routes"
)

func main() {
	log.Println("Starting application...")

	// Load .env if present; real deployments set env vars directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("Config loaded. Database Type: %s", cfg.DatabaseType)

	// Initialize database
	log.Println("Initializing database connection...")
	if err := database.Initialize(cfg); err != nil {
		log.Printf("CRITICAL: Failed to initialize database: %v", err)
		log.Println("Server will start but will likely fail requests depending on DB.")
	} else {
		log.Println("Database initialized successfully.")
	}

	// Create export directory for generated portfolios
	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		log.Printf("Warning: failed to create export directory: %v", err)
	}

	// Setup router
	log.Println("Setting up router...")
	router := routes.SetupRouter(cfg)

	// Start server
	addr := cfg.ServerHost + ":" + cfg.ServerPort
	log.Printf("Server starting on %s", addr)
	log.Printf("API: http://localhost:%s/api", cfg.ServerPort)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
