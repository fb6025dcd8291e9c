package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwhitt/warbler-be/internal/api"
	"github.com/mwhitt/warbler-be/internal/config"
	"github.com/mwhitt/warbler-be/internal/database"
	"github.com/mwhitt/warbler-be/internal/logger"
	"github.com/mwhitt/warbler-be/internal/monitoring"
	"github.com/mwhitt/warbler-be/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init()

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up services
	userService := services.NewUserService(db)
	tweetService := services.NewTweetService(db)

	// Set up and run the background store maintenance
	maintenance, err := monitoring.NewMaintenance(db, cfg.MaintenanceSchedule)
	if err != nil {
		log.Fatalf("Failed to initialize maintenance worker: %v", err)
	}
	go maintenance.Run()

	// Set up router
	router := api.NewRouter(db, userService, tweetService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	maintenance.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
