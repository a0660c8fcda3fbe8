package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"quotee/config"
	"quotee/database"
	"quotee/handlers"
	"quotee/routes"
	"quotee/store"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.MongoURI == "" {
		log.Fatal("MONGODB_URI is required")
	}

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		if err = database.ConnectMongo(cfg.MongoURI); err == nil {
			break
		}
		log.Printf("MongoDB connection attempt %d failed: %v", attempt, err)
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := database.DisconnectMongo(); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	gin.SetMode(cfg.GinMode)
	handlers.RegisterValidators()

	stores := store.New(database.Client.Database(cfg.DBName))
	h := handlers.New(stores, cfg)
	router := routes.SetupRouter(h, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server exited")
}
