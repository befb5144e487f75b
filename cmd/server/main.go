package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/viveksanandiya/pdf-annotator/internal/config"
	"github.com/viveksanandiya/pdf-annotator/internal/database"
	"github.com/viveksanandiya/pdf-annotator/internal/handlers"
	"github.com/viveksanandiya/pdf-annotator/internal/middleware"
	"github.com/viveksanandiya/pdf-annotator/internal/storage"
	"github.com/viveksanandiya/pdf-annotator/pkg/logger"
	"github.com/viveksanandiya/pdf-annotator/pkg/utils"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("storage initialization failed: %v", err)
	}
	if m, ok := store.(*storage.MinIOStore); ok {
		if err := m.EnsureBucket(context.Background()); err != nil {
			log.Fatalf("failed ensuring bucket: %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		// Slightly above the upload ceiling so multipart framing does not eat
		// into the 50 MiB allowed for the document itself.
		BodyLimit: handlers.MaxUploadSize + 2*1024*1024,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	handlers.RegisterRoutes(app, db, store)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
		"storage": cfg.Storage.Backend,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
