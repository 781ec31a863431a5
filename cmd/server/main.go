package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skanderbk/tartil/internal/bulk"
	"github.com/skanderbk/tartil/internal/catalog"
	"github.com/skanderbk/tartil/internal/config"
	"github.com/skanderbk/tartil/internal/constants"
	"github.com/skanderbk/tartil/internal/download"
	httpapp "github.com/skanderbk/tartil/internal/http"
	"github.com/skanderbk/tartil/internal/httpclient"
	"github.com/skanderbk/tartil/internal/logger"
	"github.com/skanderbk/tartil/internal/source"
	"github.com/skanderbk/tartil/internal/store"
)

func main() {
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize DB
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// HTTP clients: a patient one for audio downloads, a snappier one for
	// the content API.
	audioClient := httpclient.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, constants.MinRequestInterval)
	contentClient := httpclient.NewClient(&http.Client{Timeout: constants.ContentHTTPTimeout}, constants.MinRequestInterval)

	cat := catalog.NewClient(cfg.ContentAPIURL, contentClient)
	resolver := source.NewResolver(db, cfg.AudioOrigin)
	pipeline := download.NewPipeline(db, audioClient, appLogger)
	orchestrator := bulk.NewOrchestrator(db, pipeline, appLogger)
	defer orchestrator.Wait()

	// Initialize Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Routes
	h := httpapp.NewHandler(db, resolver, pipeline, orchestrator, cat, appLogger)
	h.RegisterRoutes(r)

	// Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	orchestrator.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
