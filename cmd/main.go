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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"site_ai_server/config"
	"site_ai_server/internal/ai"
	"site_ai_server/internal/api"
	"site_ai_server/internal/pipeline"
	"site_ai_server/internal/site"
	"site_ai_server/internal/store"
)

func main() {
	// Load environment variables from a .env file before viper reads config.
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		} else {
			log.Println("Info: .env file not found, relying on system environment variables.")
		}
	} else {
		log.Println("Info: Loaded environment variables from .env file.")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	// --- Dependency Initialization ---

	generator := ai.NewGenerator(cfg.OpenAIKey, cfg.OpenAIModel)
	workspace := site.NewWorkspace(cfg.OutputDir)

	history, err := store.NewHistory(cfg.HistoryDBPath)
	if err != nil {
		// Generation still works without history, so degrade instead of dying.
		log.Printf("WARN: Could not open history database at %s: %v. History will not be recorded.", cfg.HistoryDBPath, err)
		history = nil
	} else {
		defer history.Close()
	}

	var sink pipeline.HistorySink
	var reader api.HistoryReader
	if history != nil {
		sink = history
		reader = history
	}

	gen := pipeline.New(
		generator,
		workspace,
		sink,
		pipeline.WithMaxGapRounds(cfg.MaxGapFillRounds),
		pipeline.WithMinScriptChars(cfg.FallbackMinScriptSize),
	)

	apiHandler := api.NewAPIHandler(gen, workspace, reader)

	// --- Start API Server ---

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in Gin Debug Mode")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	api.RegisterRoutes(router, apiHandler)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
		// Generation requests hold the connection while the completion API
		// works, so the write timeout is generous.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting API server on %s\n", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server listen error: %s\n", err)
		}
		log.Println("API server has stopped listening.")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal: %s. Shutting down server...", sig)

	shutdownCtx, serverCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer serverCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server forced shutdown error: %v", err)
	} else {
		log.Println("API server gracefully stopped.")
	}

	log.Println("Application exiting.")
}
