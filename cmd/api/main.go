package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rag-backend/cmd"
	"rag-backend/internal/api"
	"rag-backend/internal/approaches"
	"rag-backend/internal/auth"
	"rag-backend/internal/chat"
	"rag-backend/internal/config"
	"rag-backend/internal/database"
	"rag-backend/internal/history"
	"rag-backend/internal/llm"
	"rag-backend/internal/logging"
	"rag-backend/internal/metrics"
	"rag-backend/internal/search"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	logCloser, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("error setting up logging: %v", err)
	}
	defer logCloser.Close()

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	contentStore, err := cmd.NewStorageProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to create storage provider: %v", err)
	}

	searchTokens := cmd.NewTokenProvider(cfg, cfg.SearchKey, auth.SearchResource)
	openaiTokens := cmd.NewTokenProvider(cfg, cfg.OpenAIKey, auth.CognitiveServicesResource)

	fields := search.Fields{
		Content:    cfg.FieldsContent,
		Category:   cfg.FieldsCategory,
		SourcePage: cfg.FieldsSourcePage,
	}

	deps := approaches.Deps{
		Search:            search.NewClient(cfg.SearchURL(), cfg.SearchIndex, fields, searchTokens),
		Models:            llm.NewAzureOpenAI(cfg.OpenAIURL(), cfg.OpenAIAPIVersion, openaiTokens),
		GPTDeployment:     cfg.OpenAIGPTDeployment,
		ChatGPTDeployment: cfg.OpenAIChatGPTDeployment,
		Fields:            fields,
	}

	manager := chat.NewManager(
		approaches.NewAskApproaches(deps),
		approaches.NewChatApproaches(deps),
		history.NewGormStore(db),
		cfg.ChatHistoryMinutes,
		cfg.BackendURI,
	)

	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300, // Cache preflight response for 5 minutes
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                     // Log requests
	r.Use(middleware.Recoverer)                  // Recover from panics
	r.Use(middleware.Timeout(120 * time.Second)) // Completions can be slow

	r.Handle("/metrics", metrics.Handler())

	apiHandler := api.NewBackendService(manager, contentStore, cfg.ContentBucket, cfg.StaticDir)
	apiHandler.AddRoutes(r)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	slog.Info("API server listening", "port", cfg.Port, "backend_uri", cfg.BackendURI)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	slog.Info("server stopped")
}
