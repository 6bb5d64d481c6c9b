// Loanflow - Conversational Loan Application Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/finbotics/loanflow/internal/api"
	"github.com/finbotics/loanflow/internal/audit"
	"github.com/finbotics/loanflow/internal/config"
	"github.com/finbotics/loanflow/internal/crm"
	"github.com/finbotics/loanflow/internal/income"
	"github.com/finbotics/loanflow/internal/middleware"
	"github.com/finbotics/loanflow/internal/orchestrator"
	"github.com/finbotics/loanflow/internal/sanction"
	"github.com/finbotics/loanflow/internal/store"
	"github.com/finbotics/loanflow/internal/underwriting"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "store", cfg.StoreBackend, "ai", cfg.AIEnabled())

	// Session store.
	var sessions store.SessionStore
	switch cfg.StoreBackend {
	case "sqlite":
		sqliteStore, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		if err := sqliteStore.Ping(context.Background()); err != nil {
			slog.Error("Database health check failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Database connected", "path", cfg.DBPath)
		sessions = sqliteStore
	default:
		sessions = store.NewMemory()
	}
	defer func() {
		if closeErr := sessions.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()

	// Collaborators.
	directory, err := crm.NewSeedDirectory()
	if err != nil {
		slog.Error("Failed to load customer directory", "error", err)
		os.Exit(1)
	}
	slog.Info("Customer directory loaded", "customers", directory.Len())

	issuer, err := sanction.NewFileIssuer(filepath.Join(cfg.DataDir, "sanctions"))
	if err != nil {
		slog.Error("Failed to initialize sanction issuer", "error", err)
		os.Exit(1)
	}

	var parser income.Parser = income.NewLocalParser()
	var names income.NameVerifier = income.NewLocalNameVerifier()
	if cfg.AIEnabled() {
		ai := income.NewAIClient(cfg.OpenRouterKey, cfg.OpenRouterModel, logger)
		parser = ai
		names = ai
		slog.Info("AI document services enabled", "model", cfg.OpenRouterModel)
	}

	transcript, err := audit.NewTranscriptRecorder(audit.Config{
		Enabled:   cfg.TranscriptEnabled,
		Dir:       cfg.TranscriptDir,
		QueueSize: cfg.TranscriptQueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize transcript recorder", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := transcript.Close(); closeErr != nil {
			slog.Error("Failed to close transcript recorder", "error", closeErr)
		}
	}()

	orch := orchestrator.New(orchestrator.Deps{
		Store:      sessions,
		Directory:  directory,
		Engine:     underwriting.NewEngine(cfg.Policy()),
		Issuer:     issuer,
		Parser:     parser,
		Names:      names,
		Transcript: transcript,
		Logger:     logger,
	})

	// Handlers.
	chatHandler := api.NewHandler(orch, issuer, logger)
	wsHandler := api.NewChatSocket(orch, cfg.AllowedOrigins, logger)

	// Router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	chatHandler.RegisterRoutes(r)
	r.Get("/api/chat/ws", wsHandler.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket conversations stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
