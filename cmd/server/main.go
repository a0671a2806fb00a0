// Commitment Coach - SMART commitment scoring server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/progressmethod/commitment-coach/internal/analyzer"
	"github.com/progressmethod/commitment-coach/internal/api"
	"github.com/progressmethod/commitment-coach/internal/config"
	"github.com/progressmethod/commitment-coach/internal/identity"
	"github.com/progressmethod/commitment-coach/internal/middleware"
	"github.com/progressmethod/commitment-coach/internal/retry"
	"github.com/progressmethod/commitment-coach/internal/session"
	"github.com/progressmethod/commitment-coach/internal/store"
	"github.com/progressmethod/commitment-coach/internal/transport"
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

	slog.Info("Starting commitment coach", "port", cfg.Port, "dev", cfg.IsDevelopment())

	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Initialize the scoring analyzer (optional). Without it commitments
	// still save through the degraded path.
	var scorer analyzer.Scorer = analyzer.Unavailable{}
	aiEnabled := false
	if cfg.AnalyzerAddr != "" {
		slog.Info("Connecting to analyzer service via gRPC", "address", cfg.AnalyzerAddr)
		grpcClient, err := analyzer.NewGrpcClient(cfg.AnalyzerAddr, logger)
		if err != nil {
			slog.Warn("Failed to connect to analyzer, scoring will be degraded", "error", err)
		} else {
			scorer = grpcClient
			aiEnabled = true
		}
	}
	defer scorer.Close()
	if !aiEnabled {
		slog.Info("Scoring disabled (ANALYZER_ADDR not set or connection failed)")
	}

	hub := transport.NewHub()
	sessions := session.NewStore()

	retryCfg := retry.DefaultConfig()
	retryCfg.AnalyzeTimeout = cfg.AnalyzeTimeout
	orch := retry.NewOrchestrator(sessions, scorer, repo, hub, retryCfg)

	baseHandler := api.NewHandler(repo, orch)
	commitmentsHandler := api.NewCommitmentsHandler(baseHandler, cfg.RateLimit.StartsPerWindow, cfg.RateLimit.Window)
	wsHandler := transport.NewWebSocketHandler(repo, hub, cfg.FrontendURL, cfg.IsDevelopment())

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	r.Get("/health/ai", api.AIHealth(scorer))

	r.Route("/api", func(r chi.Router) {
		r.Get("/me", baseHandler.Me)
		r.Get("/config", baseHandler.Config(api.ConfigInfo{AIEnabled: aiEnabled}))

		r.Route("/commitments", func(r chi.Router) {
			r.Post("/", commitmentsHandler.Start)
			r.Post("/choice", commitmentsHandler.Choice)
			r.Post("/retry", commitmentsHandler.Retry)
			r.Get("/", commitmentsHandler.List)
		})
	})

	// WebSocket endpoint for coaching prompt delivery.
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket connections stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	// Start the session sweeper.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartSweeper(ctx, sessions, cfg.SessionTTL, cfg.SweepInterval)

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
