package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/mcq-client/internal/config"
	"github.com/stemsi/mcq-client/internal/database"
	"github.com/stemsi/mcq-client/internal/generator"
	"github.com/stemsi/mcq-client/internal/handler"
	"github.com/stemsi/mcq-client/internal/logger"
	"github.com/stemsi/mcq-client/internal/middleware"
	"github.com/stemsi/mcq-client/internal/render"
	"github.com/stemsi/mcq-client/internal/repository"
	"github.com/stemsi/mcq-client/internal/router"
	"github.com/stemsi/mcq-client/internal/service"
	"github.com/stemsi/mcq-client/internal/validator"
	"github.com/stemsi/mcq-client/internal/view"
	"github.com/stemsi/mcq-client/internal/worker"
)

// visitorIdle is how long a client IP stays in the rate limiter after its last request.
const visitorIdle = 30 * time.Minute

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("api_base_url", cfg.APIBaseURL).
		Msg("Starting MCQ client")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Session Store ─────────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	housekeeping := worker.NewHousekeeping(log)

	var sessions repository.SessionRepository
	if rdb != nil {
		defer rdb.Close()
		sessions = repository.NewRedisSessionRepository(rdb, cfg.SessionTTL)
	} else {
		mem := repository.NewMemorySessionRepository(cfg.SessionTTL)
		if err := housekeeping.SweepSessions(cfg.SessionSweepSchedule, mem); err != nil {
			log.Fatal().Err(err).Msg("Invalid session sweep schedule")
		}
		sessions = mem
	}

	// ─── Generation Client ─────────────────────────────────────────────
	gen, err := generator.NewClient(cfg.APIBaseURL, log, generator.WithTimeout(cfg.GenerationTimeout))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create generation client")
	}
	log.Info().
		Str("generate_url", gen.BaseURL()+generator.GeneratePath).
		Dur("timeout", cfg.GenerationTimeout).
		Dur("stale_after", cfg.GenerationStaleAfter).
		Msg("Generation client ready")

	// ─── Templates ─────────────────────────────────────────────────────
	tmpl, err := view.Templates(render.NewMarkdown(cfg.HighlightStyle))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// ─── Services & Handlers ───────────────────────────────────────────
	quizService := service.NewQuizService(sessions, gen, log, service.WithStaleAfter(cfg.GenerationStaleAfter))

	handlers := &router.Handlers{
		Page:   handler.NewQuizPageHandler(quizService),
		API:    handler.NewQuizAPIHandler(quizService),
		Health: handler.NewHealthHandler(rdb, log),
	}

	limiter := middleware.NewRateLimiter(cfg.GenerateRatePerMinute)
	if err := housekeeping.CleanVisitors(cfg.SessionSweepSchedule, limiter, visitorIdle); err != nil {
		log.Fatal().Err(err).Msg("Invalid session sweep schedule")
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		housekeeping.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, tmpl, limiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	// No write timeout: a generate request lasts as long as the backend takes.
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests; in-flight generations get 30s to finish.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop housekeeping jobs.
	workerCancel()
	<-workerDone

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
