package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/opscapture/interview-backend/internal/adapter/postgres"
	interviewrepo "github.com/opscapture/interview-backend/internal/adapter/postgres/interview"
	tokenrepo "github.com/opscapture/interview-backend/internal/adapter/postgres/token"
	userrepo "github.com/opscapture/interview-backend/internal/adapter/postgres/user"
	"github.com/opscapture/interview-backend/internal/adapter/provider/anthropic"
	"github.com/opscapture/interview-backend/internal/adapter/provider/openai"
	authpkg "github.com/opscapture/interview-backend/internal/auth"
	"github.com/opscapture/interview-backend/internal/config"
	authsvc "github.com/opscapture/interview-backend/internal/service/auth"
	exportsvc "github.com/opscapture/interview-backend/internal/service/export"
	interviewsvc "github.com/opscapture/interview-backend/internal/service/interview"
	voicesvc "github.com/opscapture/interview-backend/internal/service/voice"
	"github.com/opscapture/interview-backend/internal/transport/middleware"
	"github.com/opscapture/interview-backend/internal/transport/rest"
	"github.com/opscapture/interview-backend/migrations"
)

// requestsPerMinute is the per-IP budget for the public API.
const requestsPerMinute = 120

// Run is the application entry point. It loads configuration, applies
// pending migrations, wires repositories, providers, and services, and
// serves HTTP until the context is cancelled or a shutdown signal arrives.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, migrations.FS); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)
	interviews := interviewrepo.New(pool)

	jwtManager := authpkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	llm := anthropic.New(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.MaxTokens)
	speech := openai.New(cfg.Speech.APIKey, cfg.Speech.STTModel, cfg.Speech.TTSModel, cfg.Speech.TTSVoice)

	authService := authsvc.NewService(logger, users, tokens, txManager, jwtManager, cfg.Auth)
	interviewService := interviewsvc.NewService(logger, interviews, llm)
	exportService := exportsvc.NewService(logger, interviews)
	voiceService := voicesvc.NewService(logger, speech, speech, cfg.Speech, cfg.Realtime)

	mux := rest.NewRouter(rest.Handlers{
		Auth:      rest.NewAuthHandler(authService, logger),
		Interview: rest.NewInterviewHandler(interviewService, logger),
		Export:    rest.NewExportHandler(exportService, logger),
		Voice:     rest.NewVoiceHandler(voiceService, logger),
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
	})

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(requestsPerMinute),
		middleware.Auth(authService),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
