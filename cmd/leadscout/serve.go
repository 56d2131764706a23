package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadscout/internal/config"
	logpkg "github.com/kailas-cloud/leadscout/internal/logger"
	"github.com/kailas-cloud/leadscout/internal/metrics"
	chiTransport "github.com/kailas-cloud/leadscout/internal/transport/chi"
	"github.com/kailas-cloud/leadscout/internal/transport/provider"
	"github.com/kailas-cloud/leadscout/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/leadscout/internal/usecase/health"
	searchuc "github.com/kailas-cloud/leadscout/internal/usecase/search"
	usageuc "github.com/kailas-cloud/leadscout/internal/usecase/usage"
	"github.com/kailas-cloud/leadscout/internal/version"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logpkg.NewLogger(opts.env, opts.level(&cfg))
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			return serve(cmd.Context(), &cfg, opts.env, logger)
		},
	}
}

// serve is the composition root of the API server. It blocks until ctx is done.
func serve(ctx context.Context, cfg *config.Config, env string, logger *zap.Logger) error {
	logger.Info("Starting leadscout API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("provider", cfg.Generator.Provider),
		zap.String("model", cfg.Generator.Model),
		zap.String("profile", cfg.Search.Profile),
	)

	metrics.RegisterGenerationMetrics()

	base, err := provider.New(ctx, provider.Settings{
		Provider: cfg.Generator.Provider,
		APIKey:   cfg.Generator.APIKey,
		BaseURL:  cfg.Generator.BaseURL,
		Model:    cfg.Generator.Model,
	})
	if err != nil {
		return fmt.Errorf("create generator: %w", err)
	}
	gen := generation.NewInstrumentedGenerator(base, cfg.Generator.Provider, cfg.Generator.Model, logger)

	// Pass a nil interface, not a typed nil pointer, when no budget is configured.
	var budgetReader usageuc.BudgetReader
	if b := cfg.Generator.Budget; b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0 {
		budget := generation.NewBudgetTracker(
			cfg.Generator.Provider, b.DailyTokenLimit, b.MonthlyTokenLimit,
			generation.BudgetAction(b.Action), logger,
		)
		gen.WithBudget(budget)
		budgetReader = budget
	}

	searchSvc := searchuc.New(gen, searchuc.Config{
		Prompt:         cfg.PromptConfig(),
		Mode:           cfg.Mode(),
		MaxConcurrency: cfg.Search.MaxConcurrency,
		BatchTimeout:   cfg.BatchTimeout(),
	}, logger)
	healthSvc := healthuc.New(gen)
	usageSvc := usageuc.New(budgetReader, cfg.Generator.Provider)

	server := chiTransport.NewServer(searchSvc, healthSvc, usageSvc, cfg.ContactFallback(), logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// jsonRecoverer turns a handler panic into a JSON 500 instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorResponseCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits one canonical log line per request and echoes X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.String("generation_tokens", ww.Header().Get("X-Generation-Tokens")),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
