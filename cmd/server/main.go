package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/imfoot/internal/auth"
	"github.com/mmynk/imfoot/internal/config"
	"github.com/mmynk/imfoot/internal/metrics"
	"github.com/mmynk/imfoot/internal/middleware"
	"github.com/mmynk/imfoot/internal/seed"
	"github.com/mmynk/imfoot/internal/service"
	"github.com/mmynk/imfoot/internal/settlement"
	"github.com/mmynk/imfoot/internal/storage/sqlite"
	"github.com/mmynk/imfoot/pkg/logging"
)

func main() {
	logger := logging.Setup()

	if err := run(logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath, cfg.Settlement.DefaultCommissionRate)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	if cfg.SeedPath != "" {
		fixture, err := seed.Load(cfg.SeedPath)
		if err != nil {
			return err
		}
		if _, err := fixture.Apply(ctx, store, logger); err != nil {
			return err
		}
	}

	metrics.Register(prometheus.DefaultRegisterer)

	engine := settlement.New(store, cfg.NominalCounts(), logger)
	rate, err := engine.CommissionRate(ctx)
	if err != nil {
		return err
	}
	metrics.SetCommissionRate(rate)
	logger.Info("Settlement engine ready",
		"commission_rate", rate,
		"tour_recruit_headcount", cfg.Settlement.TourRecruitHeadcount,
		"lecture_enrollment", cfg.Settlement.LectureEnrollment,
	)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(service.NewAdminServiceHandler(
		service.NewAdminService(engine, logger),
		middleware.ForRole(tokens, auth.RoleAdmin, logger),
	))
	mux.Handle(service.NewHostServiceHandler(
		service.NewHostService(engine, logger),
		middleware.ForRole(tokens, auth.RoleHost, logger),
	))

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Add logging and CORS middleware
	handler := loggingMiddleware(logger, corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
