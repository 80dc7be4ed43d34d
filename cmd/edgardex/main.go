package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/filinglab/edgardex/internal/config"
	logpkg "github.com/filinglab/edgardex/internal/logger"
	"github.com/filinglab/edgardex/internal/metrics"
	"github.com/filinglab/edgardex/internal/store"
	filestore "github.com/filinglab/edgardex/internal/store/file"
	memorystore "github.com/filinglab/edgardex/internal/store/memory"
	redisstore "github.com/filinglab/edgardex/internal/store/redis"
	chiTransport "github.com/filinglab/edgardex/internal/transport/chi"
	mcpTransport "github.com/filinglab/edgardex/internal/transport/mcp"
	healthuc "github.com/filinglab/edgardex/internal/usecase/health"
	searchuc "github.com/filinglab/edgardex/internal/usecase/search"
	statsuc "github.com/filinglab/edgardex/internal/usecase/stats"
	trackinguc "github.com/filinglab/edgardex/internal/usecase/tracking"
	"github.com/filinglab/edgardex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting edgardex",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("mode", cfg.Server.Mode),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// Create record store based on driver
	var st store.Store
	switch cfg.Storage.Driver {
	case "memory":
		st = memorystore.NewStore(memorystore.Config{})
	case "file":
		st, err = filestore.NewStore(filestore.Config{
			Dir:      cfg.Storage.File.Dir,
			Watch:    cfg.Storage.File.Watch,
			Debounce: time.Duration(cfg.Storage.File.DebounceMS) * time.Millisecond,
			Logger:   logger,
		})
	case "redis":
		st, err = redisstore.NewStore(redisstore.Config{
			Addrs:        cfg.Storage.Redis.Addrs,
			Username:     cfg.Storage.Redis.Username,
			Password:     cfg.Storage.Redis.Password,
			DB:           cfg.Storage.Redis.DB,
			KeyPrefix:    cfg.Storage.Redis.KeyPrefix,
			OpTimeout:    time.Duration(cfg.Storage.Redis.OpTimeoutSec) * time.Second,
			ReadyTimeout: time.Duration(cfg.Storage.Redis.ReadinessTimeout) * time.Second,
		})
	default:
		logger.Fatal("Unknown storage driver", zap.String("driver", cfg.Storage.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create store", zap.Error(err))
	}

	// Wait for storage to be ready
	ctx := context.Background()
	if err := st.Initialize(ctx); err != nil {
		logger.Fatal("Storage not ready", zap.Error(err))
	}
	logger.Info("Storage ready", zap.String("driver", cfg.Storage.Driver))

	// Register store metrics explicitly (no init())
	metrics.RegisterStoreMetrics()
	instrumented := store.NewInstrumented(st, cfg.Storage.Driver, logger)
	defer instrumented.Close()

	// Create use case services
	trackingSvc := trackinguc.New(instrumented, logger)
	searchSvc := searchuc.New(instrumented, instrumented, instrumented).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize, cfg.Search.MaxContentPageSize)
	statsSvc := statsuc.New(instrumented, instrumented)
	healthSvc := healthuc.New(instrumented)

	switch cfg.Server.Mode {
	case "mcp":
		runMCP(trackingSvc, searchSvc, statsSvc, logger)
	default:
		runHTTP(cfg, trackingSvc, searchSvc, statsSvc, healthSvc, logger)
	}
}

// runMCP serves the MCP tools on stdio until the client disconnects.
func runMCP(
	tracking *trackinguc.Service,
	search *searchuc.Service,
	stats *statsuc.Service,
	logger *zap.Logger,
) {
	srv := mcpTransport.NewServer(mcpTransport.Config{
		Name:    "edgardex",
		Version: version.Version,
	}, search, stats, tracking, logger)

	logger.Info("Starting MCP server on stdio")
	if err := srv.ServeStdio(); err != nil {
		logger.Fatal("MCP server error", zap.Error(err))
	}
}

func runHTTP(
	cfg config.Config,
	tracking *trackinguc.Service,
	search *searchuc.Service,
	stats *statsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) {
	server := chiTransport.NewServer(tracking, search, stats, health, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.Token))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
