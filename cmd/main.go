// File: product-catalog-admin/cmd/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-catalog-admin/internal/api"
	"product-catalog-admin/internal/config"
	"product-catalog-admin/internal/listing"
	"product-catalog-admin/internal/logging"
	"product-catalog-admin/internal/metrics"
	"product-catalog-admin/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const shutdownTimeout = 30 * time.Second

func main() {
	envErr := godotenv.Load() // Loads .env from the current directory by default

	// --- Configuration Loading ---
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("error loading configuration")
	}
	logger := logging.NewLogger(cfg)
	if envErr != nil {
		logger.Info().Msg(".env file not found or error loading, relying on system environment variables")
	}
	logger.Info().Str("log_level", cfg.LogLevel).Str("backend", cfg.Catalog.BackendURL).Msg("starting service")

	// --- Backend Client ---
	catalog := store.NewRESTStore(cfg.Catalog.BackendURL, store.WithTimeout(cfg.Catalog.Timeout))

	// --- Sessions ---
	sessions := api.NewSessions(func() *listing.Controller {
		return listing.New(catalog,
			listing.WithDebounce(cfg.Catalog.Debounce),
			listing.WithItemsPerPage(cfg.Catalog.ItemsPerPage),
			listing.WithLogger(logger.With().Str("component", "listing").Logger()),
		)
	}, cfg.Session.IdleTimeout, logger, api.WithMaxSessions(cfg.Session.MaxSessions))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	sessionsDone := make(chan struct{})
	go func() {
		sessions.Run(ctx)
		close(sessionsDone)
	}()

	// --- Setup & Start HTTP Server ---
	healthHandler, err := api.NewHealthHandler(catalog)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create health handler")
	}

	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, logger)
	httpRouter.Handle("/healthz", healthHandler.Handler())
	httpRouter.Handle("/metrics", promhttp.Handler())
	api.NewHTTPHandler(sessions, logger).RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      otelhttp.NewHandler(httpRouter, logging.ServiceName),
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		logger.Info().Str("port", cfg.HttpServer.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server ListenAndServe error")
		}
		logger.Info().Msg("HTTP server has stopped")
	}()

	// --- Setup & Start gRPC Server ---
	healthServer := health.NewServer()
	grpcServer := setupGRPCServer(logger, healthServer)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		logger.Fatal().Err(err).Str("port", cfg.GrpcServer.Port).Msg("failed to listen for gRPC")
	}

	prober := api.NewHealthProber(catalog, healthServer, cfg.GrpcServer.ProbeInterval, logger)
	go prober.Run(ctx)

	go func() {
		logger.Info().Str("port", cfg.GrpcServer.Port).Msg("gRPC server listening")
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Fatal().Err(err).Msg("gRPC server Serve error")
		}
		logger.Info().Msg("gRPC server has stopped")
	}()

	// --- Graceful Shutdown ---
	shutdownComplete := make(chan struct{})
	go waitForShutdown(logger, httpServer, grpcServer, healthServer, func() {
		stop()
		<-sessionsDone
	}, shutdownComplete)

	<-shutdownComplete // Block until graceful shutdown is complete
	logger.Info().Msg("service shutdown sequence finished")
}

func setupBaseMiddleware(router *chi.Mux, logger zerolog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger) // Chi's request logger
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	logger.Debug().Msg("base HTTP middleware registered")
}

func setupGRPCServer(logger zerolog.Logger, healthServer *health.Server) *grpc.Server {
	s := grpc.NewServer()

	// Register gRPC Health Checking Protocol service. Status follows the backend probe.
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	logger.Debug().Msg("gRPC health check service registered")

	// Enable gRPC server reflection (useful for tools like grpcurl).
	reflection.Register(s)
	logger.Debug().Msg("gRPC reflection service registered")

	return s
}

func waitForShutdown(
	logger zerolog.Logger,
	httpServer *http.Server,
	grpcServer *grpc.Server,
	healthServer *health.Server,
	closeSessions func(),
	shutdownComplete chan struct{},
) {
	defer close(shutdownComplete)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	receivedSignal := <-sigChan
	logger.Info().Str("signal", receivedSignal.String()).Msg("starting graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	// Report NOT_SERVING while draining.
	healthServer.Shutdown()

	logger.Info().Msg("attempting to gracefully shut down gRPC server")
	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	logger.Info().Msg("attempting to gracefully shut down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("HTTP server graceful shutdown failed")
	} else {
		logger.Info().Msg("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		logger.Info().Msg("gRPC server gracefully shut down")
	case <-shutdownCtx.Done():
		logger.Warn().Err(shutdownCtx.Err()).Msg("gRPC server graceful shutdown timed out, forcing stop")
		grpcServer.Stop()
	}

	// Close every session: pending debounces stop and late backend results are dropped.
	closeSessions()
	logger.Info().Msg("graceful shutdown sequence completed")
}
