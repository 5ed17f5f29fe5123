package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // DASHBOARD_TIMEZONE must resolve in minimal images

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/ledgerflow-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/ledgerflow-backend/internal/adapter/http"
	"github.com/simaogato/ledgerflow-backend/internal/adapter/ratelimit"
	"github.com/simaogato/ledgerflow-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/ledgerflow-backend/internal/config"
	"github.com/simaogato/ledgerflow-backend/internal/logger"
	"github.com/simaogato/ledgerflow-backend/internal/monitoring"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/auth"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/category"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/dashboard"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/transaction"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// 1. Configuration and logging
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// 2. Setup Database
	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnectAttempts: 10,
	})
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			zlog.Fatal("Failed to run migrations", zap.Error(err))
		}
		zlog.Info("Database migrations applied")
	}

	// 3. Initialize Repositories (Postgres)
	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	ledgerReader := postgres.NewLedgerReader(db)

	// 4. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.New(registry)

	// 5. Initialize Services (Use Cases)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	authService := auth.NewAuthService(userRepo, refreshTokenRepo, tokens)
	categoryService := category.NewCategoryService(categoryRepo)
	transactionService := transaction.NewTransactionService(transactionRepo, categoryRepo)
	dashboardService := dashboard.NewDashboardService(ledgerReader,
		dashboard.WithLocation(cfg.Location()),
		dashboard.WithObserver(metrics),
	)

	limiter, stopLimiter, err := newAuthLimiter(ctx, cfg)
	if err != nil {
		zlog.Fatal("Failed to create rate limiter", zap.Error(err))
	}
	defer stopLimiter()

	// 6. Start HTTP Server
	httpServer := httpadapter.NewServer(httpadapter.Dependencies{
		Auth:         authService,
		Tokens:       authService,
		Categories:   categoryService,
		Transactions: transactionService,
		Dashboard:    dashboardService,
		AuthLimiter:  limiter,
		Metrics:      metrics,
		Gatherer:     registry,
		Logger:       zlog,
	}, httpadapter.Options{
		AllowedOrigins: cfg.Origins(),
		RequestTimeout: cfg.RequestTimeout,
	})

	go func() {
		zlog.Info("HTTP server listening", zap.String("port", cfg.Port))
		if err := httpServer.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("Failed to serve HTTP server", zap.Error(err))
		}
	}()

	// 7. Start gRPC Server
	grpcServer := grpcadapter.NewGRPCServer(grpcadapter.NewServer(dashboardService), authService, zlog)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		zlog.Fatal("Failed to listen", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}

	go func() {
		zlog.Info("gRPC server listening", zap.String("port", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpclib.ErrServerStopped) {
			zlog.Fatal("Failed to serve gRPC server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	waitForShutdown(zlog, httpServer, grpcServer)
}

// newAuthLimiter builds the limiter selected by RATE_LIMIT_BACKEND
func newAuthLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func(), error) {
	limits := ratelimit.Config{Requests: cfg.RateLimitPerMinute, Window: time.Minute}

	if cfg.RateLimitBackend == "redis" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return ratelimit.NewRedisLimiter(client, limits), func() { _ = client.Close() }, nil
	}

	memory := ratelimit.NewMemoryLimiter(limits)
	return memory, memory.Stop, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(zlog *zap.Logger, httpServer *httpadapter.Server, grpcServer *grpclib.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	zlog.Info("Shutting down gracefully", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		zlog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	zlog.Info("HTTP server stopped")

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		grpcServer.Stop()
	}
	zlog.Info("gRPC server stopped")
}
