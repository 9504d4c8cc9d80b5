package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"employee_manager/internal/blacklist"
	"employee_manager/internal/config"
	"employee_manager/internal/logger"
	"employee_manager/internal/repository"
	"employee_manager/internal/router"
	"employee_manager/internal/service"
	"employee_manager/internal/tracing"
	"employee_manager/internal/upload"
	"employee_manager/internal/utils"

	"github.com/joho/godotenv"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Ensure uploads directory exists
	if err := os.MkdirAll(cfg.UploadsDir, os.ModePerm); err != nil {
		zlog.Fatal("failed to create uploads directory", zap.String("dir", cfg.UploadsDir), zap.Error(err))
	}
	zlog.Info("uploads directory ready", zap.String("dir", cfg.UploadsDir))

	ctx := context.Background()

	// --- Tracing ---
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := tracing.InitTracerProvider(ctx, router.ServiceName, cfg.OTLPEndpoint, zlog)
		if err != nil {
			zlog.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				zlog.Error("failed to shutdown tracer", zap.Error(err))
			}
		}()
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	if err := config.Migrate(ctx, cfg.DB, zlog); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// --- Token revocation ---
	var revoked blacklist.Blacklist = blacklist.NoopBlacklist{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
		revoked = blacklist.NewRedisBlacklist(rdb)
		zlog.Info("token revocation enabled", zap.String("addr", cfg.RedisAddr))
	} else {
		zlog.Warn("REDIS_ADDR not set, logout will not revoke tokens")
	}

	// --- Wiring ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration)

	userRepo := repository.NewUserRepository(dbPool)
	employeeRepo := repository.NewEmployeeRepository(dbPool)

	authService := service.NewAuthService(userRepo, jwtUtil, revoked, cfg.AdminEmail, zlog)
	employeeService := service.NewEmployeeService(employeeRepo)

	engine := router.New(router.Deps{
		Log:             zlog,
		DB:              dbPool,
		AuthService:     authService,
		EmployeeService: employeeService,
		Images:          upload.New(cfg.UploadsDir),
		UploadsDir:      cfg.UploadsDir,
		AllowedOrigins:  cfg.AllowedOrigins,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exiting")
}
