package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jobportal/jobportal-go/internal/config"
	"github.com/jobportal/jobportal-go/internal/crypto"
	"github.com/jobportal/jobportal-go/internal/federated"
	"github.com/jobportal/jobportal-go/internal/handler"
	"github.com/jobportal/jobportal-go/internal/repository"
	"github.com/jobportal/jobportal-go/internal/service"
	"github.com/jobportal/jobportal-go/internal/storage"
	"github.com/jobportal/jobportal-go/internal/throttle"
)

// stores groups the persistence backends selected by STORE_DRIVER.
type stores struct {
	users service.UserStore
	jobs  service.JobStore
	apps  service.ApplicationStore
	close func(context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	files, err := openFileStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	limiter, closeLimiter, err := openLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	verifier, err := openVerifier(ctx, cfg, logger)
	if err != nil {
		return err
	}

	tokens, err := crypto.NewTokenManager(crypto.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Expiry:   cfg.JWT.Expiry,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	})
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	router := handler.NewRouter(ctx, handler.RouterConfig{
		Auth:           service.NewAuthService(st.users, tokens, verifier, limiter, logger),
		Jobs:           service.NewJobService(st.jobs, st.users),
		Applications:   service.NewApplicationService(st.apps, st.jobs, files, logger),
		Logger:         logger,
		AllowedOrigins: cfg.FrontendURL,
		AuthRPS:        5,
		AuthBurst:      10,
		TrustProxy:     cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, db, err := repository.NewMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDB)
		if err != nil {
			return stores{}, err
		}
		logger.Info("connected to mongodb", "database", cfg.Store.MongoDB)
		return stores{
			users: repository.NewMongoUserRepository(db),
			jobs:  repository.NewMongoJobRepository(db),
			apps:  repository.NewMongoApplicationRepository(db),
			close: client.Disconnect,
		}, nil

	case "mysql":
		db, err := repository.NewDB(ctx, cfg.Store.MySQLDSN)
		if err != nil {
			return stores{}, err
		}
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return stores{}, err
		}
		logger.Info("connected to mysql")
		return stores{
			users: repository.NewUserRepository(db),
			jobs:  repository.NewJobRepository(db),
			apps:  repository.NewApplicationRepository(db),
			close: func(context.Context) error { return db.Close() },
		}, nil

	default:
		logger.Warn("using in-memory store, data is lost on restart")
		return stores{
			users: repository.NewMemoryUserRepository(),
			jobs:  repository.NewMemoryJobRepository(),
			apps:  repository.NewMemoryApplicationRepository(),
			close: func(context.Context) error { return nil },
		}, nil
	}
}

func openFileStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (service.FileStore, error) {
	if cfg.Minio.Endpoint == "" {
		logger.Warn("MINIO_ENDPOINT not set, keeping resumes in memory")
		return storage.NewMemory(), nil
	}

	files, err := storage.NewMinioStore(ctx, cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to object storage", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)
	return files, nil
}

func openLimiter(ctx context.Context, cfg config.Config, logger *slog.Logger) (throttle.Limiter, func(), error) {
	tcfg := throttle.Config{MaxAttempts: cfg.Throttle.MaxAttempts, Window: cfg.Throttle.Window}

	if cfg.Redis.Addr == "" {
		return throttle.NewMemory(tcfg), func() {}, nil
	}

	rdb, err := throttle.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("login throttling backed by redis", "addr", cfg.Redis.Addr)

	limiter := throttle.NewRedis(rdb, tcfg)
	return limiter, func() {
		if err := limiter.Close(); err != nil {
			logger.Warn("close redis", "error", err)
		}
	}, nil
}

func openVerifier(ctx context.Context, cfg config.Config, logger *slog.Logger) (federated.Verifier, error) {
	if cfg.Federated.Mode == "trust" {
		logger.Warn("FEDERATED_MODE=trust accepts unverified federated logins; use only in development")
		return federated.TrustVerifier{}, nil
	}

	if strings.TrimSpace(cfg.Federated.ClientID) == "" {
		logger.Warn("FEDERATED_CLIENT_ID not set, federated logins will be rejected")
	}
	return federated.NewOIDCVerifier(ctx, cfg.Federated.Issuer, cfg.Federated.ClientID)
}
