package bootstrap

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

	"github.com/hibiken/asynq"

	cacheadapter "github.com/wblproducoes/mvc08/internal/adapters/cache"
	httpadapter "github.com/wblproducoes/mvc08/internal/adapters/http"
	mailadapter "github.com/wblproducoes/mvc08/internal/adapters/mail"
	"github.com/wblproducoes/mvc08/internal/adapters/postgres"
	"github.com/wblproducoes/mvc08/internal/adapters/security"
	"github.com/wblproducoes/mvc08/internal/application"
	"github.com/wblproducoes/mvc08/internal/ratelimit"
)

// Runtime wires adapters to the application service and owns process
// lifecycle for both binaries.
type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping back office", "service", cfg.ServiceID, "http_port", cfg.HTTPPort)

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := pool.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	mailer, err := mailadapter.NewEnqueuer(cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init mail enqueuer: %w", err)
	}

	repos := postgres.NewRepositories(pool)
	limiter := ratelimit.NewLimiter(
		cacheadapter.NewRedisAttemptStore(redisClient),
		cfg.MaxLoginAttempts,
		cfg.AttemptWindow,
		logger,
	)

	svc := application.NewService(application.Deps{
		Users:      repos.Users,
		Sessions:   repos.Sessions,
		AccessLogs: repos.AccessLogs,
		Statuses:   repos.Statuses,
		Levels:     repos.Levels,
		Genders:    repos.Genders,
		Hasher:     security.NewBcryptHasher(cfg.BcryptCost),
		Limiter:    limiter,
		Mailer:     mailer,
		Logger:     logger,
	}, application.Options{
		SessionTTL:    cfg.SessionTTL,
		IdleTimeout:   cfg.IdleTimeout,
		ResetTokenTTL: cfg.ResetTokenTTL,
		ResetBaseURL:  cfg.ResetBaseURL,
	})

	handler := httpadapter.NewHandler(svc, httpadapter.Options{
		SecureCookie: cfg.SecureCookies,
		ReadyCheck: func() error {
			if err := sqlDB.Ping(); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if err := redisClient.Ping(context.Background()).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		},
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpadapter.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		cleanupFn: func(ctx context.Context) {
			_ = mailer.Close()
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

// RunAPI serves HTTP until a shutdown signal arrives.
func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}

// RunWorker consumes the mail queue until a shutdown signal arrives.
func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt, err := asynq.ParseRedisURI(r.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: r.cfg.WorkerConcurrency,
		Queues: map[string]int{
			mailadapter.Queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	sender := mailadapter.NewSMTPSender(mailadapter.SMTPConfig{
		Host:     r.cfg.SMTPHost,
		Port:     r.cfg.SMTPPort,
		Username: r.cfg.SMTPUsername,
		Password: r.cfg.SMTPPassword,
		From:     r.cfg.SMTPFrom,
	}, r.logger)
	sender.Register(mux)

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("mail worker started", "concurrency", r.cfg.WorkerConcurrency)
		if err := server.Run(mux); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			errCh <- fmt.Errorf("asynq server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("worker failure", "error", err)
	}

	server.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	return nil
}
