// Package server owns the process lifecycle: it builds every dependency from
// configuration, serves HTTP (and optionally gRPC health) and shuts down
// gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/routes"
	"github.com/shashiranjanraj/shopfront/config"
	_ "github.com/shashiranjanraj/shopfront/database/migrations"
	"github.com/shashiranjanraj/shopfront/internal/kernel"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/database"
	shopgrpc "github.com/shashiranjanraj/shopfront/pkg/grpc"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/middleware"
	"github.com/shashiranjanraj/shopfront/pkg/migration"
	"github.com/shashiranjanraj/shopfront/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

// App is a fully wired process, ready to serve.
type App struct {
	DB       *gorm.DB
	Services *routes.Services
	Kernel   *kernel.HTTPKernel

	limiter *middleware.MemoryLimiter
}

// Build opens the database, connects cache and storage and assembles the HTTP
// kernel. It does not bind any port.
func Build(ctx context.Context) (*App, error) {
	db, err := database.Connect()
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewIssuerFromConfig()
	if err != nil {
		return nil, err
	}

	store, err := cache.New(ctx)
	if err != nil {
		logger.Warn("cache: redis unavailable, using memory", "error", err)
	}

	disk, err := storage.NewFromConfig(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{DB: db, Services: routes.NewServices(db, tokens, store, disk)}

	opts := kernel.Options{
		Services: app.Services,
		Health:   app.ping,
		CORS:     middleware.CORSOptionsFromConfig(),
	}
	opts.Limiter, app.limiter = newLimiter(store)
	if local, ok := disk.(*storage.Local); ok {
		opts.Files = http.FileServer(http.Dir(local.Root()))
	}

	app.Kernel, err = kernel.New(opts)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// newLimiter picks the rate limiter driver. The redis limiter reuses the
// cache's client when the cache is redis backed.
func newLimiter(store cache.Store) (middleware.Limiter, *middleware.MemoryLimiter) {
	perMinute := config.RateLimitPerMinute()
	if perMinute <= 0 {
		return nil, nil
	}

	if config.RateLimitDriver() == "redis" {
		if rc, ok := store.(*cache.Redis); ok {
			return middleware.NewRedisLimiter(rc.Client(), perMinute, time.Minute), nil
		}
		rdb := redis.NewClient(&redis.Options{Addr: config.RedisAddr(), Password: config.RedisPassword()})
		return middleware.NewRedisLimiter(rdb, perMinute, time.Minute), nil
	}

	mem := middleware.NewMemoryLimiter(perMinute, 10*time.Minute)
	return mem, mem
}

func (a *App) ping(ctx context.Context) error {
	return database.Ping(ctx, a.DB)
}

// Start runs the server until SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	closeLogs, err := logger.Setup()
	defer closeLogs()
	if err != nil {
		logger.Warn("log shipping disabled", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := Build(ctx)
	if err != nil {
		return err
	}
	defer database.Close(app.DB) //nolint:errcheck

	if err := migration.New(app.DB).WithOutput(io.Discard).Run(); err != nil {
		return err
	}

	username, password := config.FirstAdmin()
	if _, err := app.Services.Auth.EnsureFirstAdmin(ctx, username, password); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	if app.limiter != nil {
		go app.limiter.RunSweeper(ctx, time.Minute)
	}

	var grpcSrv *shopgrpc.Server
	if port := config.GRPCPort(); port != "" {
		grpcSrv, err = shopgrpc.Start(port, app.ping)
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           app.Kernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("shopfront running", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		grpcSrv.Stop()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	grpcSrv.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
