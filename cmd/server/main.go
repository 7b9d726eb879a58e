package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Simran251393/whisperwalls/internal/app"
	"github.com/Simran251393/whisperwalls/internal/broadcast"
	"github.com/Simran251393/whisperwalls/internal/config"
	"github.com/Simran251393/whisperwalls/internal/logging"
	"github.com/Simran251393/whisperwalls/internal/moderation"
	"github.com/Simran251393/whisperwalls/internal/postgres"
	"github.com/Simran251393/whisperwalls/internal/redis"
	"github.com/Simran251393/whisperwalls/internal/retry"
	"github.com/Simran251393/whisperwalls/internal/server"
	"github.com/Simran251393/whisperwalls/internal/version"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func dialPolicy(target string) retry.Policy {
	p := retry.DefaultPolicy
	p.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Connection attempt failed, retrying",
			"target", target, "attempt", attempt, "backoff", backoff, "error", err)
	}
	return p
}

func setupDB(ctx context.Context, cfg *config.Config) *pgxpool.Pool {
	pool, err := retry.Do(ctx, dialPolicy("postgres"), func() (*pgxpool.Pool, error) {
		return postgres.Connect(ctx, cfg.DatabaseURL)
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := retry.Do(ctx, dialPolicy("redis"), func() (*goredis.Client, error) {
		return redis.NewClient(ctx, cfg.RedisURL)
	})
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server, appSvc *app.Service, hub *broadcast.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		hub.Stop()
		appSvc.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Whisper Walls starting", "build", version.Get().String(), "env", cfg.AppEnv, "port", cfg.Port)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStartup()

	pool := setupDB(startupCtx, cfg)
	defer pool.Close()

	redisClient := setupRedis(startupCtx, cfg)
	defer func() { _ = redisClient.Close() }()

	whisperRepo := postgres.NewWhisperRepo(pool)
	debouncer := redis.NewLikeDebouncer(redisClient)
	validator := moderation.NewValidator()
	postLimiter := app.NewPostLimiter(cfg.PostsPerMinute, cfg.PostBurst, clock)

	hub := broadcast.NewHub()
	appSvc := app.NewService(whisperRepo, debouncer, hub, validator, postLimiter, clock)

	srv := server.NewServer(cfg, appSvc, hub, pool, redisClient)

	done := runGracefulShutdown(srv, appSvc, hub)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
