// Command server runs the game service: HTTP/WebSocket transport, the
// injected state store, and the timeout fallback driver.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/VicWang17/Aivalon/internal/config"
	"github.com/VicWang17/Aivalon/internal/game"
	"github.com/VicWang17/Aivalon/internal/names"
	"github.com/VicWang17/Aivalon/internal/server"
	"github.com/VicWang17/Aivalon/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st store.Store
	switch cfg.StoreBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("connect to redis")
		}
		st = store.NewRedisStore(rdb)
		log.WithField("addr", cfg.RedisAddr).Info("using redis store")
	default:
		st = store.NewMemoryStore()
		log.Info("using in-memory store")
	}

	var resolver names.Resolver
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("connect to postgres")
		}
		defer pool.Close()
		resolver = names.NewPostgres(pool)
		log.Info("using postgres display-name resolver")
	}

	svc := game.NewService(st, resolver, log)

	driver := game.NewDriver(svc, cfg.SweepInterval, log)
	go driver.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(svc, log).Handler(),
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.WithField("addr", cfg.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("http server")
	}
}
