package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/jphoke/tlsinspect/pkg/cache"
	"github.com/jphoke/tlsinspect/pkg/config"
	"github.com/jphoke/tlsinspect/pkg/hosts"
	"github.com/jphoke/tlsinspect/pkg/logger"
	"github.com/jphoke/tlsinspect/pkg/runner"
	"github.com/jphoke/tlsinspect/pkg/scanner"
	"github.com/jphoke/tlsinspect/pkg/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("api", pflag.ExitOnError)
	cfgFile := fs.String("config", "", "config file (yaml)")
	fs.String("addr", ":8080", "listen address")
	fs.String("database-url", "", "Postgres DSN")
	fs.String("redis-addr", "", "Redis address")
	fs.String("log-level", "info", "log level")
	fs.String("log-format", "json", "log format (console, json)")
	fs.String("cache-dir", "", "directory holding pshtt and trustymail results")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgFile, fs)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	defer rdb.Close()

	fastCache := cache.Cache(cache.NewMemory())
	if cfg.Cache.Backend == "redis" {
		fastCache = cache.NewRedisWithClient(rdb, cfg.Cache.TTL)
	}
	if cfg.Cache.NoFastCache {
		fastCache = nil
	}

	updates := &updateBus{client: rdb, log: log.WithComponent("updates")}

	s, err := scanner.New(cfg.Scan, log, scanner.WithNotifier(func(err error) {
		updates.notifyError(ctx, err)
	}))
	if err != nil {
		return err
	}
	planner := hosts.NewPlanner(cfg.Hosts.CacheDir, cfg.Hosts.Scans, fastCache, log)
	domainRunner := runner.New(cfg.Runner, cfg.Cache, planner, s, fastCache, log)

	server := &Server{
		store:     db,
		updates:   updates,
		log:       log.WithComponent("api"),
		pollEvery: time.Second,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	server.routes(r)

	server.startWorkers(ctx, cfg.API.Workers, domainRunner)

	httpServer := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infow("Starting API server", "addr", cfg.API.Addr, "workers", cfg.API.Workers, "mode", s.Mode().String())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("API server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Infow("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
