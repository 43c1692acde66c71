package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/api"
	"github.com/frielp/qonos/fault"
	"github.com/frielp/qonos/job"
	"github.com/frielp/qonos/middleware"
	"github.com/frielp/qonos/schedule"
	"github.com/frielp/qonos/store"
	"github.com/frielp/qonos/store/memory"
	"github.com/frielp/qonos/store/postgres"
	"github.com/frielp/qonos/store/redis"
	"github.com/frielp/qonos/store/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("starting qonos api server")

	if err := run(logger); err != nil {
		logger.Error("server startup failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		cancel()
	}()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck // best-effort on shutdown

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate store: %w", err)
	}

	recorder := fault.NewRecorder(st, fault.WithLogger(logger))
	jobs := job.NewService(st, st, recorder, job.WithLogger(logger))
	schedules := schedule.NewService(st)

	a := api.New(jobs, schedules, st,
		api.WithLogger(logger),
		api.WithHealth(st),
	)

	mws := []middleware.Middleware{
		middleware.Logging(logger),
		middleware.Recover(logger),
	}
	if cfg.RequestsPerSecond > 0 {
		mws = append(mws, middleware.RateLimit(cfg.RequestsPerSecond))
	}
	handler := middleware.Chain(mws...)(a.Handler())

	if len(cfg.CORSOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		})
		handler = c.Handler(handler)
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Addr, "store", cfg.Store)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("draining api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// loadConfig starts from defaults and overlays the YAML file when given.
func loadConfig(path string) (qonos.Config, error) {
	cfg := qonos.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return qonos.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return qonos.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// openStore selects the persistence backend from the config.
func openStore(ctx context.Context, cfg qonos.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Store {
	case "memory", "":
		return memory.New(), nil
	case "sqlite":
		return sqlite.New(cfg.DSN, sqlite.WithLogger(logger))
	case "postgres":
		return postgres.New(ctx, cfg.DSN, postgres.WithLogger(logger))
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.DSN})
		return redis.New(client, redis.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
