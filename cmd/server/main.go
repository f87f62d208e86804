package main

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/adapters/cache"
	"itinerary-route-service/internal/adapters/daygen"
	"itinerary-route-service/internal/adapters/llm"
	"itinerary-route-service/internal/adapters/oracle"
	"itinerary-route-service/internal/adapters/places"
	"itinerary-route-service/internal/api"
	"itinerary-route-service/internal/config"
	"itinerary-route-service/internal/platform/db"
	"itinerary-route-service/internal/platform/metrics"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/reconcile"
	"itinerary-route-service/internal/session"
	"itinerary-route-service/internal/share"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (oracle, generator, Photon, caches) behind ports
// and starts the HTTP server.
func main() {
	if err := config.LoadDotenv(); err != nil {
		slog.Warn("reading .env failed", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var completer *llm.Client
	if cfg.Oracle == "openai" || cfg.DayGenerator == "openai" {
		c, err := llm.NewClient(llm.Config{APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL})
		if err != nil {
			return err
		}
		completer = c
	}

	var seqOracle ports.SequencingOracle = oracle.NewLocalOracle()
	if cfg.Oracle == "openai" {
		seqOracle = oracle.NewOpenAIOracle(completer)
	}

	var generator ports.DayGenerator = daygen.NewMockGenerator()
	if cfg.DayGenerator == "openai" {
		generator = daygen.NewOpenAIGenerator(completer)
	}

	placeCache, closeCache, err := openPlaceCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	var searcher ports.PlaceSearcher = places.NewPhotonSearcher(cfg.PhotonURL)
	if placeCache != nil {
		searcher = places.NewCachedSearcher(searcher, placeCache)
	}

	codec, err := share.NewCodec()
	if err != nil {
		return err
	}

	m := metrics.New()
	sessions := session.NewManager(seqOracle, generator, codec,
		session.WithThreshold(cfg.SequencingThreshold),
		session.WithSequencingTimeout(cfg.SequencingTimeout),
		session.WithStrictIntegrity(cfg.Strict()),
		session.WithObserver(reconcile.NewLogObserver(logger)),
		session.WithObserver(m),
		session.WithLogger(logger),
	)
	defer sessions.Close()

	router := api.NewRouter(api.Deps{Sessions: sessions, Places: searcher, Metrics: m})

	// Day generation waits on the language model, so writes get a generous timeout.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "oracle", cfg.Oracle, "generator", cfg.DayGenerator, "place_cache", cfg.PlaceCache)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openPlaceCache returns the configured cache, or nil when caching is off.
func openPlaceCache(ctx context.Context, cfg config.Config) (ports.PlaceCache, func(), error) {
	noop := func() {}

	switch cfg.PlaceCache {
	case "sqlite":
		conn, err := db.OpenSqlite(cfg.SqlitePath)
		if err != nil {
			return nil, noop, err
		}
		if err := cache.InitSchema(ctx, conn, cache.DialectSqlite); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return cache.NewSqlitePlaceCache(conn, cfg.PlaceCacheTTL), func() { conn.Close() }, nil

	case "postgres":
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := cache.InitSchema(ctx, conn, cache.DialectPostgres); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return cache.NewSQLPlaceCache(conn, cfg.PlaceCacheTTL), func() { conn.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisPlaceCache(client, cfg.PlaceCacheTTL), func() { client.Close() }, nil
	}

	return nil, noop, nil
}
