package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/roundtrip/config"
	"github.com/Domenick1991/roundtrip/internal/bootstrap"
	"github.com/Domenick1991/roundtrip/internal/cache"
	"github.com/Domenick1991/roundtrip/internal/kafka"
	"github.com/Domenick1991/roundtrip/internal/repository"
	"github.com/Domenick1991/roundtrip/internal/service/search"
	"github.com/Domenick1991/roundtrip/internal/source"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	staticAirports := cfg.Airports
	if len(staticAirports) == 0 {
		staticAirports = repository.DefaultAirports
	}
	airports := repository.NewStaticAirportRepository(staticAirports)
	if cfg.Database.Enabled() {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		airports = repository.Fallback(repository.NewAirportRepository(pool), airports)
	}

	var store search.Store
	switch cfg.Search.Store {
	case config.StoreRedis:
		redisStore := cache.NewRedisStore(cfg.Redis, cfg.Search.ResultTTL())
		defer redisStore.Close()
		store = redisStore
	case config.StoreSQLite:
		sqliteStore, err := cache.NewSQLiteStore(ctx, cfg.Search.SQLitePath, cfg.Search.ResultTTL())
		if err != nil {
			log.Fatalf("open sqlite store: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	default:
		store = cache.NewMemoryStore(cfg.Search.ResultTTL())
	}

	var flights source.Source
	switch cfg.Source.Kind {
	case config.SourceHTTP:
		flights = source.NewHTTPSource(cfg.Source.URL, cfg.Source.Timeout())
	default:
		flights, err = source.LoadFile(cfg.Source.Path)
		if err != nil {
			log.Fatalf("load flights fixture: %v", err)
		}
	}

	opts := []search.SearchServiceOption{
		search.WithRetry(cfg.Search.MaxAttempts, cfg.Search.RetryBase()),
		search.WithDisplayCap(cfg.Search.DisplayCap),
		search.WithBookingURLTemplate(cfg.Search.BookingURLTemplate),
		search.WithLogger(logger),
	}
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			logger.Warn("kafka unavailable, search events may be lost", "error", err)
		}
		opts = append(opts, search.WithEvents(producer, cfg.Kafka.SearchEventsTopic))
	}

	searchService := search.NewSearchService(
		airports,
		source.Paced(flights, cfg.Search.Pacing(), logger),
		store,
		opts...,
	)

	if err := bootstrap.Run(ctx, cfg, searchService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
