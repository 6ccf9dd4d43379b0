package main

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

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/cache"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/config"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/consumer"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/notifier"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/poller"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/providers/bing"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/scorecard"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/storage"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/tracker"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/contracts"
)

const serviceName = "cricket-stats-service"

func main() {
	if err := run(); err != nil {
		slog.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.SetupLogger(cfg.Logging, serviceName)
	if err != nil {
		return err
	}
	logger.Info("starting", "addr", cfg.Server.Addr, "source_mode", cfg.Source.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher, err := newFetcher(cfg.Source)
	if err != nil {
		return err
	}

	liveHub := hub.NewHub(logger)
	var listeners []contracts.Listener
	var fanout *consumer.StreamConsumer

	var (
		registry  *tracker.Registry
		regOpts   []tracker.Option
		snapshots contracts.SnapshotStore
		debugSink contracts.DebugSink
		gate      notifier.Gate = notifier.NewMemoryGate(notifier.DefaultDedupTTL)
	)

	if cfg.Redis.Enabled {
		redisClient, err := connectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		logger.Info("connected to redis")

		writer := cache.NewRedisWriter(redisClient, keysFunc(func() []string { return registry.Keys() }))
		listeners = append(listeners, writer, publisher.NewStreamPublisher(redisClient, cfg.Redis.StreamMaxLen))
		regOpts = append(regOpts, tracker.WithSeeder(writer))
		gate = notifier.NewRedisGate(redisClient, notifier.DefaultDedupTTL)

		if cfg.Redis.StreamFanout {
			fanout = consumer.NewStreamConsumer(redisClient, liveHub, logger)
		}
	}
	if fanout == nil {
		listeners = append(listeners, liveHub)
	}

	if cfg.Postgres.DSN != "" {
		db, err := storage.OpenPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()

		store := storage.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		snapshots = store
		logger.Info("connected to postgres")
	}

	if cfg.Debug.Enabled {
		debugSink, err = newDebugSink(ctx, cfg.Debug)
		if err != nil {
			return err
		}
		regOpts = append(regOpts, tracker.WithDebugSink(debugSink))
	}

	if cfg.Telegram.BotToken != "" {
		sender, err := notifier.NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return err
		}
		listeners = append(listeners, notifier.NewNotifier(sender, gate, logger))
		logger.Info("telegram alerts enabled", "chat_id", cfg.Telegram.ChatID)
	}

	regOpts = append(regOpts, tracker.WithListeners(listeners...))
	registry = tracker.NewRegistry(fetcher, scorecard.NewEngine(logger), logger, regOpts...)

	g, gctx := errgroup.WithContext(ctx)

	handler := handlers.NewHandler(registry, snapshots, debugSink, handlers.Options{
		DefaultTournamentID: cfg.Source.DefaultTournamentID,
		AdminAPIKey:         cfg.Server.AdminAPIKey,
	}, logger)
	wsHandler := handlers.NewWebSocketHandler(gctx, liveHub, logger)

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handlers.NewRouter(handler, wsHandler, handlers.RouterOptions{
			CORSOrigins: cfg.Server.CORSOrigins,
		}, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g.Go(func() error {
		liveHub.Run(gctx)
		return nil
	})

	if fanout != nil {
		g.Go(func() error {
			fanout.Run(gctx)
			return nil
		})
	}

	if cfg.Poller.Enabled {
		var opts []poller.Option
		if cfg.Poller.AutoSnapshot && snapshots != nil {
			opts = append(opts, poller.WithAutoSnapshot(snapshots))
		}
		p := poller.NewPoller(registry, cfg.Poller.Interval, logger, opts...)
		g.Go(func() error {
			p.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", "error", err)
			return srv.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func newFetcher(cfg config.SourceConfig) (contracts.Fetcher, error) {
	opts := bing.Options{
		BaseURL:           cfg.BaseURL,
		UserAgent:         cfg.UserAgent,
		Timeout:           cfg.Timeout,
		MaxAttempts:       cfg.MaxAttempts,
		RetryDelay:        cfg.RetryDelay,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
	if cfg.Mode == "browser" {
		return bing.NewBrowserFetcher(opts, cfg.ChromePath), nil
	}
	client, err := bing.New(opts)
	if err != nil {
		return nil, fmt.Errorf("creating source client: %w", err)
	}
	return client, nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func newDebugSink(ctx context.Context, cfg config.DebugConfig) (contracts.DebugSink, error) {
	if cfg.S3Bucket != "" {
		sink, err := storage.NewS3DebugSink(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region)
		if err != nil {
			return nil, err
		}
		slog.Info("debug captures go to s3", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
		return sink, nil
	}

	sink, err := storage.NewFileDebugSink(cfg.Dir)
	if err != nil {
		return nil, err
	}
	slog.Info("debug captures go to disk", "dir", cfg.Dir)
	return sink, nil
}

// keysFunc adapts a function to cache.KeyLister.
type keysFunc func() []string

func (f keysFunc) Keys() []string { return f() }
