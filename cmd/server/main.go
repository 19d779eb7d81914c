package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/metrics"
	"shortlink/internal/mq"
	"shortlink/internal/repository"
	"shortlink/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultConfigPath = "configs/config.yaml"

// @title Shortlink API
// @version 1.0
// @description A short link service with click analytics

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
func main() {
	configPath := os.Getenv("SHORTLINK_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Server.Mode, &cfg.Log)

	// Key-value store: Redis when configured, otherwise in-process
	var store repository.KVStore
	if cfg.Redis.Addr != "" {
		store = repository.NewRedisStore(&cfg.Redis)
	} else {
		store = repository.NewMemoryStore()
	}
	defer store.Close()
	metrics.SetStoreBackend(store.Backend())

	// Raw click archive (optional)
	var archive repository.ClickLogRepositoryInterface
	if cfg.MySQL.DSN != "" {
		repo, err := repository.NewClickLogRepository(&cfg.MySQL)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize click archive, running without it")
		} else {
			archive = repo
			defer repo.Close()
		}
	}

	// Click event stream (optional)
	var publisher service.ClickPublisher
	var producer *mq.Producer
	if cfg.RocketMQ.NameServer != "" {
		producer, err = mq.NewProducer(&cfg.RocketMQ)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize RocketMQ producer, running without MQ")
		} else {
			publisher = producer
		}
	}

	var consumer *mq.Consumer
	if cfg.RocketMQ.NameServer != "" && archive != nil {
		consumer, err = mq.NewConsumer(&cfg.RocketMQ, mq.ArchiveHandler(archive))
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize RocketMQ consumer")
			consumer = nil
		} else {
			go func() {
				if err := consumer.Subscribe(); err != nil {
					log.Error().Err(err).Msg("Failed to subscribe to RocketMQ")
				}
			}()
		}
	}

	// Services
	linkSvc := service.NewLinkService(store, archive, cfg.Links)
	statsSvc := service.NewStatsService(store, linkSvc, archive, cfg.Stats)

	clickLimiter := service.NewRateLimiter(store, service.ScopeTrack, cfg.Tracking.RateLimit, cfg.Tracking.RateWindow)
	createLimiter := service.NewRateLimiter(store, service.ScopeCreate, cfg.Links.CreateRateLimit, time.Minute)

	tracker := service.NewClickTracker(store, clickLimiter, publisher, cfg.Tracking.DayBucketTTL)
	dispatcher := service.NewClickDispatcher(tracker, cfg.Tracking.Workers, cfg.Tracking.QueueSize, cfg.Tracking.Timeout)

	router := newRouter(cfg, routerDeps{
		store:         store,
		links:         linkSvc,
		stats:         statsSvc,
		dispatcher:    dispatcher,
		createLimiter: createLimiter,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("store", store.Backend()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Drain queued clicks before the producer and store go away
	dispatcher.Stop()

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close RocketMQ producer")
		}
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close RocketMQ consumer")
		}
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures the global logger. Debug mode logs to a console
// writer, release mode emits JSON. A configured file is written in addition
// to stdout and rotated by size.
func setupLogger(mode string, cfg *config.LogConfig) {
	level := zerolog.DebugLevel
	if mode == "release" {
		level = zerolog.InfoLevel
	}
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stdout
	if mode != "release" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	if cfg.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
