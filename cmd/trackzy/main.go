package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/0xtz/trackzy-finance-app/internal/config"
	"github.com/0xtz/trackzy-finance-app/internal/events"
	apphttp "github.com/0xtz/trackzy-finance-app/internal/http"
	applog "github.com/0xtz/trackzy-finance-app/internal/log"
	"github.com/0xtz/trackzy-finance-app/internal/services"
	"github.com/0xtz/trackzy-finance-app/internal/storage"
	"github.com/0xtz/trackzy-finance-app/internal/worker"
)

func main() {
	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", applog.FieldError, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", applog.FieldError, err, applog.FieldDBPath, cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close storage", applog.FieldError, err)
		}
	}()

	// Mutation events are optional. Without a broker the service still runs,
	// but other instances keep serving cached listings until TTL expiry.
	var publisher services.MutationPublisher
	var eventsClient *events.Client
	if cfg.EventsEnabled() {
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Error("Failed to connect to AMQP", applog.FieldError, err)
			os.Exit(1)
		}
		defer func() {
			if err := eventsClient.Close(); err != nil {
				logger.Error("Failed to close AMQP client", applog.FieldError, err)
			}
		}()
		publisher = eventsClient
		logger.Info("Mutation events enabled", applog.FieldExchange, cfg.AMQPExchange)
	} else {
		logger.Info("Mutation events disabled, no AMQP URL configured")
	}

	svc := services.New(repo, publisher)
	srv := apphttp.NewServer(":"+cfg.Port, svc, cfg.CacheSize, cfg.CacheTTL)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting trackzy server", applog.FieldPort, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	sweeper := worker.NewSweeper(repo, cfg.PurgeInterval, cfg.Retention)
	g.Go(func() error {
		return sweeper.Run(ctx)
	})

	// Invalidate local listing caches when another instance mutates.
	if eventsClient != nil {
		g.Go(func() error {
			err := eventsClient.ConsumeMutations(ctx, cfg.AMQPQueue, "trackzy.#", func(m *events.Mutation) error {
				srv.InvalidateResource(m.Resource, m.OwnerID)
				return nil
			})
			if err != nil && ctx.Err() == nil {
				logger.Error("Mutation consumer stopped", applog.FieldError, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
