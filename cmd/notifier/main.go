// Command notifier consumes queued notifications, stores them, and sweeps
// expired ones.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"talenthub-backend/config"
	"talenthub-backend/internal/notify"
	"talenthub-backend/internal/repository/postgres"
	"talenthub-backend/pkg/database"
	"talenthub-backend/pkg/logger"
	"talenthub-backend/pkg/metrics"
	"talenthub-backend/pkg/mq"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	repo := postgres.NewNotificationRepository(dbPool)

	var wg sync.WaitGroup

	// Expired notifications are swept whatever the transport
	sweeper := notify.NewSweeper(repo, cfg.CleanupInterval)
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	if cfg.NotifyTransport == "amqp" {
		consumer, err := mq.NewConsumer(mq.ConsumerConfig{
			URL:      cfg.RabbitURL,
			Exchange: cfg.NotifyExchange,
			Queue:    cfg.NotifyQueue,
			Bindings: []string{"notification.*"},
			Prefetch: 16,
			DLX:      cfg.NotifyDLX,
			DLQ:      cfg.NotifyDLQ,
			Tag:      "talenthub-notifier",
		})
		if err != nil {
			logger.Log.Error("Failed to start consumer", "error", err)
			stop()
			wg.Wait()
			os.Exit(1)
		}
		defer consumer.Close()

		deliveries, err := consumer.Deliveries(ctx)
		if err != nil {
			logger.Log.Error("Failed to consume", "queue", cfg.NotifyQueue, "error", err)
			stop()
			wg.Wait()
			os.Exit(1)
		}

		worker := notify.NewWorker(repo, collector, cfg.NotifyTimeout)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := worker.Run(ctx, deliveries); err != nil {
				logger.Log.Error("Worker stopped", "error", err)
			}
		}()
		logger.Log.Info("Notifier consuming", "queue", cfg.NotifyQueue)
	} else {
		logger.Log.Info("NOTIFY_TRANSPORT is direct, running the sweeper only")
	}

	// Metrics for the worker process
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: metrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Warn("Metrics listener stopped", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down notifier...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	wg.Wait()
}
