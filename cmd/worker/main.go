package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/joao-fontenele/order-intake/internal/config"
	"github.com/joao-fontenele/order-intake/internal/logging"
	"github.com/joao-fontenele/order-intake/internal/messaging"
	"github.com/joao-fontenele/order-intake/internal/telemetry"
	"github.com/joao-fontenele/order-intake/internal/worker"
)

const serviceName = "dead-letter-worker"

func main() {
	cfg, err := config.Load("0")
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)

	if err := cfg.RequireKafka(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	if err := cfg.RequirePostgres(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry.OTLPEndpoint, serviceName, cfg.Telemetry.ServiceVersion)
		if err != nil {
			logger.Error("failed to initialize tracer", "error", err)
			os.Exit(1)
		}
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	db, err := telemetry.OpenDB(cfg.Postgres.URL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	consumer := messaging.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.OrderFailedTopic, cfg.Kafka.WorkerGroupID)
	defer func() { _ = consumer.Close() }()

	deadLetters := worker.NewDeadLetterHandler(worker.NewDeadLetterRepository(db), logger)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting dead-letter worker", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.OrderFailedTopic)

	if err := consumer.Consume(ctx, deadLetters.Handle); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
