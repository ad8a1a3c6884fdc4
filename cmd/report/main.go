// Command report fetches one CWA dataset, renders it as an HTML report, and
// sends the report to a Telegram chat. It runs once and exits; scheduling is
// left to cron or a similar runner.
//
// Usage:
//
//	report -dataset observation   # hourly station readings (O-A0001-001)
//	report -dataset forecast      # weekly 12-hour forecast (F-D0047-091)
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/cwa-weather-report/internal/adapter/cwa"
	kafkaadapter "github.com/couchcryptid/cwa-weather-report/internal/adapter/kafka"
	"github.com/couchcryptid/cwa-weather-report/internal/adapter/telegram"
	"github.com/couchcryptid/cwa-weather-report/internal/config"
	"github.com/couchcryptid/cwa-weather-report/internal/observability"
	"github.com/couchcryptid/cwa-weather-report/internal/pipeline"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const pushTimeout = 10 * time.Second

func main() {
	datasetName := flag.String("dataset", "observation", "dataset to report: observation or forecast")
	flag.Parse()

	ds, err := pipeline.DatasetByName(*datasetName)
	if err != nil {
		slog.Error("invalid dataset", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger := observability.NewLogger(cfg, runID, ds.ID())
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, ds, &pipeline.RunContext{
		Logger:  logger,
		Config:  cfg,
		Clock:   clockwork.NewRealClock(),
		Metrics: metrics,
		RunID:   runID,
	})
	stop()

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		if perr := metrics.Push(pushCtx, cfg.PushgatewayURL, ds.ID()); perr != nil {
			logger.Warn("metrics push failed", "error", perr)
		}
		cancel()
	}

	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, ds pipeline.Dataset, rc *pipeline.RunContext) error {
	logger := rc.Logger

	creds, err := config.LoadCredentials(cfg)
	if err != nil {
		rc.Metrics.RunFailures.WithLabelValues("config").Inc()
		logger.Error("failed to load credentials", "error", err)
		return err
	}

	fetcher := cwa.NewClient(creds.CWAAPIKey, cfg.CWABaseURL, cfg.CWATimeout, logger)
	sender, err := telegram.NewClient(creds.TelegramToken, creds.ChatID, cfg.TelegramBaseURL, cfg.TelegramTimeout, logger)
	if err != nil {
		rc.Metrics.RunFailures.WithLabelValues("config").Inc()
		logger.Error("failed to create telegram client", "error", err)
		return err
	}

	var publisher pipeline.Publisher
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("row feed enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	return pipeline.New(rc, ds, fetcher, sender, publisher).Run(ctx)
}
