package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	manualorderservice "sourcingdash/contexts/sourcing-ops/manual-order-service"
	postgresadapter "sourcingdash/contexts/sourcing-ops/manual-order-service/adapters/postgres"
	redisadapter "sourcingdash/contexts/sourcing-ops/manual-order-service/adapters/redis"
	workerapp "sourcingdash/contexts/sourcing-ops/manual-order-service/application/workers"
	"sourcingdash/internal/platform/alerting"
	"sourcingdash/internal/platform/config"
	"sourcingdash/internal/platform/db"
	"sourcingdash/internal/platform/httpserver"
	"sourcingdash/internal/platform/messaging"
	"sourcingdash/internal/platform/metrics"

	rd "github.com/redis/go-redis/v9"
)

// Package bootstrap is the composition root. Construction and wiring happen
// here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	kafka        *messaging.Kafka
	reconciler   workerapp.ClaimReconciler
	outboxRelay  workerapp.OutboxRelay
	metrics      *metrics.Registry
	pollInterval time.Duration
	scheduleTZ   string
	scheduleHour int
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, cfg.ManualOrdersTable, cfg.SourceOrdersTable, cfg.StoreTimeout, logger)
	if err := repo.Migrate(); err != nil {
		_ = pg.Close()
		return nil, err
	}

	guard := redisadapter.NewClaimGuard(rd.NewClient(&rd.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	}), 8*time.Hour)

	alerter := alerting.NewWebhookNotifier(cfg.AlertWebhookURL, cfg.ServiceName, logger)
	reg := metrics.NewRegistry()

	listCap := 0
	if cfg.DebugListCap {
		listCap = 50
	}

	module := manualorderservice.NewModule(manualorderservice.Dependencies{
		Orders:          repo,
		Sources:         repo,
		Guard:           guard,
		Alerts:          alerter,
		Clock:           postgresadapter.SystemClock{},
		IDGenerator:     postgresadapter.UUIDGenerator{},
		BackfillMetrics: reg,
		PendingListCap:  listCap,
		Logger:          logger,
	})

	server := httpserver.New(module, reg, alerter, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run() error {
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, cfg.ManualOrdersTable, cfg.SourceOrdersTable, cfg.StoreTimeout, logger)
	alerter := alerting.NewWebhookNotifier(cfg.AlertWebhookURL, cfg.ServiceName, logger)
	kafka := messaging.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	reg := metrics.NewRegistry()

	return &WorkerApp{
		postgres: pg,
		kafka:    kafka,
		reconciler: workerapp.ClaimReconciler{
			Orders: repo,
			Alerts: alerter,
			Logger: logger,
		},
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		metrics:      reg,
		pollInterval: cfg.OutboxPollInterval,
		scheduleTZ:   cfg.ReconcileTimezone,
		scheduleHour: cfg.ReconcileHour,
		logger:       logger,
	}, nil
}

// Run drains the outbox on a short poll and fires the claim reconciliation
// sweep at the configured hour on business days.
func (w *WorkerApp) Run(ctx context.Context) error {
	loc, err := time.LoadLocation(w.scheduleTZ)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	nextSweep := nextBusinessDayAt(time.Now().In(loc), w.scheduleHour)
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"next_sweep", nextSweep.Format(time.RFC3339),
	)

	for {
		sent, err := w.outboxRelay.RunOnce(ctx)
		if err != nil {
			w.logger.Error("outbox relay cycle failed",
				"event", "bootstrap_outbox_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		w.metrics.OutboxPublished.Add(float64(sent))

		if now := time.Now().In(loc); !now.Before(nextSweep) {
			released, err := w.reconciler.RunOnce(ctx)
			if err == nil {
				w.metrics.ReconcilerReleased.Add(float64(released))
			}
			nextSweep = nextBusinessDayAt(now, w.scheduleHour)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.kafka != nil {
		_ = w.kafka.Close()
	}
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// nextBusinessDayAt returns the next Monday-Friday instant at the given
// local hour strictly after now.
func nextBusinessDayAt(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
