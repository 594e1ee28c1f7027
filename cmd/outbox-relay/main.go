package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abonentdesk/appeal-service/internal/outbox"
	"github.com/abonentdesk/appeal-service/internal/shared/config"
	"github.com/abonentdesk/appeal-service/internal/shared/db"
	"github.com/abonentdesk/appeal-service/internal/shared/events"
	"github.com/abonentdesk/appeal-service/internal/shared/kafkax"
	"github.com/abonentdesk/appeal-service/internal/shared/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const appName = "outbox-relay"

func main() {
	cfg := config.Load()
	log := logger.New(appName, cfg.AppEnv)

	if cfg.DatabaseURL == "" {
		log.Error("config_error", slog.String("err", "DATABASE_URL is empty"))
		os.Exit(2)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Error("config_error", slog.String("err", "KAFKA_BROKERS is empty"))
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := db.OpenPostgres(ctx, db.PostgresConfig{DatabaseURL: cfg.DatabaseURL})
	if err != nil {
		log.Error("db_open_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = pg.Close() }()

	store := outbox.NewStore(pg)

	producer := kafkax.NewProducer(kafkax.ProducerConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		ClientID: appName,
	})
	defer func() { _ = producer.Close() }()

	reg := prometheus.NewRegistry()
	m := outbox.NewMetrics(reg)
	pollsTotal := prometheus.NewCounter(prometheus.CounterOpts{Name: "outbox_polls_total", Help: "Relay poll iterations."})
	reg.MustRegister(pollsTotal)

	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics_listen", slog.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics_server_error", slog.String("err", err.Error()))
		}
	}()

	log.Info("relay_start",
		slog.Int("batch_size", cfg.OutboxBatchSize),
		slog.String("poll_interval", cfg.OutboxPollInterval.String()),
		slog.String("processing_timeout", cfg.OutboxProcessingTimeout.String()),
		slog.String("topic", cfg.KafkaTopic),
	)

	ticker := time.NewTicker(cfg.OutboxPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
			log.Info("relay_shutdown")
			return
		case <-ticker.C:
			pollsTotal.Inc()

			if n, err := store.ResetStuck(ctx, cfg.OutboxProcessingTimeout); err != nil {
				log.Error("outbox_reset_failed", slog.String("err", err.Error()))
			} else if n > 0 {
				log.Warn("outbox_requeued_stuck", slog.Int64("count", n))
			}

			recs, err := store.ClaimPending(ctx, cfg.OutboxBatchSize)
			if err != nil {
				log.Error("outbox_claim_failed", slog.String("err", err.Error()))
				continue
			}
			if len(recs) == 0 {
				m.LagSeconds.Set(0)
				continue
			}

			m.LagSeconds.Set(time.Since(recs[0].CreatedAt).Seconds())

			for _, rec := range recs {
				if err := publish(ctx, producer, rec); err != nil {
					m.FailedTotal.WithLabelValues(rec.EventType).Inc()
					log.Error("outbox_publish_failed",
						slog.Int64("id", rec.ID),
						slog.String("event_type", rec.EventType),
						slog.String("err", err.Error()),
					)
					_ = store.MarkFailed(ctx, rec.ID, time.Now().Add(retryBackoff(rec.Attempts)), err.Error())
					continue
				}

				if err := store.MarkSent(ctx, rec.ID); err != nil {
					log.Error("outbox_mark_sent_failed", slog.Int64("id", rec.ID), slog.String("err", err.Error()))
					continue
				}
				m.PublishedTotal.WithLabelValues(rec.EventType).Inc()
			}
		}
	}
}

func publish(ctx context.Context, producer *kafkax.Producer, rec outbox.Event) error {
	env := events.Envelope{
		EventID:     rec.EventID,
		EventType:   rec.EventType,
		OccurredAt:  rec.CreatedAt,
		Aggregate:   rec.Aggregate,
		AggregateID: rec.AggregateID,
		Payload:     rec.Payload,
	}

	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	return producer.Produce(ctx, []byte(rec.AggregateID), value, 0)
}

func retryBackoff(attempts int) time.Duration {
	d := time.Duration(attempts) * 5 * time.Second
	if d > 2*time.Minute {
		d = 2 * time.Minute
	}
	if d <= 0 {
		d = 5 * time.Second
	}
	return d
}
