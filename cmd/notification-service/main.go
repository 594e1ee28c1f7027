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

	"github.com/abonentdesk/appeal-service/internal/appeal"
	"github.com/abonentdesk/appeal-service/internal/notify"
	"github.com/abonentdesk/appeal-service/internal/shared/config"
	"github.com/abonentdesk/appeal-service/internal/shared/db"
	"github.com/abonentdesk/appeal-service/internal/shared/events"
	"github.com/abonentdesk/appeal-service/internal/shared/kafkax"
	"github.com/abonentdesk/appeal-service/internal/shared/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const appName = "notification-service"

func main() {
	cfg := config.Load()
	log := logger.New(appName, cfg.AppEnv)

	if cfg.DatabaseURL == "" {
		log.Error("config_error", slog.String("err", "DATABASE_URL is empty"))
		os.Exit(2)
	}

	brokers := cfg.KafkaBrokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := db.OpenPostgres(ctx, db.PostgresConfig{DatabaseURL: cfg.DatabaseURL})
	if err != nil {
		log.Error("db_open_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = pg.Close() }()

	store := notify.NewStore(pg)
	consumer := kafkax.NewConsumer(kafkax.ConsumerConfig{Brokers: brokers, Topic: cfg.KafkaTopic, GroupID: cfg.KafkaGroupID})
	defer func() { _ = consumer.Close() }()

	reg := prometheus.NewRegistry()
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "notify_processed_total", Help: "Processed events."}, []string{"event_type", "status"})
	reg.MustRegister(processed)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		log.Info("metrics_listen", slog.String("addr", cfg.MetricsAddr))
		_ = http.ListenAndServe(cfg.MetricsAddr, mux)
	}()

	log.Info("consumer_start", slog.String("topic", cfg.KafkaTopic), slog.String("group_id", cfg.KafkaGroupID))

	for {
		select {
		case <-ctx.Done():
			log.Info("consumer_shutdown")
			return
		default:
			msg, err := consumer.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Error("kafka_fetch_failed", slog.String("err", err.Error()))
				time.Sleep(300 * time.Millisecond)
				continue
			}

			statusLabel := "ok"
			evType := "unknown"

			err = handleMessage(ctx, log, store, msg.Value, &evType)
			if err != nil {
				statusLabel = "error"
				log.Error("message_handle_failed", slog.String("err", err.Error()))
			}

			processed.WithLabelValues(evType, statusLabel).Inc()

			if err != nil {
				continue
			}
			if err := consumer.CommitMessages(ctx, msg); err != nil {
				log.Error("kafka_commit_failed", slog.String("err", err.Error()))
				continue
			}
		}
	}
}

func handleMessage(ctx context.Context, log *slog.Logger, store *notify.Store, value []byte, eventTypeOut *string) error {
	var env events.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return err
	}
	*eventTypeOut = env.EventType

	shouldProcess, err := store.StartProcessing(ctx, notify.ProcessedEvent{
		EventID:     env.EventID,
		EventType:   env.EventType,
		Aggregate:   env.Aggregate,
		AggregateID: env.AggregateID,
		Payload:     env.Payload,
	})
	if err != nil {
		return err
	}
	if !shouldProcess {
		log.Info("event_already_done", slog.String("event_id", env.EventID))
		return nil
	}

	if env.EventType == events.TypeAppealCreated {
		notifyAppealCreated(log, env)
	}

	if err := store.MarkDone(ctx, env.EventID); err != nil {
		_ = store.MarkFailed(ctx, env.EventID, err.Error())
		return err
	}
	return nil
}

// notifyAppealCreated stands in for a real notification channel: it logs
// who complained and about what, so operators can follow new appeals.
func notifyAppealCreated(log *slog.Logger, env events.Envelope) {
	var rec appeal.Record
	if err := json.Unmarshal(env.Payload, &rec); err != nil {
		log.Warn("event_payload_undecodable", slog.String("event_id", env.EventID), slog.String("err", err.Error()))
		return
	}

	types := make([]string, 0, 1+len(rec.Appeal.Problems))
	if rec.Appeal.Problem != nil {
		types = append(types, rec.Appeal.Problem.ProblemType)
	}
	for _, p := range rec.Appeal.Problems {
		types = append(types, p.ProblemType)
	}

	log.Info("appeal_notification",
		slog.String("appeal_id", rec.ID),
		slog.String("phone", rec.Appeal.Phone),
		slog.Any("problem_types", types),
	)
}
