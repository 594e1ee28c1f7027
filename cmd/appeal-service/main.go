package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/abonentdesk/appeal-service/internal/appeal"
	"github.com/abonentdesk/appeal-service/internal/outbox"
	"github.com/abonentdesk/appeal-service/internal/shared/config"
	"github.com/abonentdesk/appeal-service/internal/shared/db"
	"github.com/abonentdesk/appeal-service/internal/shared/events"
	"github.com/abonentdesk/appeal-service/internal/shared/httpx"
	"github.com/abonentdesk/appeal-service/internal/shared/kafkax"
	"github.com/abonentdesk/appeal-service/internal/shared/logger"
	"github.com/abonentdesk/appeal-service/internal/shared/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const appName = "appeal-service"

func main() {
	cfg := config.Load()
	log := logger.New(appName, cfg.AppEnv)

	ctx := context.Background()

	var (
		store appeal.Store
		pub   appeal.Publisher
	)

	switch cfg.StoreDriver {
	case "postgres":
		pg, err := db.OpenPostgres(ctx, db.PostgresConfig{DatabaseURL: cfg.DatabaseURL})
		if err != nil {
			log.Error("db_open_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = pg.Close() }()

		store = appeal.NewPostgresStore(pg)
		pub = outbox.NewPublisher(outbox.NewStore(pg))
	case "memory":
		store = appeal.NewInMemoryStore()
	default:
		store = appeal.NewFileStore(cfg.DataDir)
	}

	// Without Postgres there is no outbox; publish straight to Kafka when
	// brokers are configured, otherwise eventing is off.
	if pub == nil && len(cfg.KafkaBrokers) > 0 {
		producer := kafkax.NewProducer(kafkax.ProducerConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			ClientID: appName,
		})
		defer func() { _ = producer.Close() }()
		pub = &kafkaPublisher{producer: producer}
	}

	reg := prometheus.NewRegistry()
	m := httpx.NewMetrics(reg)

	createdTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "appeals_created_total", Help: "Appeals created by intake kind."},
		[]string{"kind"},
	)
	reg.MustRegister(createdTotal)

	appealH := &appeal.Handler{
		Log:          log,
		Store:        store,
		Events:       pub,
		CreatedTotal: createdTotal,
	}

	metricsH := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	handler := httpx.NewRouterWithMetrics(log, appealH, m, metricsH)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("http_listen", slog.String("addr", srv.Addr), slog.String("store", cfg.StoreDriver))

	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Error("http_server_error", slog.String("err", err.Error()))
		}
	}()

	httpx.WaitAndShutdown(log, srv, 10*time.Second)
}

type kafkaPublisher struct {
	producer *kafkax.Producer
}

func (k *kafkaPublisher) AppealCreated(ctx context.Context, rec appeal.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	env := events.Envelope{
		EventID:     uuid.NewString(),
		EventType:   events.TypeAppealCreated,
		OccurredAt:  time.Now().UTC(),
		Aggregate:   events.AggregateAppeal,
		AggregateID: rec.ID,
		RequestID:   requestid.Get(ctx),
		Payload:     payload,
	}

	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	return k.producer.Produce(ctx, []byte(rec.ID), value, 0)
}
