package config

import (
	"time"

	"github.com/abonentdesk/appeal-service/internal/shared/env"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	// Store selection. The default file driver needs no environment at
	// all; postgres requires DATABASE_URL.
	StoreDriver string
	DataDir     string
	DatabaseURL string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	OutboxBatchSize         int
	OutboxPollInterval      time.Duration
	OutboxProcessingTimeout time.Duration
}

func Load() Config {
	loadDotEnv(".env")

	return Config{
		AppEnv:      env.String("APP_ENV", "dev"),
		HTTPAddr:    env.String("HTTP_ADDR", ":8080"),
		MetricsAddr: env.String("METRICS_ADDR", ":9091"),

		StoreDriver: env.String("STORE_DRIVER", "file"),
		DataDir:     env.String("DATA_DIR", "data"),
		DatabaseURL: env.String("DATABASE_URL", ""),

		KafkaBrokers: env.StringsCSV("KAFKA_BROKERS", nil),
		KafkaTopic:   env.String("KAFKA_TOPIC", "appeals.events"),
		KafkaGroupID: env.String("KAFKA_GROUP_ID", "notification-service"),

		OutboxBatchSize:         env.Int("OUTBOX_BATCH_SIZE", 50),
		OutboxPollInterval:      env.Duration("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxProcessingTimeout: env.Duration("OUTBOX_PROCESSING_TIMEOUT", 30*time.Second),
	}
}
