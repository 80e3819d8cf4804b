package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID     string
	HTTPPort      int
	GRPCPort      int
	PublicBaseURL string

	DatabaseURL string
	MaxDBConns  int32
	RedisURL    string

	KafkaBrokers             []string
	KafkaConsumerGroup       string
	KafkaTopicUserRegistered string
	KafkaTopicOrderPlaced    string

	JWTSecret string

	OverviewCacheTTL     time.Duration
	IdempotencyTTL       time.Duration
	EventDedupTTL        time.Duration
	ConsumerPollInterval time.Duration
	OutboxPollInterval   time.Duration
	OutboxFlushBatchSize int
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Affiliate struct {
		PublicBaseURL string `yaml:"public_base_url"`
	} `yaml:"affiliate"`
	Storage struct {
		DatabaseURL string `yaml:"database_url"`
		MaxDBConns  int    `yaml:"max_db_conns"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"storage"`
	Kafka struct {
		Brokers             []string `yaml:"brokers"`
		ConsumerGroup       string   `yaml:"consumer_group"`
		TopicUserRegistered string   `yaml:"topic_user_registered"`
		TopicOrderPlaced    string   `yaml:"topic_order_placed"`
	} `yaml:"kafka"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Runtime struct {
		OverviewCacheSeconds int `yaml:"overview_cache_seconds"`
		IdempotencyTTLHours  int `yaml:"idempotency_ttl_hours"`
		EventDedupTTLHours   int `yaml:"event_dedup_ttl_hours"`
		ConsumerPollSeconds  int `yaml:"consumer_poll_seconds"`
		OutboxPollSeconds    int `yaml:"outbox_poll_seconds"`
		OutboxFlushBatchSize int `yaml:"outbox_flush_batch_size"`
	} `yaml:"runtime"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:     "M90-Affiliate-Pricing-Service",
		HTTPPort:      8080,
		GRPCPort:      9090,
		PublicBaseURL: "https://shop.platform.com",

		MaxDBConns: 10,

		KafkaConsumerGroup:       "m90-affiliate-pricing",
		KafkaTopicUserRegistered: "user.registered",
		KafkaTopicOrderPlaced:    "order.placed",

		OverviewCacheTTL:     30 * time.Second,
		IdempotencyTTL:       7 * 24 * time.Hour,
		EventDedupTTL:        7 * 24 * time.Hour,
		ConsumerPollInterval: 2 * time.Second,
		OutboxPollInterval:   2 * time.Second,
		OutboxFlushBatchSize: 100,
	}
	if raw, err := os.ReadFile(path); err == nil {
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Affiliate.PublicBaseURL != "" {
			cfg.PublicBaseURL = f.Affiliate.PublicBaseURL
		}
		if f.Storage.DatabaseURL != "" {
			cfg.DatabaseURL = f.Storage.DatabaseURL
		}
		if f.Storage.MaxDBConns > 0 {
			cfg.MaxDBConns = int32(f.Storage.MaxDBConns)
		}
		if f.Storage.RedisURL != "" {
			cfg.RedisURL = f.Storage.RedisURL
		}
		if len(f.Kafka.Brokers) > 0 {
			cfg.KafkaBrokers = f.Kafka.Brokers
		}
		if f.Kafka.ConsumerGroup != "" {
			cfg.KafkaConsumerGroup = f.Kafka.ConsumerGroup
		}
		if f.Kafka.TopicUserRegistered != "" {
			cfg.KafkaTopicUserRegistered = f.Kafka.TopicUserRegistered
		}
		if f.Kafka.TopicOrderPlaced != "" {
			cfg.KafkaTopicOrderPlaced = f.Kafka.TopicOrderPlaced
		}
		if f.Auth.JWTSecret != "" {
			cfg.JWTSecret = f.Auth.JWTSecret
		}
		if f.Runtime.OverviewCacheSeconds > 0 {
			cfg.OverviewCacheTTL = time.Duration(f.Runtime.OverviewCacheSeconds) * time.Second
		}
		if f.Runtime.IdempotencyTTLHours > 0 {
			cfg.IdempotencyTTL = time.Duration(f.Runtime.IdempotencyTTLHours) * time.Hour
		}
		if f.Runtime.EventDedupTTLHours > 0 {
			cfg.EventDedupTTL = time.Duration(f.Runtime.EventDedupTTLHours) * time.Hour
		}
		if f.Runtime.ConsumerPollSeconds > 0 {
			cfg.ConsumerPollInterval = time.Duration(f.Runtime.ConsumerPollSeconds) * time.Second
		}
		if f.Runtime.OutboxPollSeconds > 0 {
			cfg.OutboxPollInterval = time.Duration(f.Runtime.OutboxPollSeconds) * time.Second
		}
		if f.Runtime.OutboxFlushBatchSize > 0 {
			cfg.OutboxFlushBatchSize = f.Runtime.OutboxFlushBatchSize
		}
	}
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.PublicBaseURL = envString("PUBLIC_BASE_URL", cfg.PublicBaseURL)
	cfg.DatabaseURL = envString("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = envString("REDIS_URL", cfg.RedisURL)
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		cfg.KafkaBrokers = splitAndTrim(raw)
	}
	cfg.KafkaConsumerGroup = envString("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.JWTSecret = envString("JWT_SECRET", cfg.JWTSecret)
	cfg.OverviewCacheTTL = time.Duration(envInt("OVERVIEW_CACHE_SECONDS", int(cfg.OverviewCacheTTL.Seconds()))) * time.Second
	cfg.IdempotencyTTL = time.Duration(envInt("IDEMPOTENCY_TTL_HOURS", int(cfg.IdempotencyTTL.Hours()))) * time.Hour
	cfg.EventDedupTTL = time.Duration(envInt("EVENT_DEDUP_TTL_HOURS", int(cfg.EventDedupTTL.Hours()))) * time.Hour
	cfg.ConsumerPollInterval = time.Duration(envInt("CONSUMER_POLL_SECONDS", int(cfg.ConsumerPollInterval.Seconds()))) * time.Second
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxFlushBatchSize = envInt("OUTBOX_FLUSH_BATCH_SIZE", cfg.OutboxFlushBatchSize)
	return cfg, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envInt(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envString(name, fallback string) string {
	if raw := os.Getenv(name); raw != "" {
		return raw
	}
	return fallback
}
