package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"inventory-order-service/database"
	awspkg "inventory-order-service/pkg/aws"
	"inventory-order-service/sender"

	"github.com/joho/godotenv"
)

const dbSecretName = "inventory/DB_CREDENTIALS"

type Config struct {
	Port     string
	Env      string
	Postgres database.PostgresConfig
	// LockTimeout bounds how long a transaction waits for a row lock.
	LockTimeout time.Duration

	RedisURL string
	CacheTTL time.Duration

	KafkaBrokers     []string
	OrderEventsTopic string

	AWSRegion         string
	AWSEndpoint       string
	CloudWatchEnabled bool
	MetricsNamespace  string
	LogGroupName      string

	SNSLowStockTopicARN  string
	LowStockThreshold    int
	AlertEmailRecipients []string
	AlertSMSRecipients   []string
	SMTP                 sender.SMTPConfig
	Twilio               sender.TwilioConfig

	JWTSecret          string
	AllowedOrigins     string
	RateLimitPerMinute int
}

type secretSource interface {
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", "development"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		LockTimeout: getDuration("LOCK_TIMEOUT", 5*time.Second),

		RedisURL: os.Getenv("REDIS_URL"),
		CacheTTL: getDuration("CACHE_TTL", 5*time.Minute),

		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order.events"),

		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:       os.Getenv("AWS_ENDPOINT"),
		CloudWatchEnabled: os.Getenv("CLOUDWATCH_ENABLED") == "true",
		MetricsNamespace:  getEnv("CLOUDWATCH_NAMESPACE", "InventoryOrderService"),
		LogGroupName:      getEnv("CLOUDWATCH_LOG_GROUP", "/inventory-order-service"),

		SNSLowStockTopicARN:  os.Getenv("SNS_LOW_STOCK_TOPIC_ARN"),
		LowStockThreshold:    getInt("LOW_STOCK_THRESHOLD", 5),
		AlertEmailRecipients: splitList(os.Getenv("ALERT_EMAIL_RECIPIENTS")),
		AlertSMSRecipients:   splitList(os.Getenv("ALERT_SMS_RECIPIENTS")),
		SMTP: sender.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Twilio: sender.TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		},

		JWTSecret:          os.Getenv("JWT_SECRET"),
		AllowedOrigins:     getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 100),
	}

	// Override DB credentials and the JWT secret from Secrets Manager when running on AWS
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background(), cfg.AWSRegion, cfg.AWSEndpoint); err == nil {
			applySecrets(context.Background(), cfg, awspkg.NewSecretsClient(awsCfg))
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applySecrets(ctx context.Context, cfg *Config, sm secretSource) {
	m, err := sm.GetSecretMap(ctx, dbSecretName)
	if err != nil {
		return
	}
	if v := m["POSTGRES_USER"]; v != "" {
		cfg.Postgres.User = v
	}
	if v := m["POSTGRES_PASSWORD"]; v != "" {
		cfg.Postgres.Password = v
	}
	if v := m["POSTGRES_DB"]; v != "" {
		cfg.Postgres.DBName = v
	}
	if v := m["POSTGRES_HOST"]; v != "" {
		cfg.Postgres.Host = v
	}
	if v := m["POSTGRES_PORT"]; v != "" {
		cfg.Postgres.Port = v
	}
	if v := m["JWT_SECRET"]; v != "" {
		cfg.JWTSecret = v
	}
}

func (c *Config) validate() error {
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" || c.Postgres.Host == "" {
		return fmt.Errorf("database config incomplete")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("LOCK_TIMEOUT must be positive")
	}
	if c.LowStockThreshold <= 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
