package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	values map[string]string
	err    error
	asked  string
}

func (f *fakeSecrets) GetSecretMap(_ context.Context, name string) (map[string]string, error) {
	f.asked = name
	return f.values, f.err
}

func setDBEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "inv")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "inventory")
	t.Setenv("POSTGRES_HOST", "db")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setDBEnv(t)
	t.Setenv("AWS_USE_SECRETS", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, "order.events", cfg.OrderEventsTopic)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.False(t, cfg.CloudWatchEnabled)
	assert.Equal(t, "db", cfg.Postgres.Host)
}

func TestLoadConfig_ParsesLists(t *testing.T) {
	setDBEnv(t)
	t.Setenv("ALERT_EMAIL_RECIPIENTS", "ops@shop.local, buyer@shop.local,")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LOCK_TIMEOUT", "1500ms")
	t.Setenv("LOW_STOCK_THRESHOLD", "8")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, []string{"ops@shop.local", "buyer@shop.local"}, cfg.AlertEmailRecipients)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 1500*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, 8, cfg.LowStockThreshold)
	assert.Empty(t, cfg.AlertSMSRecipients)
}

func TestLoadConfig_Incomplete(t *testing.T) {
	setDBEnv(t)
	t.Setenv("POSTGRES_PASSWORD", "")

	_, err := LoadConfig()
	assert.EqualError(t, err, "database config incomplete")

	setDBEnv(t)
	t.Setenv("LOW_STOCK_THRESHOLD", "0")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{}
	sm := &fakeSecrets{values: map[string]string{
		"POSTGRES_USER": "aws-user", "POSTGRES_PASSWORD": "aws-pass", "JWT_SECRET": "aws-jwt",
	}}

	applySecrets(context.Background(), cfg, sm)

	assert.Equal(t, dbSecretName, sm.asked)
	assert.Equal(t, "aws-user", cfg.Postgres.User)
	assert.Equal(t, "aws-pass", cfg.Postgres.Password)
	assert.Equal(t, "aws-jwt", cfg.JWTSecret)
}

func TestApplySecrets_ErrorKeepsEnv(t *testing.T) {
	cfg := &Config{JWTSecret: "env-jwt"}

	applySecrets(context.Background(), cfg, &fakeSecrets{err: errors.New("denied")})

	assert.Equal(t, "env-jwt", cfg.JWTSecret)
}
