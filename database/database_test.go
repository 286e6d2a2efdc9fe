package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db", Port: "5432", User: "inv", Password: "secret",
		DBName: "inventory", SSLMode: "disable", TimeZone: "UTC",
	}

	assert.Equal(t, "host=db user=inv password=secret dbname=inventory port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}

func TestConnectPostgres_RequiresCredentials(t *testing.T) {
	_, err := ConnectPostgres(PostgresConfig{Password: "x", DBName: "y"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")

	_, err = ConnectPostgres(PostgresConfig{User: "x", DBName: "y"}, zap.NewNop())
	assert.Contains(t, err.Error(), "POSTGRES_PASSWORD")

	_, err = ConnectPostgres(PostgresConfig{User: "x", Password: "y"}, zap.NewNop())
	assert.Contains(t, err.Error(), "POSTGRES_DB")
}

func TestModels_ParentsBeforeChildren(t *testing.T) {
	assert.Len(t, Models(), 7)
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url://")
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	assert.NoError(t, Close(nil))
}
