package cache

import (
	"context"
	"testing"
	"time"

	"inventory-order-service/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestKeys(t *testing.T) {
	id := uuid.MustParse("6f1c2a8e-0000-4000-8000-000000000001")

	assert.Equal(t, "inventory:product:6f1c2a8e-0000-4000-8000-000000000001", productKey(id))
	assert.Equal(t, "inventory:products:v:3:page=1", listKey(3, "page=1"))
}

func TestProductCache_NilClientAlwaysMisses(t *testing.T) {
	pc := NewProductCache(nil, 0, nil)
	ctx := context.Background()
	p := &models.Product{ID: uuid.New(), Name: "Mouse"}

	pc.SetProduct(ctx, p)
	got, ok := pc.GetProduct(ctx, p.ID)
	assert.False(t, ok)
	assert.Nil(t, got)

	var dest []models.Product
	pc.SetList(ctx, "k", []models.Product{*p})
	assert.False(t, pc.GetList(ctx, "k", &dest))

	pc.InvalidateProduct(ctx, p.ID)
	pc.InvalidateLists(ctx)
	assert.Equal(t, DefaultCacheTTL, pc.ttl)
}

func TestProductCache_UnreachableRedisDegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	pc := NewProductCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	id := uuid.New()

	pc.SetProduct(ctx, &models.Product{ID: id})
	_, ok := pc.GetProduct(ctx, id)
	assert.False(t, ok)

	var dest map[string]interface{}
	assert.False(t, pc.GetList(ctx, "k", &dest))
	pc.InvalidateLists(ctx)
}
