package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inventory-order-service/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductCachePrefix     = "inventory:product:"
	ProductListCachePrefix = "inventory:products:v:"
	CacheVersionKey        = "inventory:products:version"

	DefaultCacheTTL = 5 * time.Minute
)

// ProductCache keeps product details and product list pages in Redis.
// List pages are keyed by a version counter, so bumping the counter
// invalidates every cached page at once.
type ProductCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProductCache returns a cache backed by client. A nil client yields a
// cache that always misses.
func NewProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductCache{redis: client, ttl: ttl, logger: logger}
}

func (pc *ProductCache) enabled() bool {
	return pc != nil && pc.redis != nil
}

func (pc *ProductCache) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, bool) {
	if !pc.enabled() {
		return nil, false
	}
	data, err := pc.redis.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			pc.logger.Warn("Failed to read product from cache", zap.Error(err), zap.String("product_id", id.String()))
		}
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		pc.logger.Warn("Failed to unmarshal cached product", zap.Error(err), zap.String("product_id", id.String()))
		return nil, false
	}
	return &product, true
}

func (pc *ProductCache) SetProduct(ctx context.Context, product *models.Product) {
	if !pc.enabled() || product == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		pc.logger.Warn("Failed to marshal product for cache", zap.Error(err), zap.String("product_id", product.ID.String()))
		return
	}
	if err := pc.redis.Set(ctx, productKey(product.ID), data, pc.ttl).Err(); err != nil {
		pc.logger.Warn("Failed to cache product", zap.Error(err), zap.String("product_id", product.ID.String()))
	}
}

func (pc *ProductCache) GetList(ctx context.Context, key string, dest interface{}) bool {
	if !pc.enabled() {
		return false
	}
	version, err := pc.version(ctx)
	if err != nil {
		return false
	}
	data, err := pc.redis.Get(ctx, listKey(version, key)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		pc.logger.Warn("Failed to unmarshal cached product list", zap.Error(err), zap.String("key", key))
		return false
	}
	return true
}

func (pc *ProductCache) SetList(ctx context.Context, key string, value interface{}) {
	if !pc.enabled() {
		return
	}
	version, err := pc.version(ctx)
	if err != nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		pc.logger.Warn("Failed to marshal product list for cache", zap.Error(err))
		return
	}
	if err := pc.redis.Set(ctx, listKey(version, key), data, pc.ttl).Err(); err != nil {
		pc.logger.Warn("Failed to cache product list", zap.Error(err), zap.String("key", key))
	}
}

func (pc *ProductCache) InvalidateProduct(ctx context.Context, id uuid.UUID) {
	if !pc.enabled() {
		return
	}
	if err := pc.redis.Del(ctx, productKey(id)).Err(); err != nil {
		pc.logger.Warn("Failed to delete product cache", zap.Error(err), zap.String("product_id", id.String()))
	}
}

// InvalidateLists bumps the list version. Old pages expire through their TTL.
func (pc *ProductCache) InvalidateLists(ctx context.Context) {
	if !pc.enabled() {
		return
	}
	newVersion, err := pc.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		pc.logger.Error("Failed to invalidate product list cache", zap.Error(err))
		return
	}
	pc.logger.Debug("Product list cache invalidated", zap.Int64("new_version", newVersion))
}

func (pc *ProductCache) version(ctx context.Context) (int64, error) {
	ver, err := pc.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil {
		return ver, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, err
	}
	// SetNX keeps a concurrent Incr from being overwritten.
	if err := pc.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
		return 0, err
	}
	return pc.redis.Get(ctx, CacheVersionKey).Int64()
}

func productKey(id uuid.UUID) string {
	return ProductCachePrefix + id.String()
}

func listKey(version int64, key string) string {
	return fmt.Sprintf("%s%d:%s", ProductListCachePrefix, version, key)
}
