package services

import (
	"context"

	"inventory-order-service/models"

	"github.com/google/uuid"
)

// StockNotifier is told about every product whose stock was lowered by a
// committed transaction.
type StockNotifier interface {
	Notify(ctx context.Context, product models.Product)
}

// EventPublisher publishes order lifecycle events after commit.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// MetricsRecorder is the subset of the CloudWatch metrics client the
// services use.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordValue(ctx context.Context, metricName string, value float64, dimensions map[string]string) error
}

// ProductCache is the read-through cache in front of product reads.
type ProductCache interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, bool)
	SetProduct(ctx context.Context, product *models.Product)
	GetList(ctx context.Context, key string, dest interface{}) bool
	SetList(ctx context.Context, key string, value interface{})
	InvalidateProduct(ctx context.Context, id uuid.UUID)
	InvalidateLists(ctx context.Context)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, models.Product) {}

type noopPublisher struct{}

func (noopPublisher) PublishOrderEvent(context.Context, models.OrderEvent) error { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordCount(context.Context, string, map[string]string) error { return nil }

func (noopMetrics) RecordValue(context.Context, string, float64, map[string]string) error {
	return nil
}

type noopCache struct{}

func (noopCache) GetProduct(context.Context, uuid.UUID) (*models.Product, bool) { return nil, false }
func (noopCache) SetProduct(context.Context, *models.Product)                   {}
func (noopCache) GetList(context.Context, string, interface{}) bool             { return false }
func (noopCache) SetList(context.Context, string, interface{})                  {}
func (noopCache) InvalidateProduct(context.Context, uuid.UUID)                  {}
func (noopCache) InvalidateLists(context.Context)                               {}
