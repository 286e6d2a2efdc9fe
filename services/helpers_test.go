package services_test

import (
	"context"
	"sync"
	"testing"

	"inventory-order-service/models"
	"inventory-order-service/repository"
	"inventory-order-service/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ---- recording collaborators ----

type recordingNotifier struct {
	mu       sync.Mutex
	products []models.Product
}

func (n *recordingNotifier) Notify(_ context.Context, p models.Product) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.products = append(n.products, p)
}

func (n *recordingNotifier) calls() []models.Product {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Product(nil), n.products...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, evt models.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store     *repository.MemoryInventoryStore
	notifier  *recordingNotifier
	publisher *recordingPublisher
	orders    services.OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     repository.NewMemoryInventoryStore(),
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
	f.orders = services.NewOrderService(f.store, nil, f.notifier, zap.NewNop(),
		services.WithEventPublisher(f.publisher))
	return f
}

func (f *fixture) product(name string, stock int, price string) models.Product {
	p := models.Product{
		ID:           uuid.New(),
		Name:         name,
		SKU:          name + "-" + uuid.NewString()[:6],
		Price:        decimal.RequireFromString(price),
		CurrentStock: stock,
		CategoryID:   uuid.New(),
	}
	f.store.PutProduct(p)
	return p
}

func (f *fixture) stock(id uuid.UUID) int {
	p, _ := f.store.Product(id)
	return p.CurrentStock
}

func line(id uuid.UUID, qty int) models.LineItemRequest {
	return models.LineItemRequest{ProductID: id, Quantity: qty}
}
