package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"inventory-order-service/apperrors"
	"inventory-order-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentOrders_NeverOversell(t *testing.T) {
	f := newFixture(t)
	a := f.product("A", 10, "5.00")

	var succeeded, rejected atomic.Int32
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := f.orders.CreateOrder(ctx, []models.LineItemRequest{line(a.ID, 3)})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, apperrors.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(3), succeeded.Load())
	assert.Equal(t, int32(7), rejected.Load())
	assert.Equal(t, 1, f.stock(a.ID))
}

func TestConcurrentBatches_OverlappingProductsDoNotDeadlock(t *testing.T) {
	f := newFixture(t)
	a := f.product("A", 100, "1.00")
	b := f.product("B", 100, "1.00")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 20; i++ {
		items := []models.LineItemRequest{line(a.ID, 1), line(b.ID, 1)}
		if i%2 == 1 {
			items = []models.LineItemRequest{line(b.ID, 1), line(a.ID, 1)}
		}
		g.Go(func() error {
			_, err := f.orders.CreateOrder(gctx, items)
			return err
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, 80, f.stock(a.ID))
	assert.Equal(t, 80, f.stock(b.ID))
}

func TestConcurrentAddAndCancel_OnSameOrderSerialize(t *testing.T) {
	f := newFixture(t)
	a := f.product("A", 10, "5.00")

	order, err := f.orders.CreateOrder(context.Background(), []models.LineItemRequest{line(a.ID, 2)})
	require.NoError(t, err)

	var g errgroup.Group
	g.Go(func() error {
		_, err := f.orders.AddOrderItem(context.Background(), order.ID, line(a.ID, 3))
		if err != nil && !errors.Is(err, apperrors.ErrOrderNotPending) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		_, err := f.orders.CancelOrder(context.Background(), order.ID)
		return err
	})
	require.NoError(t, g.Wait())

	// Whichever ran first, the cancel gave back everything the order held.
	assert.Equal(t, 10, f.stock(a.ID))
}
