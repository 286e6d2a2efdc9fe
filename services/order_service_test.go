package services_test

import (
	"context"
	"testing"

	"inventory-order-service/apperrors"
	"inventory-order-service/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrderItem_DeductsStockAndSnapshotsPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 10, "5.00")

	order, err := f.orders.CreateOrder(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	item, err := f.orders.AddOrderItem(ctx, order.ID, line(a.ID, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, decimal.RequireFromString("5.00").Equal(item.PriceAtPurchase))
	assert.Equal(t, 7, f.stock(a.ID))

	movements := f.store.Movements(a.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, -3, movements[0].Delta)
	assert.Equal(t, 7, movements[0].ResultingStock)
	assert.Equal(t, models.MovementReasonOrderItemAdded, movements[0].Reason)
	assert.Equal(t, []string{models.EventOrderCreated, models.EventOrderItemsAdded}, f.publisher.types())
}

func TestAddOrderItem_InsufficientStockLeavesStockAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 10, "5.00")

	order, err := f.orders.CreateOrder(ctx, []models.LineItemRequest{line(a.ID, 3)})
	require.NoError(t, err)

	_, err = f.orders.AddOrderItem(ctx, order.ID, line(a.ID, 20))

	require.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	appErr := apperrors.From(err)
	assert.Equal(t, 7, appErr.Details["available"])
	assert.Equal(t, 20, appErr.Details["requested"])
	assert.Equal(t, 7, f.stock(a.ID))

	stored, _ := f.store.Order(order.ID)
	require.Len(t, stored.OrderItems, 1)
	assert.Equal(t, 3, stored.OrderItems[0].Quantity)
}

func TestCancelOrder_RestoresStockOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 10, "5.00")

	order, err := f.orders.CreateOrder(ctx, []models.LineItemRequest{line(a.ID, 3)})
	require.NoError(t, err)
	require.Equal(t, 7, f.stock(a.ID))

	cancelled, err := f.orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 10, f.stock(a.ID))

	_, err = f.orders.CancelOrder(ctx, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCancelled)
	assert.Equal(t, 10, f.stock(a.ID))

	movements := f.store.Movements(a.ID)
	require.Len(t, movements, 2)
	assert.Equal(t, 3, movements[1].Delta)
	assert.Equal(t, models.MovementReasonOrderCancelled, movements[1].Reason)
}

func TestCancelOrder_EmptyOrderFlips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.orders.CreateOrder(ctx, nil)
	require.NoError(t, err)

	cancelled, err := f.orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}

func TestAddOrderItems_DuplicateProductInBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 10, "5.00")

	order, err := f.orders.CreateOrder(ctx, nil)
	require.NoError(t, err)

	_, err = f.orders.AddOrderItems(ctx, order.ID, []models.LineItemRequest{line(a.ID, 1), line(a.ID, 2)})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateLineItem)
	assert.Equal(t, 10, f.stock(a.ID))
	stored, _ := f.store.Order(order.ID)
	assert.Empty(t, stored.OrderItems)
}

func TestAddOrderItems_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 10, "5.00")
	b := f.product("B", 3, "2.50")

	order, err := f.orders.CreateOrder(ctx, nil)
	require.NoError(t, err)

	_, err = f.orders.AddOrderItems(ctx, order.ID, []models.LineItemRequest{line(a.ID, 2), line(b.ID, 50)})

	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(a.ID))
	assert.Equal(t, 3, f.stock(b.ID))
	assert.Empty(t, f.store.Movements(a.ID))
	stored, _ := f.store.Order(order.ID)
	assert.Empty(t, stored.OrderItems)
}

func TestAddOrderItems_ValidationErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 10, "5.00")

	order, err := f.orders.CreateOrder(ctx, nil)
	require.NoError(t, err)

	_, err = f.orders.AddOrderItems(ctx, order.ID, []models.LineItemRequest{line(a.ID, 0)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)

	_, err = f.orders.AddOrderItems(ctx, order.ID, []models.LineItemRequest{line(a.ID, -2)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)

	_, err = f.orders.AddOrderItems(ctx, order.ID, []models.LineItemRequest{line(uuid.New(), 1)})
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)

	_, err = f.orders.AddOrderItems(ctx, order.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.orders.AddOrderItems(ctx, uuid.New(), []models.LineItemRequest{line(a.ID, 1)})
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)

	assert.Equal(t, 10, f.stock(a.ID))
}

func TestCreateOrder_FailedItemsCreateNoOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 1, "5.00")

	_, err := f.orders.CreateOrder(ctx, []models.LineItemRequest{line(a.ID, 2)})

	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Equal(t, 1, f.stock(a.ID))
	assert.Empty(t, f.publisher.types())
}

func TestAddOrderItem_CombinesExistingLineAndKeepsPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 10, "5.00")

	order, err := f.orders.CreateOrder(ctx, []models.LineItemRequest{line(a.ID, 3)})
	require.NoError(t, err)

	repriced, _ := f.store.Product(a.ID)
	repriced.Price = decimal.RequireFromString("9.99")
	f.store.PutProduct(repriced)

	item, err := f.orders.AddOrderItem(ctx, order.ID, line(a.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)
	assert.True(t, decimal.RequireFromString("5.00").Equal(item.PriceAtPurchase))

	stored, _ := f.store.Order(order.ID)
	require.Len(t, stored.OrderItems, 1)
	assert.Equal(t, 4, stored.OrderItems[0].Quantity)
	assert.Equal(t, "20", stored.Total().String())
	assert.Equal(t, 6, f.stock(a.ID))
}

func TestOrderTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 10, "5.00")

	completed, err := f.orders.CreateOrder(ctx, []models.LineItemRequest{line(a.ID, 2)})
	require.NoError(t, err)

	done, err := f.orders.CompleteOrder(ctx, completed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, 8, f.stock(a.ID))

	_, err = f.orders.CompleteOrder(ctx, completed.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCompleted)

	_, err = f.orders.CancelOrder(ctx, completed.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.orders.AddOrderItem(ctx, completed.ID, line(a.ID, 1))
	assert.ErrorIs(t, err, apperrors.ErrOrderNotPending)
	assert.Equal(t, "Cannot add items to completed orders", apperrors.From(err).Message)

	cancelled, err := f.orders.CreateOrder(ctx, nil)
	require.NoError(t, err)
	_, err = f.orders.CancelOrder(ctx, cancelled.ID)
	require.NoError(t, err)

	_, err = f.orders.CompleteOrder(ctx, cancelled.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.orders.CompleteOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
	assert.Equal(t, 8, f.stock(a.ID))
}

func TestDeleteOrder_RestoresPendingStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 10, "5.00")

	pending, err := f.orders.CreateOrder(ctx, []models.LineItemRequest{line(a.ID, 4)})
	require.NoError(t, err)
	completed, err := f.orders.CreateOrder(ctx, []models.LineItemRequest{line(a.ID, 1)})
	require.NoError(t, err)
	_, err = f.orders.CompleteOrder(ctx, completed.ID)
	require.NoError(t, err)
	require.Equal(t, 5, f.stock(a.ID))

	require.NoError(t, f.orders.DeleteOrder(ctx, pending.ID))
	assert.Equal(t, 9, f.stock(a.ID))
	_, ok := f.store.Order(pending.ID)
	assert.False(t, ok)

	require.NoError(t, f.orders.DeleteOrder(ctx, completed.ID))
	assert.Equal(t, 9, f.stock(a.ID))

	assert.ErrorIs(t, f.orders.DeleteOrder(ctx, pending.ID), apperrors.ErrOrderNotFound)
}

func TestLowStockNotifiedOnlyOnDecrease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product("A", 6, "5.00")
	b := f.product("B", 50, "1.00")

	order, err := f.orders.CreateOrder(ctx, []models.LineItemRequest{line(a.ID, 2), line(b.ID, 1)})
	require.NoError(t, err)

	calls := f.notifier.calls()
	require.Len(t, calls, 2)
	for _, p := range calls {
		if p.ID == a.ID {
			assert.Equal(t, 4, p.CurrentStock)
		}
	}

	_, err = f.orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, f.notifier.calls(), 2)
}

func TestCancelledContextIsTransient(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orders.CreateOrder(ctx, nil)

	assert.ErrorIs(t, err, apperrors.ErrTransient)
	assert.Equal(t, 503, apperrors.From(err).Code)
}
