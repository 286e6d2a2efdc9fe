package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-order-service/apperrors"
	"inventory-order-service/models"
	awspkg "inventory-order-service/pkg/aws"
	"inventory-order-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	CreateOrder(ctx context.Context, items []models.LineItemRequest) (*models.Order, error)
	AddOrderItem(ctx context.Context, orderID uuid.UUID, item models.LineItemRequest) (*models.OrderItem, error)
	AddOrderItems(ctx context.Context, orderID uuid.UUID, items []models.LineItemRequest) ([]models.OrderItem, error)
	CompleteOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) (*models.Page[models.Order], error)
	ListOrderItems(ctx context.Context, filter models.OrderItemFilter) (*models.Page[models.OrderItem], error)
}

type orderService struct {
	store     repository.InventoryStore
	orders    repository.OrderRepository
	ledger    *StockLedger
	assembler *OrderItemAssembler
	notifier  StockNotifier
	events    EventPublisher
	cache     ProductCache
	metrics   MetricsRecorder
	logger    *zap.Logger
}

type OrderServiceOption func(*orderService)

func WithEventPublisher(p EventPublisher) OrderServiceOption {
	return func(s *orderService) {
		if p != nil {
			s.events = p
		}
	}
}

func WithProductCache(c ProductCache) OrderServiceOption {
	return func(s *orderService) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithMetrics(m MetricsRecorder) OrderServiceOption {
	return func(s *orderService) {
		if m != nil {
			s.metrics = m
		}
	}
}

func NewOrderService(
	store repository.InventoryStore,
	orders repository.OrderRepository,
	notifier StockNotifier,
	logger *zap.Logger,
	opts ...OrderServiceOption,
) OrderService {
	ledger := NewStockLedger()
	s := &orderService{
		store:     store,
		orders:    orders,
		ledger:    ledger,
		assembler: NewOrderItemAssembler(ledger),
		notifier:  notifier,
		events:    noopPublisher{},
		cache:     noopCache{},
		metrics:   noopMetrics{},
		logger:    logger,
	}
	if s.notifier == nil {
		s.notifier = noopNotifier{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder creates a pending order and, when items are given, attaches
// them in the same transaction.
func (s *orderService) CreateOrder(ctx context.Context, items []models.LineItemRequest) (*models.Order, error) {
	order := &models.Order{Status: models.OrderStatusPending}
	var affected []models.Product

	err := s.store.WithinTransaction(ctx, func(tx repository.InventoryTx) error {
		if err := tx.CreateOrder(order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		lines, products, err := s.assembler.AddItems(tx, order, items)
		if err != nil {
			return err
		}
		order.OrderItems = lines
		affected = products
		return nil
	})
	if err != nil {
		s.logger.Warn("create order failed", zap.Int("items", len(items)), zap.Error(err))
		return nil, mapError(err, nil)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", len(order.OrderItems)),
	)
	s.afterStockDecrease(ctx, affected)
	s.publish(ctx, models.EventOrderCreated, order, order.OrderItems)
	s.count(ctx, awspkg.MetricOrdersCreated)
	return order, nil
}

func (s *orderService) AddOrderItem(ctx context.Context, orderID uuid.UUID, item models.LineItemRequest) (*models.OrderItem, error) {
	lines, err := s.AddOrderItems(ctx, orderID, []models.LineItemRequest{item})
	if err != nil {
		return nil, err
	}
	return &lines[0], nil
}

// AddOrderItems locks the order, then attaches items to it. The whole batch
// commits or nothing does.
func (s *orderService) AddOrderItems(ctx context.Context, orderID uuid.UUID, items []models.LineItemRequest) ([]models.OrderItem, error) {
	var (
		order    *models.Order
		lines    []models.OrderItem
		affected []models.Product
	)

	err := s.store.WithinTransaction(ctx, func(tx repository.InventoryTx) error {
		var err error
		order, err = s.lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		lines, affected, err = s.assembler.AddItems(tx, order, items)
		if err != nil {
			return err
		}
		order.OrderItems, err = tx.FindOrderItems(order.ID)
		if err != nil {
			return fmt.Errorf("reload order items: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("add order items failed",
			zap.String("order_id", orderID.String()),
			zap.Int("items", len(items)),
			zap.Error(err),
		)
		return nil, mapError(err, apperrors.OrderNotFound(orderID))
	}

	s.logger.Info("order items added",
		zap.String("order_id", orderID.String()),
		zap.Int("items", len(lines)),
	)
	s.afterStockDecrease(ctx, affected)
	s.publish(ctx, models.EventOrderItemsAdded, order, lines)
	return lines, nil
}

// CompleteOrder moves a pending order to completed. Stock is not touched.
func (s *orderService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order *models.Order

	err := s.store.WithinTransaction(ctx, func(tx repository.InventoryTx) error {
		var err error
		order, err = s.lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		switch order.Status {
		case models.OrderStatusCompleted:
			return apperrors.AlreadyCompleted(order.ID)
		case models.OrderStatusCancelled:
			return apperrors.InvalidTransition(order.ID, order.Status, models.OrderStatusCompleted)
		}

		now := time.Now().UTC()
		order.Status = models.OrderStatusCompleted
		order.CompletedAt = &now
		if err := tx.UpdateOrderStatus(order); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		order.OrderItems, err = tx.FindOrderItems(order.ID)
		return err
	})
	if err != nil {
		return nil, mapError(err, apperrors.OrderNotFound(orderID))
	}

	s.logger.Info("order completed", zap.String("order_id", orderID.String()))
	s.publish(ctx, models.EventOrderCompleted, order, order.OrderItems)
	s.count(ctx, awspkg.MetricOrdersCompleted)
	return order, nil
}

// CancelOrder moves a pending order to cancelled and gives every line's
// quantity back to its product, all in one transaction.
func (s *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var (
		order    *models.Order
		restored []models.Product
	)

	err := s.store.WithinTransaction(ctx, func(tx repository.InventoryTx) error {
		var err error
		order, err = s.lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		switch order.Status {
		case models.OrderStatusCancelled:
			return apperrors.AlreadyCancelled(order.ID)
		case models.OrderStatusCompleted:
			return apperrors.InvalidTransition(order.ID, order.Status, models.OrderStatusCancelled)
		}

		order.OrderItems, err = tx.FindOrderItems(order.ID)
		if err != nil {
			return fmt.Errorf("load order items: %w", err)
		}
		restored, err = s.restoreStock(tx, order, models.MovementReasonOrderCancelled)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		order.Status = models.OrderStatusCancelled
		order.CancelledAt = &now
		if err := tx.UpdateOrderStatus(order); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err, apperrors.OrderNotFound(orderID))
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", orderID.String()),
		zap.Int("restored_products", len(restored)),
	)
	s.invalidate(ctx, restored)
	s.publish(ctx, models.EventOrderCancelled, order, order.OrderItems)
	return order, nil
}

// DeleteOrder removes an order and its lines. A pending order's stock is
// restored first, in the same transaction.
func (s *orderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	var (
		order    *models.Order
		restored []models.Product
	)

	err := s.store.WithinTransaction(ctx, func(tx repository.InventoryTx) error {
		var err error
		order, err = s.lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		order.OrderItems, err = tx.FindOrderItems(order.ID)
		if err != nil {
			return fmt.Errorf("load order items: %w", err)
		}
		if order.IsPending() {
			restored, err = s.restoreStock(tx, order, models.MovementReasonOrderDeleted)
			if err != nil {
				return err
			}
		}
		if err := tx.DeleteOrder(order.ID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return nil
	})
	if err != nil {
		return mapError(err, apperrors.OrderNotFound(orderID))
	}

	s.logger.Info("order deleted",
		zap.String("order_id", orderID.String()),
		zap.String("status", order.Status),
	)
	s.invalidate(ctx, restored)
	s.publish(ctx, models.EventOrderDeleted, order, order.OrderItems)
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err, apperrors.OrderNotFound(orderID))
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter models.OrderFilter) (*models.Page[models.Order], error) {
	switch filter.Status {
	case "", models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return nil, apperrors.Validation(fmt.Sprintf("Unknown order status %q", filter.Status))
	}

	orders, total, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return models.NewPage(orders, filter.Page, filter.Limit, total), nil
}

func (s *orderService) ListOrderItems(ctx context.Context, filter models.OrderItemFilter) (*models.Page[models.OrderItem], error) {
	items, total, err := s.orders.FindItems(ctx, filter)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return models.NewPage(items, filter.Page, filter.Limit, total), nil
}

func (s *orderService) lockOrder(tx repository.InventoryTx, orderID uuid.UUID) (*models.Order, error) {
	order, err := tx.LockOrder(orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.OrderNotFound(orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock order %s: %w", orderID, err)
	}
	return order, nil
}

// restoreStock locks every product on the order in one read and adds each
// line's quantity back through the ledger.
func (s *orderService) restoreStock(tx repository.InventoryTx, order *models.Order, reason string) ([]models.Product, error) {
	if len(order.OrderItems) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		ids = append(ids, item.ProductID)
	}
	locked, err := tx.LockProducts(ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	products := make(map[uuid.UUID]*models.Product, len(locked))
	for i := range locked {
		products[locked[i].ID] = &locked[i]
	}

	for _, item := range order.OrderItems {
		p, ok := products[item.ProductID]
		if !ok {
			return nil, apperrors.ProductNotFound(item.ProductID)
		}
		if err := s.ledger.Adjust(tx, p, item.Quantity, reason, &order.ID); err != nil {
			return nil, err
		}
	}
	return locked, nil
}

// afterStockDecrease runs once the transaction has committed.
func (s *orderService) afterStockDecrease(ctx context.Context, products []models.Product) {
	s.invalidate(ctx, products)
	for _, p := range products {
		s.notifier.Notify(ctx, p)
	}
}

func (s *orderService) invalidate(ctx context.Context, products []models.Product) {
	if len(products) == 0 {
		return
	}
	for _, p := range products {
		s.cache.InvalidateProduct(ctx, p.ID)
	}
	s.cache.InvalidateLists(ctx)
}

func (s *orderService) publish(ctx context.Context, eventType string, order *models.Order, items []models.OrderItem) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.events.PublishOrderEvent(pubCtx, models.NewOrderEvent(eventType, order, items)); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("type", eventType),
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *orderService) count(ctx context.Context, metric string) {
	if err := s.metrics.RecordCount(ctx, metric, map[string]string{"Service": "inventory-order-service"}); err != nil {
		s.logger.Debug("failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}
