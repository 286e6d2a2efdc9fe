package services

import (
	"errors"
	"fmt"

	"inventory-order-service/apperrors"
	"inventory-order-service/models"
	"inventory-order-service/repository"

	"github.com/google/uuid"
)

// OrderItemAssembler attaches a batch of line items to a pending order.
type OrderItemAssembler struct {
	ledger *StockLedger
}

func NewOrderItemAssembler(ledger *StockLedger) *OrderItemAssembler {
	return &OrderItemAssembler{ledger: ledger}
}

// AddItems runs inside tx with order already locked by the caller. Every item
// is validated against one locking read of all its products before any stock
// is touched, so a failing batch changes nothing. It returns the resulting
// lines in input order and the post-mutation snapshot of every affected
// product in id order.
//
// A product that already has a line on the order is folded into that line;
// the line keeps its original price_at_purchase.
func (a *OrderItemAssembler) AddItems(tx repository.InventoryTx, order *models.Order, items []models.LineItemRequest) ([]models.OrderItem, []models.Product, error) {
	if !order.IsPending() {
		return nil, nil, apperrors.OrderNotPending(order.ID, order.Status)
	}
	if len(items) == 0 {
		return nil, nil, apperrors.Validation("At least one item is required")
	}

	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, nil, apperrors.InvalidQuantity(item.ProductID, item.Quantity)
		}
		if _, dup := seen[item.ProductID]; dup {
			return nil, nil, apperrors.DuplicateLineItem(item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	locked, err := tx.LockProducts(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("lock products: %w", err)
	}
	products := make(map[uuid.UUID]*models.Product, len(locked))
	for i := range locked {
		products[locked[i].ID] = &locked[i]
	}

	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			return nil, nil, apperrors.ProductNotFound(item.ProductID)
		}
		if p.CurrentStock < item.Quantity {
			return nil, nil, apperrors.InsufficientStock(p.ID, p.CurrentStock, item.Quantity)
		}
	}

	existing, err := tx.FindOrderItems(order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load order items: %w", err)
	}
	lines := make(map[uuid.UUID]models.OrderItem, len(existing))
	for _, line := range existing {
		lines[line.ProductID] = line
	}

	result := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		p := products[item.ProductID]
		if err := a.ledger.Adjust(tx, p, -item.Quantity, models.MovementReasonOrderItemAdded, &order.ID); err != nil {
			return nil, nil, err
		}

		line, found := lines[item.ProductID]
		if found {
			line.Quantity += item.Quantity
			if err := tx.SetOrderItemQuantity(line.ID, line.Quantity); err != nil {
				return nil, nil, fmt.Errorf("update order item %s: %w", line.ID, err)
			}
		} else {
			line = models.OrderItem{
				OrderID:         order.ID,
				ProductID:       p.ID,
				Quantity:        item.Quantity,
				PriceAtPurchase: p.Price,
			}
			if err := tx.CreateOrderItem(&line); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return nil, nil, apperrors.DuplicateLineItem(p.ID)
				}
				return nil, nil, fmt.Errorf("create order item: %w", err)
			}
		}
		snapshot := *p
		line.Product = &snapshot
		result = append(result, line)
	}

	affected := make([]models.Product, 0, len(locked))
	for _, id := range repository.SortIDs(ids) {
		if p, ok := products[id]; ok {
			affected = append(affected, *p)
		}
	}
	return result, affected, nil
}
