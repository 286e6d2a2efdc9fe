package services

import (
	"fmt"

	"inventory-order-service/apperrors"
	"inventory-order-service/models"
	"inventory-order-service/repository"

	"github.com/google/uuid"
)

// StockLedger is the only code path that changes Product.CurrentStock. Every
// call runs inside a transaction that already holds the product's row lock;
// the locked product passed in is that lock's witness and is updated in place.
type StockLedger struct{}

func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// Adjust applies delta to the product's stock and records the movement. A
// result below zero is refused with InsufficientStock before anything is
// written.
func (l *StockLedger) Adjust(tx repository.InventoryTx, product *models.Product, delta int, reason string, orderID *uuid.UUID) error {
	if delta == 0 {
		return nil
	}
	next := product.CurrentStock + delta
	if next < 0 {
		return apperrors.InsufficientStock(product.ID, product.CurrentStock, -delta)
	}

	if err := tx.SetProductStock(product.ID, next); err != nil {
		return fmt.Errorf("set stock of product %s: %w", product.ID, err)
	}
	movement := &models.StockMovement{
		ProductID:      product.ID,
		OrderID:        orderID,
		Delta:          delta,
		ResultingStock: next,
		Reason:         reason,
	}
	if err := tx.RecordMovement(movement); err != nil {
		return fmt.Errorf("record stock movement of product %s: %w", product.ID, err)
	}

	product.CurrentStock = next
	return nil
}

// Set overwrites the product's stock with newStock, recorded as an adjustment
// of the difference.
func (l *StockLedger) Set(tx repository.InventoryTx, product *models.Product, newStock int, reason string) error {
	if newStock < 0 {
		return apperrors.Validation("current_stock must be a non-negative integer")
	}
	return l.Adjust(tx, product, newStock-product.CurrentStock, reason, nil)
}
