package repository

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"inventory-order-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryStore runs the operations that change stock or order state inside
// a single transaction. fn's error aborts the transaction; nothing is
// committed unless fn returns nil.
type InventoryStore interface {
	WithinTransaction(ctx context.Context, fn func(tx InventoryTx) error) error
}

// InventoryTx is the set of reads and writes available inside an inventory
// transaction. Lock methods take exclusive row locks that are held until the
// transaction ends. Stock and order rows may only be written after they have
// been locked in the same transaction.
type InventoryTx interface {
	// LockOrder locks and returns the order row without its items.
	LockOrder(orderID uuid.UUID) (*models.Order, error)
	// LockProducts locks every existing product in ids with one statement,
	// in ascending id order, and returns them in that order. Missing ids are
	// absent from the result.
	LockProducts(ids []uuid.UUID) ([]models.Product, error)
	SetProductStock(productID uuid.UUID, stock int) error
	RecordMovement(movement *models.StockMovement) error

	CreateOrder(order *models.Order) error
	UpdateOrderStatus(order *models.Order) error
	DeleteOrder(orderID uuid.UUID) error

	FindOrderItems(orderID uuid.UUID) ([]models.OrderItem, error)
	CreateOrderItem(item *models.OrderItem) error
	SetOrderItemQuantity(itemID uuid.UUID, quantity int) error
}

// SortIDs orders ids ascending by their byte representation, which is the
// order Postgres uses for the uuid type.
func SortIDs(ids []uuid.UUID) []uuid.UUID {
	sorted := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})
	return sorted
}

// GormInventoryStore implements InventoryStore on Postgres row locks.
type GormInventoryStore struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewGormInventoryStore returns a store whose transactions wait at most
// lockTimeout for a row lock. Zero leaves the server default in place.
func NewGormInventoryStore(db *gorm.DB, lockTimeout time.Duration) InventoryStore {
	return &GormInventoryStore{db: db, lockTimeout: lockTimeout}
}

func (s *GormInventoryStore) WithinTransaction(ctx context.Context, fn func(tx InventoryTx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.lockTimeout > 0 {
			// SET LOCAL does not accept bind parameters.
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(&gormInventoryTx{db: tx})
	})
	return translateError(err)
}

type gormInventoryTx struct {
	db *gorm.DB
}

func (t *gormInventoryTx) LockOrder(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		Take(&order).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

func (t *gormInventoryTx) LockProducts(ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", SortIDs(ids)).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, translateError(err)
	}
	return products, nil
}

func (t *gormInventoryTx) SetProductStock(productID uuid.UUID, stock int) error {
	res := t.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumns(map[string]interface{}{
			"current_stock": stock,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormInventoryTx) RecordMovement(movement *models.StockMovement) error {
	return translateError(t.db.Create(movement).Error)
}

func (t *gormInventoryTx) CreateOrder(order *models.Order) error {
	return translateError(t.db.Omit("OrderItems").Create(order).Error)
}

func (t *gormInventoryTx) UpdateOrderStatus(order *models.Order) error {
	res := t.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		UpdateColumns(map[string]interface{}{
			"status":       order.Status,
			"completed_at": order.CompletedAt,
			"cancelled_at": order.CancelledAt,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOrder removes the order; its items go with it through ON DELETE CASCADE.
func (t *gormInventoryTx) DeleteOrder(orderID uuid.UUID) error {
	res := t.db.Where("id = ?", orderID).Delete(&models.Order{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormInventoryTx) FindOrderItems(orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := t.db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&items).Error
	return items, translateError(err)
}

func (t *gormInventoryTx) CreateOrderItem(item *models.OrderItem) error {
	return translateError(t.db.Omit("Product").Create(item).Error)
}

func (t *gormInventoryTx) SetOrderItemQuantity(itemID uuid.UUID, quantity int) error {
	res := t.db.Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", quantity)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
