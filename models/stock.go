package models

import (
	"time"

	"github.com/google/uuid"
)

// Reasons recorded on every stock movement.
const (
	MovementReasonOrderItemAdded = "order_item_added"
	MovementReasonOrderCancelled = "order_cancelled"
	MovementReasonOrderDeleted   = "order_deleted"
	MovementReasonAdminOverride  = "admin_override"
)

// StockMovement is one row of the stock audit trail, written in the same
// transaction as the stock change it records.
type StockMovement struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	OrderID        *uuid.UUID `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Delta          int        `gorm:"not null" json:"delta"`
	ResultingStock int        `gorm:"not null" json:"resulting_stock"`
	Reason         string     `gorm:"type:varchar(32);not null" json:"reason"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}
