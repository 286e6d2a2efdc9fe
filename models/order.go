package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Status      string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	CancelledAt *time.Time  `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time   `gorm:"autoCreateTime;<-:create;index" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
	OrderItems  []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a line of an order. PriceAtPurchase is captured once when the
// line is created and is never rewritten.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_items_order_product,priority:1" json:"order_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_items_order_product,priority:2;index" json:"product_id"`
	Product         *Product        `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Quantity        int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null;<-:create" json:"price_at_purchase"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// Total is the sum of quantity times price_at_purchase over all lines.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.OrderItems {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	items := o.OrderItems
	if items == nil {
		items = []OrderItem{}
	}
	out := struct {
		alias
		OrderItems []OrderItem     `json:"items"`
		Total      decimal.Decimal `json:"total"`
	}{
		alias:      alias(o),
		OrderItems: items,
		Total:      o.Total(),
	}
	return json.Marshal(out)
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type alias OrderItem
	out := struct {
		alias
		ProductName string `json:"product_name,omitempty"`
	}{alias: alias(i)}
	if i.Product != nil {
		out.ProductName = i.Product.Name
	}
	return json.Marshal(out)
}
