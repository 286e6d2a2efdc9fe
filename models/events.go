package models

import "time"

// Order lifecycle event types published after commit.
const (
	EventOrderCreated    = "order.created"
	EventOrderItemsAdded = "order.items_added"
	EventOrderCompleted  = "order.completed"
	EventOrderCancelled  = "order.cancelled"
	EventOrderDeleted    = "order.deleted"
	EventLowStock        = "inventory.low_stock"
)

type OrderEvent struct {
	Type      string           `json:"type"`
	OrderID   string           `json:"order_id"`
	Status    string           `json:"status"`
	Items     []OrderEventItem `json:"items,omitempty"`
	Total     string           `json:"total"`
	Timestamp time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	ProductID       string `json:"product_id"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase string `json:"price_at_purchase"`
}

// NewOrderEvent builds an event snapshot of order and the given lines.
func NewOrderEvent(eventType string, order *Order, items []OrderItem) OrderEvent {
	evtItems := make([]OrderEventItem, 0, len(items))
	for _, it := range items {
		evtItems = append(evtItems, OrderEventItem{
			ProductID:       it.ProductID.String(),
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase.StringFixed(2),
		})
	}
	return OrderEvent{
		Type:      eventType,
		OrderID:   order.ID.String(),
		Status:    order.Status,
		Items:     evtItems,
		Total:     order.Total().StringFixed(2),
		Timestamp: time.Now().UTC(),
	}
}
