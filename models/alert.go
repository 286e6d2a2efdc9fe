package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelSNS   = "sns"

	AlertStatusSent   = "sent"
	AlertStatusFailed = "failed"
)

type LowStockAlert struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	SKU        string    `json:"sku" gorm:"type:varchar(50)"`
	Channel    string    `json:"channel" gorm:"type:varchar(10);not null"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	StockLevel int       `json:"stock_level"`
	Status     string    `json:"status" gorm:"type:varchar(10);not null;index"`
	Error      string    `json:"error,omitempty"`
	RetryCount int       `json:"retry_count"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type AlertFilter struct {
	ProductID *uuid.UUID
	Status    string
	Channel   string
	Page      int
	PageSize  int
}

// LowStockEvent is the payload published to the low-stock SNS topic.
type LowStockEvent struct {
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
	Timestamp time.Time `json:"timestamp"`
}
