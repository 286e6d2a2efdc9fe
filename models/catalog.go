package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock status buckets shown next to every product.
const (
	StockStatusLow    = "Low"
	StockStatusMedium = "Medium"
	StockStatusGood   = "Good"

	lowStockBoundary    = 5
	mediumStockBoundary = 20
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Phone     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`
	Email     string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Product is a catalog item. CurrentStock is written only by the stock ledger.
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(100);not null;index" json:"name"`
	SKU          string          `gorm:"column:sku;type:varchar(50);uniqueIndex;not null" json:"sku"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CurrentStock int             `gorm:"not null;default:0;check:chk_products_current_stock,current_stock >= 0" json:"current_stock"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	Category     *Category       `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier     *Supplier       `gorm:"constraint:OnDelete:SET NULL" json:"supplier,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// StockStatus buckets the current stock into Low, Medium or Good.
func (p Product) StockStatus() string {
	switch {
	case p.CurrentStock < lowStockBoundary:
		return StockStatusLow
	case p.CurrentStock < mediumStockBoundary:
		return StockStatusMedium
	default:
		return StockStatusGood
	}
}

func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	out := struct {
		alias
		CategoryName string `json:"category_name,omitempty"`
		SupplierName string `json:"supplier_name,omitempty"`
		StockStatus  string `json:"stock_status"`
	}{
		alias:       alias(p),
		StockStatus: p.StockStatus(),
	}
	if p.Category != nil {
		out.CategoryName = p.Category.Name
	}
	if p.Supplier != nil {
		out.SupplierName = p.Supplier.Name
	}
	return json.Marshal(out)
}
