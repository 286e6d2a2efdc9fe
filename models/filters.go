package models

import "github.com/google/uuid"

type ProductFilter struct {
	CategoryID    *uuid.UUID
	SupplierID    *uuid.UUID
	Search        string
	StockLessThan *int
	Ordering      string
	Page          int
	Limit         int
}

type OrderFilter struct {
	Status   string
	Ordering string
	Page     int
	Limit    int
}

type OrderItemFilter struct {
	OrderID   *uuid.UUID
	ProductID *uuid.UUID
	Page      int
	Limit     int
}

// CatalogFilter is shared by the category and supplier listings.
type CatalogFilter struct {
	Search   string
	Ordering string
	Page     int
	Limit    int
}

type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// Page is a page of results together with its pagination metadata.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta MetaData `json:"meta"`
}

func NewPage[T any](data []T, page, limit int, total int64) *Page[T] {
	if data == nil {
		data = []T{}
	}
	var totalPages int64
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return &Page[T]{
		Data: data,
		Meta: MetaData{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    total > int64(page*limit),
		},
	}
}
