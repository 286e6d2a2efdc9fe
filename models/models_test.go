package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductStockStatus(t *testing.T) {
	cases := []struct {
		stock int
		want  string
	}{
		{0, StockStatusLow},
		{4, StockStatusLow},
		{5, StockStatusMedium},
		{19, StockStatusMedium},
		{20, StockStatusGood},
		{500, StockStatusGood},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Product{CurrentStock: tc.stock}.StockStatus(), "stock=%d", tc.stock)
	}
}

func TestOrderTotal(t *testing.T) {
	order := &Order{
		OrderItems: []OrderItem{
			{Quantity: 3, PriceAtPurchase: decimal.RequireFromString("5.00")},
			{Quantity: 2, PriceAtPurchase: decimal.RequireFromString("1.25")},
		},
	}

	assert.True(t, order.Total().Equal(decimal.RequireFromString("17.50")))
	assert.True(t, (&Order{}).Total().IsZero())
}

func TestProductJSON_IncludesNamesAndStatus(t *testing.T) {
	p := Product{
		ID:           uuid.New(),
		Name:         "Mouse",
		SKU:          "MOU-1",
		Price:        decimal.RequireFromString("19.99"),
		CurrentStock: 3,
		Category:     &Category{Name: "Electronics"},
	}

	b, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "Electronics", out["category_name"])
	assert.Equal(t, StockStatusLow, out["stock_status"])
	assert.Equal(t, "MOU-1", out["sku"])
	_, hasSupplier := out["supplier_name"]
	assert.False(t, hasSupplier)
}

func TestOrderJSON_IncludesTotalAndEmptyItems(t *testing.T) {
	b, err := json.Marshal(Order{ID: uuid.New(), Status: OrderStatusPending})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "0", out["total"])
	assert.Equal(t, []interface{}{}, out["items"])
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, 1, 2, 5)

	assert.Equal(t, int64(3), page.Meta.TotalPages)
	assert.True(t, page.Meta.HasMore)

	empty := NewPage[int](nil, 1, 10, 0)
	assert.NotNil(t, empty.Data)
	assert.False(t, empty.Meta.HasMore)
}
