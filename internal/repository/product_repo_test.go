package repository

import (
	"errors"
	"slices"
	"testing"

	"bizpilot-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T) *ProductCatalog {
	t.Helper()
	c := NewProductCatalog()
	for _, p := range []model.Product{
		{ID: "1", Name: "Premium Kenyan Coffee", Price: decimal.NewFromInt(1200), Stock: 45, Category: "Coffee", LowStockThreshold: 10},
		{ID: "2", Name: "Mwea Pishori Rice (5kg)", Price: decimal.NewFromInt(850), Stock: 3, Category: "Grains", LowStockThreshold: 5},
		{ID: "3", Name: "Organic Avocados (Box)", Price: decimal.NewFromInt(2500), Stock: 12, Category: "Produce", LowStockThreshold: 5},
		{ID: "4", Name: "Assorted Tea Masala", Price: decimal.NewFromInt(450), Stock: 0, Category: "Spices", LowStockThreshold: 5},
	} {
		require.NoError(t, c.Add(p))
	}
	return c
}

func ids(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestProductCatalog_AddPutsNewestFirst(t *testing.T) {
	c := seedCatalog(t)

	all := slices.Collect(c.List(model.ProductFilter{}))
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(all))
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, int64(4), all[0].Seq)
	assert.Equal(t, int64(5), c.NextSeq())
}

func TestProductCatalog_AddRejectsDuplicateID(t *testing.T) {
	c := seedCatalog(t)

	err := c.Add(model.Product{ID: "1", Name: "Dup"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAlreadyExists))
	assert.Equal(t, 4, c.Len())
}

func TestProductCatalog_AddKeepsRestoredSeq(t *testing.T) {
	c := NewProductCatalog()
	require.NoError(t, c.Add(model.Product{ID: "a", Seq: 7}))

	assert.Equal(t, int64(8), c.NextSeq())
}

func TestProductCatalog_AdjustStock(t *testing.T) {
	tests := []struct {
		name     string
		delta    int
		expected int
	}{
		{"decrement", -5, 40},
		{"increment", 5, 50},
		{"decrement to zero", -45, 0},
		{"oversized decrement clamps at zero", -100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := seedCatalog(t)
			stock, err := c.AdjustStock("1", tt.delta)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stock)

			p, err := c.Find("1")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Stock)
		})
	}
}

func TestProductCatalog_AdjustStockUnknownProduct(t *testing.T) {
	c := seedCatalog(t)

	_, err := c.AdjustStock("missing", -1)
	assert.True(t, errors.Is(err, model.ErrProductNotFound))
}

func TestProductCatalog_FindReturnsCopy(t *testing.T) {
	c := seedCatalog(t)

	p, err := c.Find("2")
	require.NoError(t, err)
	p.Stock = 999

	again, err := c.Find("2")
	require.NoError(t, err)
	assert.Equal(t, 3, again.Stock)

	_, err = c.Find("nope")
	assert.True(t, errors.Is(err, model.ErrProductNotFound))
}

func TestProductCatalog_List(t *testing.T) {
	c := seedCatalog(t)

	tests := []struct {
		name     string
		filter   model.ProductFilter
		expected []string
	}{
		{"all", model.ProductFilter{Category: model.CategoryAll}, []string{"4", "3", "2", "1"}},
		{"empty category means all", model.ProductFilter{}, []string{"4", "3", "2", "1"}},
		{"low stock pseudo-category", model.ProductFilter{Category: model.CategoryLowStock}, []string{"4", "2"}},
		{"exact category", model.ProductFilter{Category: "Coffee"}, []string{"1"}},
		{"unknown category", model.ProductFilter{Category: "Honey"}, []string{}},
		{"case-insensitive name search", model.ProductFilter{Query: "RICE"}, []string{"2"}},
		{"category and search intersect", model.ProductFilter{Category: "Produce", Query: "coffee"}, []string{}},
		{"search with surrounding spaces", model.ProductFilter{Query: "  avocado "}, []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(slices.Collect(c.List(tt.filter))))
		})
	}
}

func TestProductCatalog_ListIsRestartable(t *testing.T) {
	c := seedCatalog(t)
	seq := c.List(model.ProductFilter{Category: model.CategoryLowStock})

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	// early termination does not disturb later iterations
	for range seq {
		break
	}
	assert.Len(t, slices.Collect(seq), 2)
}
