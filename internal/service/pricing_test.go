package service

import (
	"testing"

	"bizpilot-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostModels(t *testing.T) {
	coffee := testProduct("1", "Coffee", 1200, 1, "Coffee")
	honey := testProduct("5", "Honey", 1800, 1, "Honey")

	fixed := NewCostModel(DefaultCostRatio, nil)
	assert.IsType(t, FixedCostRatio{}, fixed)
	assert.True(t, dec("840").Equal(fixed.UnitCost(coffee)))

	byCategory := NewCostModel(DefaultCostRatio, map[string]decimal.Decimal{"Honey": dec("0.5")})
	assert.True(t, dec("840").Equal(byCategory.UnitCost(coffee)))
	assert.True(t, dec("900").Equal(byCategory.UnitCost(honey)))
	assert.True(t, decimal.Zero.Equal(byCategory.UnitCost(model.Product{Price: decimal.Zero, Category: "Honey"})))
}

func TestParseStockPolicy(t *testing.T) {
	for in, want := range map[string]StockPolicy{"": StockPolicyClamp, "clamp": StockPolicyClamp, "reject": StockPolicyReject} {
		got, err := ParseStockPolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStockPolicy("backorder")
	assert.Error(t, err)
}
