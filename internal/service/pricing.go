package service

import (
	"fmt"

	"bizpilot-ledger/internal/model"

	"github.com/shopspring/decimal"
)

// CostModel decides what one unit of a product cost the shop
type CostModel interface {
	UnitCost(p model.Product) decimal.Decimal
}

// FixedCostRatio treats the same fraction of every unit price as cost
type FixedCostRatio struct {
	Ratio decimal.Decimal
}

// DefaultCostRatio gives every sale a 30% margin
var DefaultCostRatio = decimal.RequireFromString("0.7")

func (f FixedCostRatio) UnitCost(p model.Product) decimal.Decimal {
	return p.Price.Mul(f.Ratio)
}

// CategoryCostRatio overrides the ratio per category, falling back to Default
type CategoryCostRatio struct {
	Default    decimal.Decimal
	ByCategory map[string]decimal.Decimal
}

func (c CategoryCostRatio) UnitCost(p model.Product) decimal.Decimal {
	ratio, ok := c.ByCategory[p.Category]
	if !ok {
		ratio = c.Default
	}
	return p.Price.Mul(ratio)
}

// NewCostModel picks the simplest model for the configured ratios
func NewCostModel(defaultRatio decimal.Decimal, byCategory map[string]decimal.Decimal) CostModel {
	if len(byCategory) == 0 {
		return FixedCostRatio{Ratio: defaultRatio}
	}
	return CategoryCostRatio{Default: defaultRatio, ByCategory: byCategory}
}

// StockPolicy decides what happens when a sale asks for more than is on hand
type StockPolicy string

const (
	// StockPolicyClamp records the full sale and floors stock at zero
	StockPolicyClamp StockPolicy = "clamp"
	// StockPolicyReject refuses the sale with ErrInsufficientStock
	StockPolicyReject StockPolicy = "reject"
)

func ParseStockPolicy(s string) (StockPolicy, error) {
	switch StockPolicy(s) {
	case "", StockPolicyClamp:
		return StockPolicyClamp, nil
	case StockPolicyReject:
		return StockPolicyReject, nil
	}
	return "", fmt.Errorf("unknown stock policy %q", s)
}
