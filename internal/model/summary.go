package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary is the dashboard headline: totals plus growth against a baseline (percent)
type DailySummary struct {
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	SalesGrowth  decimal.Decimal `json:"sales_growth"`
	ProfitGrowth decimal.Decimal `json:"profit_growth"`
	SaleCount    int             `json:"sale_count"`
}

// Totals is a revenue/profit pair, used for baselines
type Totals struct {
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
}

type TopSeller struct {
	Rank      int             `json:"rank"`
	Product   Product         `json:"product"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
}

// SalesTrendPoint is one day of the sales chart
type SalesTrendPoint struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

type InventoryStats struct {
	TotalProducts   int             `json:"total_products"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	TotalValuation  decimal.Decimal `json:"total_valuation"`
}

// Period is a half-open time window [From, To)
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

// Previous returns the window of equal length ending where p starts
func (p Period) Previous() Period {
	d := p.To.Sub(p.From)
	return Period{From: p.From.Add(-d), To: p.From}
}
