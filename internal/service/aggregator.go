package service

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"bizpilot-ledger/internal/model"

	"github.com/shopspring/decimal"
)

// The aggregator functions below are pure: they read snapshots and keep no
// state, so every figure is rederived from the ledger on each call.

// SalesMetric ranks top sellers
type SalesMetric string

const (
	MetricUnits   SalesMetric = "units"
	MetricRevenue SalesMetric = "revenue"
)

var hundred = decimal.NewFromInt(100)

// BaselineSource supplies the comparison figures for growth percentages
type BaselineSource interface {
	Baseline(ctx context.Context, period model.Period, sales []model.Sale) model.Totals
}

// FixedBaseline compares against constant figures
type FixedBaseline struct {
	Totals model.Totals
}

func (f FixedBaseline) Baseline(context.Context, model.Period, []model.Sale) model.Totals {
	return f.Totals
}

// PriorPeriodBaseline compares against the equally long window just before
// the summarised one. An unbounded period has no prior window.
type PriorPeriodBaseline struct{}

func (PriorPeriodBaseline) Baseline(_ context.Context, period model.Period, sales []model.Sale) model.Totals {
	if period.From.IsZero() && period.To.IsZero() {
		return model.Totals{Sales: decimal.Zero, Profit: decimal.Zero}
	}
	return SumSales(slices.Values(sales), period.Previous())
}

// Baseline kinds accepted by NewBaselineSource
const (
	BaselinePrior = "prior"
	BaselineFixed = "fixed"
)

// NewBaselineSource selects a baseline by name; fixed is only used by the
// fixed kind
func NewBaselineSource(kind string, fixed model.Totals) (BaselineSource, error) {
	switch kind {
	case "", BaselinePrior:
		return PriorPeriodBaseline{}, nil
	case BaselineFixed:
		return FixedBaseline{Totals: fixed}, nil
	}
	return nil, fmt.Errorf("unknown growth baseline %q", kind)
}

// SumSales totals sales inside period; a zero period counts every sale
func SumSales(sales iter.Seq[model.Sale], period model.Period) model.Totals {
	totals := model.Totals{Sales: decimal.Zero, Profit: decimal.Zero}
	unbounded := period.From.IsZero() && period.To.IsZero()
	for s := range sales {
		if !unbounded && !period.Contains(s.Date) {
			continue
		}
		totals.Sales = totals.Sales.Add(s.TotalPrice)
		totals.Profit = totals.Profit.Add(s.Profit)
	}
	return totals
}

// Summarize totals the given sales and compares them with baseline
func Summarize(sales []model.Sale, baseline model.Totals) model.DailySummary {
	current := SumSales(slices.Values(sales), model.Period{})
	return model.DailySummary{
		TotalSales:   current.Sales,
		TotalProfit:  current.Profit,
		SalesGrowth:  Growth(current.Sales, baseline.Sales),
		ProfitGrowth: Growth(current.Profit, baseline.Profit),
		SaleCount:    len(sales),
	}
}

// Growth is the percentage change from baseline to current, one decimal
// place. A zero baseline yields zero.
func Growth(current, baseline decimal.Decimal) decimal.Decimal {
	if baseline.IsZero() {
		return decimal.Zero
	}
	return current.Sub(baseline).Div(baseline).Mul(hundred).Round(1)
}

// LowStock keeps products at or below their threshold, in catalog order
func LowStock(products iter.Seq[model.Product]) []model.Product {
	low := []model.Product{}
	for p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}

// RankTopSellers groups the ledger by product and ranks catalog products by
// metric. Products without sales are left out; ties keep catalog order.
func RankTopSellers(products []model.Product, sales iter.Seq[model.Sale], limit int, metric SalesMetric) []model.TopSeller {
	type tally struct {
		units   int
		revenue decimal.Decimal
		profit  decimal.Decimal
	}
	byProduct := make(map[string]*tally)
	for s := range sales {
		t, ok := byProduct[s.ProductID]
		if !ok {
			t = &tally{revenue: decimal.Zero, profit: decimal.Zero}
			byProduct[s.ProductID] = t
		}
		t.units += s.Quantity
		t.revenue = t.revenue.Add(s.TotalPrice)
		t.profit = t.profit.Add(s.Profit)
	}

	ranked := []model.TopSeller{}
	for _, p := range products {
		t, ok := byProduct[p.ID]
		if !ok {
			continue
		}
		ranked = append(ranked, model.TopSeller{
			Product:   p,
			UnitsSold: t.units,
			Revenue:   t.revenue,
			Profit:    t.profit,
		})
	}

	slices.SortStableFunc(ranked, func(a, b model.TopSeller) int {
		if metric == MetricRevenue {
			return b.Revenue.Cmp(a.Revenue)
		}
		return b.UnitsSold - a.UnitsSold
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// SalesTrend buckets sales into days, oldest first, ending on the day of to
func SalesTrend(sales iter.Seq[model.Sale], to time.Time, days int, loc *time.Location) []model.SalesTrendPoint {
	if days <= 0 {
		return []model.SalesTrendPoint{}
	}
	end := to.In(loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	first := last.AddDate(0, 0, -(days - 1))

	points := make([]model.SalesTrendPoint, days)
	for i := range points {
		points[i] = model.SalesTrendPoint{
			Date:    first.AddDate(0, 0, i).Format(time.DateOnly),
			Revenue: decimal.Zero,
			Profit:  decimal.Zero,
		}
	}

	for s := range sales {
		d := s.Date.In(loc)
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		if day.Before(first) || day.After(last) {
			continue
		}
		idx := dayIndex(first, day)
		p := &points[idx]
		p.Orders++
		p.Units += s.Quantity
		p.Revenue = p.Revenue.Add(s.TotalPrice)
		p.Profit = p.Profit.Add(s.Profit)
	}
	return points
}

// dayIndex counts calendar days between two local midnights
func dayIndex(first, day time.Time) int {
	i := 0
	for d := first; d.Before(day); d = d.AddDate(0, 0, 1) {
		i++
	}
	return i
}

// Stats summarises the catalog for the dashboard
func Stats(products iter.Seq[model.Product]) model.InventoryStats {
	stats := model.InventoryStats{TotalValuation: decimal.Zero}
	for p := range products {
		stats.TotalProducts++
		if p.IsLowStock() {
			stats.LowStockCount++
		}
		if p.IsOutOfStock() {
			stats.OutOfStockCount++
		}
		stats.TotalValuation = stats.TotalValuation.Add(p.Valuation())
	}
	return stats
}
