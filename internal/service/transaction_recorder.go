package service

import (
	"context"
	"fmt"
	"time"

	"bizpilot-ledger/internal/model"
	"bizpilot-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionRecorder is the only path that writes the catalog and the
// ledger together.
type TransactionRecorder struct {
	store    *Store
	journal  repository.JournalRepository // nil keeps sales in memory only
	notifier Notifier
	costs    CostModel
	policy   StockPolicy
	logger   *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewTransactionRecorder(store *Store, journal repository.JournalRepository, notifier Notifier, costs CostModel, policy StockPolicy, logger *zap.Logger) *TransactionRecorder {
	if costs == nil {
		costs = FixedCostRatio{Ratio: DefaultCostRatio}
	}
	if policy == "" {
		policy = StockPolicyClamp
	}
	return &TransactionRecorder{
		store:    store,
		journal:  journal,
		notifier: notifier,
		costs:    costs,
		policy:   policy,
		logger:   logger.Named("recorder"),
		now:      time.Now,
		newID:    model.NewID,
	}
}

// RecordSale sells quantity units of a product. Totals are computed on the
// requested quantity; under the clamp policy stock then floors at zero even
// when fewer units were on hand.
func (r *TransactionRecorder) RecordSale(ctx context.Context, productID string, quantity int) (*model.Sale, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", model.ErrValidation)
	}

	var (
		sale     model.Sale
		newStock int
	)
	err := r.store.Write(func(catalog *repository.ProductCatalog, ledger *repository.SalesLedger) error {
		product, err := catalog.Find(productID)
		if err != nil {
			return err
		}
		if r.policy == StockPolicyReject && quantity > product.Stock {
			return fmt.Errorf("%w: %d requested, %d on hand", model.ErrInsufficientStock, quantity, product.Stock)
		}

		sale = r.buildSale(*product, quantity, ledger.NextSeq())
		newStock = max(0, product.Stock-quantity)

		if r.journal != nil {
			if err := r.journal.RecordSale(ctx, &sale, newStock); err != nil {
				return fmt.Errorf("journal sale: %w", err)
			}
		}
		if err := ledger.Append(sale); err != nil {
			return err
		}
		_, err = catalog.AdjustStock(productID, -quantity)
		return err
	})
	if err != nil {
		r.logger.Warn("sale rejected",
			zap.String("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.String("total_price", sale.TotalPrice.String()),
		zap.Int("new_stock", newStock),
	)
	publish(r.notifier, r.logger, map[string]interface{}{
		"type":   "stock_update",
		"action": "sale_recorded",
		"sale":   sale,
		"product": map[string]interface{}{
			"id":        sale.ProductID,
			"name":      sale.ProductName,
			"new_stock": newStock,
		},
		"message": fmt.Sprintf("Sold %d units of '%s'", sale.Quantity, sale.ProductName),
	})

	return &sale, nil
}

func (r *TransactionRecorder) buildSale(product model.Product, quantity int, seq int64) model.Sale {
	qty := decimal.NewFromInt(int64(quantity))
	cost := r.costs.UnitCost(product)

	return model.Sale{
		ID:          r.newID(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		TotalPrice:  product.Price.Mul(qty),
		Profit:      product.Price.Sub(cost).Mul(qty),
		Date:        r.now().UTC(),
		Seq:         seq,
	}
}
