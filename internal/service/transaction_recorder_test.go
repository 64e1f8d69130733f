package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"bizpilot-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRecorder(store *Store, opts ...func(*TransactionRecorder)) *TransactionRecorder {
	r := NewTransactionRecorder(store, nil, nil, nil, "", zap.NewNop())
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func TestRecordSale_ComputesFinancialsAndStock(t *testing.T) {
	store := newTestStore(t, testProduct("1", "Premium Kenyan Coffee", 1200, 45, "Coffee"))
	r := newTestRecorder(store)

	sale, err := r.RecordSale(context.Background(), "1", 5)
	require.NoError(t, err)

	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, "1", sale.ProductID)
	assert.Equal(t, "Premium Kenyan Coffee", sale.ProductName)
	assert.Equal(t, 5, sale.Quantity)
	assert.True(t, dec("6000").Equal(sale.TotalPrice), sale.TotalPrice.String())
	assert.True(t, dec("1800").Equal(sale.Profit), sale.Profit.String())
	assert.Equal(t, 40, productStock(t, store, "1"))

	_, sales := store.Snapshot()
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
}

func TestRecordSale_ClampsOversell(t *testing.T) {
	store := newTestStore(t, testProduct("2", "Mwea Pishori Rice (5kg)", 850, 3, "Grains"))
	r := newTestRecorder(store)

	sale, err := r.RecordSale(context.Background(), "2", 10)
	require.NoError(t, err)

	assert.Equal(t, 0, productStock(t, store, "2"))
	assert.True(t, dec("8500").Equal(sale.TotalPrice))
	assert.True(t, dec("2550").Equal(sale.Profit))
}

func TestRecordSale_RejectPolicy(t *testing.T) {
	store := newTestStore(t, testProduct("2", "Rice", 850, 3, "Grains"))
	r := NewTransactionRecorder(store, nil, nil, nil, StockPolicyReject, zap.NewNop())

	_, err := r.RecordSale(context.Background(), "2", 10)
	assert.True(t, errors.Is(err, model.ErrInsufficientStock))
	assert.Equal(t, 3, productStock(t, store, "2"))

	_, sales := store.Snapshot()
	assert.Empty(t, sales)

	_, err = r.RecordSale(context.Background(), "2", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, productStock(t, store, "2"))
}

func TestRecordSale_InvalidInputLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		quantity  int
		want      error
	}{
		{name: "unknown product", productID: "missing", quantity: 1, want: model.ErrProductNotFound},
		{name: "zero quantity", productID: "1", quantity: 0, want: model.ErrValidation},
		{name: "negative quantity", productID: "1", quantity: -2, want: model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, testProduct("1", "Coffee", 1200, 45, "Coffee"))
			r := newTestRecorder(store)

			sale, err := r.RecordSale(context.Background(), tt.productID, tt.quantity)
			assert.Nil(t, sale)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			assert.Equal(t, 45, productStock(t, store, "1"))
			_, sales := store.Snapshot()
			assert.Empty(t, sales)
		})
	}
}

func TestRecordSale_NewestFirst(t *testing.T) {
	store := newTestStore(t, testProduct("1", "Coffee", 1200, 45, "Coffee"))
	r := newTestRecorder(store)

	s1, err := r.RecordSale(context.Background(), "1", 1)
	require.NoError(t, err)
	s2, err := r.RecordSale(context.Background(), "1", 2)
	require.NoError(t, err)

	_, sales := store.Snapshot()
	require.Len(t, sales, 2)
	assert.Equal(t, s2.ID, sales[0].ID)
	assert.Equal(t, s1.ID, sales[1].ID)
	assert.Equal(t, 42, productStock(t, store, "1"))
}

func TestRecordSale_UsesCostModel(t *testing.T) {
	store := newTestStore(t,
		testProduct("1", "Coffee", 1000, 10, "Coffee"),
		testProduct("5", "Honey", 1000, 10, "Honey"),
	)
	costs := NewCostModel(dec("0.7"), map[string]decimal.Decimal{"Honey": dec("0.5")})
	r := NewTransactionRecorder(store, nil, nil, costs, StockPolicyClamp, zap.NewNop())

	coffee, err := r.RecordSale(context.Background(), "1", 2)
	require.NoError(t, err)
	honey, err := r.RecordSale(context.Background(), "5", 2)
	require.NoError(t, err)

	assert.True(t, dec("600").Equal(coffee.Profit), coffee.Profit.String())
	assert.True(t, dec("1000").Equal(honey.Profit), honey.Profit.String())
}

func TestRecordSale_JournalFailureLeavesStateUnchanged(t *testing.T) {
	store := newTestStore(t, testProduct("1", "Coffee", 1200, 45, "Coffee"))
	journal := &fakeJournal{fail: true}
	r := NewTransactionRecorder(store, journal, nil, nil, "", zap.NewNop())

	_, err := r.RecordSale(context.Background(), "1", 5)
	assert.ErrorIs(t, err, errJournalDown)

	assert.Equal(t, 45, productStock(t, store, "1"))
	_, sales := store.Snapshot()
	assert.Empty(t, sales)
}

func TestRecordSale_JournalsNewStock(t *testing.T) {
	store := newTestStore(t, testProduct("1", "Coffee", 1200, 4, "Coffee"))
	journal := &fakeJournal{}
	r := NewTransactionRecorder(store, journal, nil, nil, "", zap.NewNop())

	sale, err := r.RecordSale(context.Background(), "1", 6)
	require.NoError(t, err)

	require.Len(t, journal.sales, 1)
	assert.Equal(t, sale.ID, journal.sales[0].ID)
	assert.Equal(t, 0, journal.stock["1"])
}

func TestRecordSale_PublishesEvent(t *testing.T) {
	store := newTestStore(t, testProduct("1", "Coffee", 1200, 45, "Coffee"))
	notifier := newRecordingNotifier()
	r := NewTransactionRecorder(store, nil, notifier, nil, "", zap.NewNop())

	_, err := r.RecordSale(context.Background(), "1", 5)
	require.NoError(t, err)

	events := notifier.events(t)
	require.Len(t, events, 1)
	assert.Equal(t, "sale_recorded", events[0]["action"])
	product := events[0]["product"].(map[string]interface{})
	assert.Equal(t, float64(40), product["new_stock"])
}

func TestRecordSale_UsesInjectedClockAndIDs(t *testing.T) {
	store := newTestStore(t, testProduct("1", "Coffee", 1200, 45, "Coffee"))
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("EAT", 3*3600))
	n := 0
	r := newTestRecorder(store, func(r *TransactionRecorder) {
		r.now = func() time.Time { return at }
		r.newID = func() string { n++; return fmt.Sprintf("sale-%d", n) }
	})

	sale, err := r.RecordSale(context.Background(), "1", 1)
	require.NoError(t, err)
	assert.Equal(t, "sale-1", sale.ID)
	assert.Equal(t, at.UTC(), sale.Date)
	assert.Equal(t, time.UTC, sale.Date.Location())
}

func TestRecordSale_ConcurrentSalesKeepStockConsistent(t *testing.T) {
	store := newTestStore(t, testProduct("1", "Coffee", 100, 1000, "Coffee"))
	r := newTestRecorder(store)

	const workers, each = 8, 25
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		go func() {
			for i := 0; i < each; i++ {
				if _, err := r.RecordSale(context.Background(), "1", 2); err != nil {
					errs <- err
					return
				}
			}
			errs <- nil
		}()
	}
	for w := 0; w < workers; w++ {
		require.NoError(t, <-errs)
	}

	assert.Equal(t, 1000-workers*each*2, productStock(t, store, "1"))
	_, sales := store.Snapshot()
	assert.Len(t, sales, workers*each)
}
