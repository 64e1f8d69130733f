package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"bizpilot-ledger/internal/model"
	"bizpilot-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errJournalDown = errors.New("journal unavailable")

// recordingNotifier keeps every published event
type recordingNotifier struct {
	mu       sync.Mutex
	messages [][]byte
	received chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{received: make(chan struct{}, 64)}
}

func (n *recordingNotifier) Publish(message []byte) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
	n.received <- struct{}{}
}

func (n *recordingNotifier) events(t *testing.T) []map[string]interface{} {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	events := make([]map[string]interface{}, 0, len(n.messages))
	for _, m := range n.messages {
		var e map[string]interface{}
		require.NoError(t, json.Unmarshal(m, &e))
		events = append(events, e)
	}
	return events
}

func (n *recordingNotifier) wait(t *testing.T) {
	t.Helper()
	select {
	case <-n.received:
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
}

// fakeJournal records calls and can be told to fail
type fakeJournal struct {
	fail     bool
	products []model.Product
	sales    []model.Sale
	stock    map[string]int
}

func (j *fakeJournal) SaveProduct(_ context.Context, p *model.Product) error {
	if j.fail {
		return errJournalDown
	}
	j.products = append(j.products, *p)
	return nil
}

func (j *fakeJournal) RecordSale(_ context.Context, s *model.Sale, newStock int) error {
	if j.fail {
		return errJournalDown
	}
	if j.stock == nil {
		j.stock = make(map[string]int)
	}
	j.sales = append(j.sales, *s)
	j.stock[s.ProductID] = newStock
	return nil
}

func (j *fakeJournal) Load(context.Context) ([]model.Product, []model.Sale, error) {
	if j.fail {
		return nil, nil, errJournalDown
	}
	return j.products, j.sales, nil
}

func testProduct(id, name string, price int64, stock int, category string) model.Product {
	return model.Product{
		ID:                id,
		Name:              name,
		Price:             decimal.NewFromInt(price),
		Stock:             stock,
		Category:          category,
		LowStockThreshold: model.DefaultLowStockThreshold,
	}
}

// newTestStore adds products in the given order, so the last one lists first
func newTestStore(t *testing.T, products ...model.Product) *Store {
	t.Helper()
	store := NewStore()
	require.NoError(t, store.Write(func(c *repository.ProductCatalog, _ *repository.SalesLedger) error {
		for _, p := range products {
			if err := c.Add(p); err != nil {
				return err
			}
		}
		return nil
	}))
	return store
}

func productStock(t *testing.T, store *Store, id string) int {
	t.Helper()
	var stock int
	store.Read(func(c *repository.ProductCatalog, _ *repository.SalesLedger) {
		p, err := c.Find(id)
		require.NoError(t, err)
		stock = p.Stock
	})
	return stock
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}
