package service

import (
	"context"
	"fmt"
	"sync"

	"bizpilot-ledger/internal/model"
	"bizpilot-ledger/internal/repository"
)

// Store is the single owner of the catalog and the ledger. Writers run
// one at a time under the write lock, so a sale's ledger append and stock
// adjustment are never observed separately.
type Store struct {
	mu      sync.RWMutex
	catalog *repository.ProductCatalog
	ledger  *repository.SalesLedger
}

func NewStore() *Store {
	return &Store{
		catalog: repository.NewProductCatalog(),
		ledger:  repository.NewSalesLedger(),
	}
}

// Read runs fn with shared access. fn must not retain the collections.
func (s *Store) Read(fn func(catalog *repository.ProductCatalog, ledger *repository.SalesLedger)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.catalog, s.ledger)
}

// Write runs fn with exclusive access
func (s *Store) Write(fn func(catalog *repository.ProductCatalog, ledger *repository.SalesLedger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.catalog, s.ledger)
}

// Snapshot copies the current products and sales, both newest first
func (s *Store) Snapshot() ([]model.Product, []model.Sale) {
	var products []model.Product
	var sales []model.Sale
	s.Read(func(c *repository.ProductCatalog, l *repository.SalesLedger) {
		products = make([]model.Product, 0, c.Len())
		for p := range c.List(model.ProductFilter{}) {
			products = append(products, p)
		}
		sales = make([]model.Sale, 0, l.Len())
		for sale := range l.All() {
			sales = append(sales, sale)
		}
	})
	return products, sales
}

// Restore replays a journal (oldest first) into an empty store
func (s *Store) Restore(ctx context.Context, journal repository.JournalRepository) error {
	products, sales, err := journal.Load(ctx)
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}
	return s.Write(func(c *repository.ProductCatalog, l *repository.SalesLedger) error {
		for _, p := range products {
			if err := c.Add(p); err != nil {
				return err
			}
		}
		for _, sale := range sales {
			if err := l.Append(sale); err != nil {
				return fmt.Errorf("restore sale %s: %w", sale.ID, err)
			}
		}
		return nil
	})
}
