package repository

import (
	"fmt"
	"iter"
	"strings"

	"bizpilot-ledger/internal/model"
)

// ProductCatalog is the in-memory owner of every product and its stock.
// It does no locking of its own; the service Store serialises access.
type ProductCatalog struct {
	products []*model.Product // newest first
	byID     map[string]*model.Product
	seq      int64
}

func NewProductCatalog() *ProductCatalog {
	return &ProductCatalog{byID: make(map[string]*model.Product)}
}

// NextSeq is the sequence number the next Add will assign
func (c *ProductCatalog) NextSeq() int64 {
	return c.seq + 1
}

// Add inserts product at the front of the catalog. A zero Seq is assigned
// from the catalog's counter; a restored Seq advances the counter.
func (c *ProductCatalog) Add(product model.Product) error {
	if _, exists := c.byID[product.ID]; exists {
		return fmt.Errorf("%w: %s", model.ErrAlreadyExists, product.ID)
	}
	if product.Seq == 0 {
		product.Seq = c.NextSeq()
	}
	if product.Seq > c.seq {
		c.seq = product.Seq
	}

	p := &product
	c.products = append([]*model.Product{p}, c.products...)
	c.byID[p.ID] = p
	return nil
}

// AdjustStock sets stock to max(0, stock+delta) and returns the new level
func (c *ProductCatalog) AdjustStock(productID string, delta int) (int, error) {
	p, ok := c.byID[productID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", model.ErrProductNotFound, productID)
	}
	p.Stock = max(0, p.Stock+delta)
	return p.Stock, nil
}

// Find returns a copy of the product
func (c *ProductCatalog) Find(productID string) (*model.Product, error) {
	p, ok := c.byID[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrProductNotFound, productID)
	}
	product := *p
	return &product, nil
}

// List yields copies of the products matching filter, newest first.
// The sequence can be ranged over any number of times.
func (c *ProductCatalog) List(filter model.ProductFilter) iter.Seq[model.Product] {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	return func(yield func(model.Product) bool) {
		for _, p := range c.products {
			if !matchesCategory(*p, filter.Category) {
				continue
			}
			if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
				continue
			}
			if !yield(*p) {
				return
			}
		}
	}
}

func (c *ProductCatalog) Len() int {
	return len(c.products)
}

func matchesCategory(p model.Product, category string) bool {
	switch category {
	case "", model.CategoryAll:
		return true
	case model.CategoryLowStock:
		return p.IsLowStock()
	default:
		return p.Category == category
	}
}
