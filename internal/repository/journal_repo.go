package repository

import (
	"context"

	"bizpilot-ledger/internal/model"

	"gorm.io/gorm"
)

// JournalRepository mirrors the catalog and ledger into durable storage
type JournalRepository interface {
	SaveProduct(ctx context.Context, product *model.Product) error
	RecordSale(ctx context.Context, sale *model.Sale, newStock int) error
	Load(ctx context.Context) ([]model.Product, []model.Sale, error)
}

type journalRepo struct {
	db *gorm.DB
}

func NewJournalRepo(db *gorm.DB) JournalRepository {
	return &journalRepo{db}
}

// Migrate creates the journal tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Product{}, &model.Sale{})
}

func (r *journalRepo) SaveProduct(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// RecordSale stores the sale and the product's new stock in one transaction
func (r *journalRepo) RecordSale(ctx context.Context, sale *model.Sale, newStock int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("id = ?", sale.ProductID).
			Update("stock", newStock)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrProductNotFound
		}
		return tx.Create(sale).Error
	})
}

// Load returns products and sales oldest first, ready to be replayed into
// a fresh catalog and ledger.
func (r *journalRepo) Load(ctx context.Context) ([]model.Product, []model.Sale, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&products).Error; err != nil {
		return nil, nil, err
	}
	var sales []model.Sale
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&sales).Error; err != nil {
		return nil, nil, err
	}
	return products, sales, nil
}
