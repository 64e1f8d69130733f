package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable ledger record. ProductName is a snapshot taken at
// creation so the record stays readable whatever happens to the product.
type Sale struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProductID   string          `gorm:"type:varchar(36);not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_price"`
	Profit      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"profit"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	Seq int64 `gorm:"index" json:"-"`
}

// Complete reports whether the record carries every field the ledger requires
func (s Sale) Complete() bool {
	return s.ID != "" && s.ProductID != "" && s.Quantity > 0 && !s.Date.IsZero()
}
