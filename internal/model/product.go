package model

import (
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold applies when a new product does not carry one
const DefaultLowStockThreshold = 5

type Product struct {
	ID                string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	Price             decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	Stock             int             `gorm:"not null;default:0" json:"stock"`
	Category          string          `gorm:"type:varchar(100);index" json:"category"`
	Image             string          `gorm:"type:varchar(500)" json:"image"`
	LowStockThreshold int             `gorm:"not null;default:5" json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`

	// Seq orders the catalog: higher values were added later and list first
	Seq int64 `gorm:"index" json:"-"`
}

// IsLowStock reports stock at or below the product's threshold
func (p Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

func (p Product) IsOutOfStock() bool {
	return p.Stock == 0
}

// Valuation is the value of the units currently on hand
func (p Product) Valuation() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// PlaceholderImage builds the decorative picture reference used when none is supplied
func PlaceholderImage(name string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/200/200", url.PathEscape(name))
}
