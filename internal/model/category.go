package model

// Catalog filter pseudo-categories
const (
	CategoryAll      = "All"
	CategoryLowStock = "Low Stock"
)

// Categories offered when adding a product
var DefaultCategories = []string{"Coffee", "Grains", "Produce", "Spices", "Honey"}

// ProductFilter selects catalog entries by category and name
type ProductFilter struct {
	Category string `query:"category"`
	Query    string `query:"q"`
}
