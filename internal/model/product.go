// Package model defines the inventory records shared across the application.
package model

import (
	"github.com/shopspring/decimal"
)

// Kind tags a product with the category family it was stocked under.
type Kind int

const (
	// KindGrocery is stocked under Groceries.
	KindGrocery Kind = iota
	// KindElectronics is stocked under Electronics.
	KindElectronics
	// KindFurniture is stocked under Furniture.
	KindFurniture
)

// Recognized category names. Matching is literal and case-sensitive.
const (
	CategoryGroceries   = "Groceries"
	CategoryElectronics = "Electronics"
	CategoryFurniture   = "Furniture"
)

// CategoryNames lists the recognized category headers.
var CategoryNames = []string{CategoryGroceries, CategoryElectronics, CategoryFurniture}

// KindForCategory returns the product kind for a recognized category name.
func KindForCategory(name string) (Kind, bool) {
	switch name {
	case CategoryGroceries:
		return KindGrocery, true
	case CategoryElectronics:
		return KindElectronics, true
	case CategoryFurniture:
		return KindFurniture, true
	default:
		return 0, false
	}
}

// IsCategoryName reports whether name is one of the recognized category headers.
func IsCategoryName(name string) bool {
	_, ok := KindForCategory(name)
	return ok
}

// Label is the display label for products of this kind.
func (k Kind) Label() string {
	switch k {
	case KindGrocery:
		return "Grocery Product"
	case KindElectronics:
		return "Electronics Product"
	case KindFurniture:
		return "Furniture Product"
	default:
		return "Product"
	}
}

func (k Kind) String() string {
	switch k {
	case KindGrocery:
		return "grocery"
	case KindElectronics:
		return "electronics"
	case KindFurniture:
		return "furniture"
	default:
		return "unknown"
	}
}

// Product is a stocked item. Identity fields never change after creation;
// Stock only changes through a sale.
type Product struct {
	Price      decimal.Decimal
	Name       string
	ExpiryDate string // unparsed date token, e.g. 2025-01-01
	Stock      int
	Kind       Kind
}

// ReduceStock removes quantity units. Callers must have checked availability.
func (p *Product) ReduceStock(quantity int) {
	p.Stock -= quantity
}

// Total is the price charged for quantity units.
func (p *Product) Total(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}
