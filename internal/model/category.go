package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category is a named, ordered collection of products.
type Category struct {
	Name     string
	Products []Product
	Kind     Kind
}

// NewCategory creates an empty category. Unrecognized names keep the zero kind.
func NewCategory(name string) Category {
	kind, _ := KindForCategory(name)
	return Category{
		Name: name,
		Kind: kind,
	}
}

// AddProduct appends a product. Duplicate names are allowed.
func (c *Category) AddProduct(p Product) {
	c.Products = append(c.Products, p)
}

// NewProduct appends a product of the category's kind and returns it.
func (c *Category) NewProduct(name string, price decimal.Decimal, stock int, expiryDate string) *Product {
	c.AddProduct(Product{
		Name:       name,
		Price:      price,
		Stock:      stock,
		ExpiryDate: expiryDate,
		Kind:       c.Kind,
	})
	return &c.Products[len(c.Products)-1]
}

// Product returns the first product whose name matches query ignoring case,
// or nil when none does. The pointer addresses the category's own storage.
func (c *Category) Product(query string) *Product {
	want := strings.ToLower(query)
	for i := range c.Products {
		if strings.ToLower(c.Products[i].Name) == want {
			return &c.Products[i]
		}
	}
	return nil
}
