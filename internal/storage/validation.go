// Package storage provides the data persistence layer for the store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/stockroom/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidProduct  = errors.New("invalid product")
)

// validateContext ensures the context is usable.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return ctx.Err()
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateToken ensures a value survives the whitespace-separated file format.
func validateToken(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\r\n")
}

// validateCategories checks that every category and product can be written
// and read back unchanged.
func validateCategories(categories []model.Category) error {
	for i, cat := range categories {
		if !model.IsCategoryName(cat.Name) {
			return fmt.Errorf("%w at index %d: unrecognized name %q", ErrInvalidCategory, i, cat.Name)
		}
		for j := range cat.Products {
			if err := validateProduct(&cat.Products[j]); err != nil {
				return fmt.Errorf("category %s, product at index %d: %w", cat.Name, j, err)
			}
		}
	}
	return nil
}

// validateProduct validates a single product.
func validateProduct(p *model.Product) error {
	if !validateToken(p.Name) {
		return fmt.Errorf("%w: name %q must be a single word", ErrInvalidProduct, p.Name)
	}
	if !validateToken(p.ExpiryDate) {
		return fmt.Errorf("%w: expiry date %q must be a single word", ErrInvalidProduct, p.ExpiryDate)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: negative stock", ErrInvalidProduct)
	}
	return nil
}
