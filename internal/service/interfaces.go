// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/stockroom/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// LoadInventory returns the persisted categories in file order. A non-nil
	// error alongside categories reports skipped malformed records.
	LoadInventory(ctx context.Context) ([]model.Category, error)
	// SaveInventory replaces the persisted categories and products.
	SaveInventory(ctx context.Context, categories []model.Category) error

	// SaveTransactions replaces the persisted transaction log.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	// LoadTransactions reads the persisted log, skipping malformed entries.
	LoadTransactions(ctx context.Context) ([]model.Transaction, error)

	Close() error
}

// SaleRequest names one sale to apply.
type SaleRequest struct {
	Category string
	Product  string
	Quantity int
}

// BatchStats summarizes a batch of sales.
type BatchStats struct {
	Requested int
	Completed int
	Failed    int
}
