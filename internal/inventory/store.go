// Package inventory implements the store: categories of stocked products,
// sale execution and the in-memory transaction log.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/service"
)

// Store owns every category and the log of completed sales.
type Store struct {
	categories   []model.Category
	transactions []model.Transaction
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// AddCategory appends a category. Names are not deduplicated.
func (s *Store) AddCategory(category model.Category) {
	s.categories = append(s.categories, category)
}

// Categories returns a copy of the categories in load/add order. Changing the
// copy does not change the store.
func (s *Store) Categories() []model.Category {
	out := make([]model.Category, len(s.categories))
	for i, cat := range s.categories {
		out[i] = cat
		out[i].Products = append([]model.Product(nil), cat.Products...)
	}
	return out
}

// Category returns the first category named exactly name, or nil.
func (s *Store) Category(name string) *model.Category {
	for i := range s.categories {
		if s.categories[i].Name == name {
			return &s.categories[i]
		}
	}
	return nil
}

// Transactions returns a copy of the sales log in chronological order.
func (s *Store) Transactions() []model.Transaction {
	out := make([]model.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// AddProduct stocks a product under categoryName, creating the category when
// it is recognized but not yet present.
func (s *Store) AddProduct(categoryName string, product model.Product) error {
	cat := s.Category(categoryName)
	if cat == nil {
		if !model.IsCategoryName(categoryName) {
			return fmt.Errorf("%w: %q is not a recognized category", common.ErrCategoryNotFound, categoryName)
		}
		s.AddCategory(model.NewCategory(categoryName))
		cat = &s.categories[len(s.categories)-1]
	}

	product.Kind = cat.Kind
	cat.AddProduct(product)

	slog.Debug("added product", "category", categoryName, "product", product.Name, "stock", product.Stock)
	return nil
}

// MakeSale sells quantity units of productName from categoryName.
//
// Every category whose name matches is tried in order until one completes the
// sale. Each matching category that cannot complete it contributes its own
// failure to the returned error. When no category name matches at all the
// error is common.ErrCategoryNotFound. Failures never change state.
func (s *Store) MakeSale(categoryName, productName string, quantity int) (model.Transaction, error) {
	if quantity <= 0 {
		return model.Transaction{}, fmt.Errorf("%w: got %d", common.ErrInvalidQuantity, quantity)
	}

	var (
		matched  bool
		failures []error
	)

	for i := range s.categories {
		cat := &s.categories[i]
		if cat.Name != categoryName {
			continue
		}
		matched = true

		product := cat.Product(productName)
		if product == nil {
			failures = append(failures, fmt.Errorf("%w: %q in %s", common.ErrProductNotFound, productName, cat.Name))
			continue
		}

		if product.Stock < quantity {
			failures = append(failures, fmt.Errorf("%w: %s has %d, requested %d",
				common.ErrInsufficientStock, product.Name, product.Stock, quantity))
			continue
		}

		product.ReduceStock(quantity)
		txn := model.NewSale(product.Name, quantity, product.Total(quantity))
		s.transactions = append(s.transactions, txn)

		slog.Info("sale completed",
			"category", cat.Name,
			"product", product.Name,
			"quantity", quantity,
			"total", txn.TotalPrice.StringFixed(2),
			"remaining", product.Stock)
		return txn, nil
	}

	if !matched {
		return model.Transaction{}, fmt.Errorf("%w: %q", common.ErrCategoryNotFound, categoryName)
	}

	return model.Transaction{}, errors.Join(failures...)
}

// SellAll applies each request in order. observe, when set, is called after
// every request with its outcome.
func (s *Store) SellAll(requests []service.SaleRequest, observe func(service.SaleRequest, error)) service.BatchStats {
	stats := service.BatchStats{Requested: len(requests)}

	for _, req := range requests {
		_, err := s.MakeSale(req.Category, req.Product, req.Quantity)
		if err != nil {
			stats.Failed++
		} else {
			stats.Completed++
		}
		if observe != nil {
			observe(req, err)
		}
	}

	return stats
}

// Load appends the persisted categories. Categories that loaded are kept even
// when some records were malformed; those records are reported in the error.
func (s *Store) Load(ctx context.Context, storage service.Storage) error {
	categories, err := storage.LoadInventory(ctx)

	products := 0
	for _, cat := range categories {
		s.AddCategory(cat)
		products += len(cat.Products)
	}

	if len(categories) > 0 || err == nil {
		common.LogInfo("loaded inventory", common.Fields{
			"categories": len(categories),
			"products":   products,
		})
	}

	return err
}

// Save persists the inventory and then the transaction log. Only a failure to
// persist the inventory is returned.
func (s *Store) Save(ctx context.Context, storage service.Storage) error {
	if err := storage.SaveInventory(ctx, s.categories); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}

	if err := storage.SaveTransactions(ctx, s.transactions); err != nil {
		slog.Warn("failed to save transaction log", "error", err)
	}

	return nil
}

// SaveInventory persists the inventory and leaves the transaction log as it is.
func (s *Store) SaveInventory(ctx context.Context, storage service.Storage) error {
	if err := storage.SaveInventory(ctx, s.categories); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	return nil
}

// SaveAppend persists the inventory and adds this session's sales after the
// ones already in the persisted log. Unreadable log lines are dropped. If the
// log cannot be read at all it is left untouched.
func (s *Store) SaveAppend(ctx context.Context, storage service.Storage) error {
	if err := s.SaveInventory(ctx, storage); err != nil {
		return err
	}
	if len(s.transactions) == 0 {
		return nil
	}

	prior, err := storage.LoadTransactions(ctx)
	if err != nil && !errors.Is(err, common.ErrMalformedTransaction) {
		slog.Warn("failed to read transaction log, new sales not logged", "error", err)
		return nil
	}

	merged := make([]model.Transaction, 0, len(prior)+len(s.transactions))
	merged = append(merged, prior...)
	merged = append(merged, s.transactions...)

	if err := storage.SaveTransactions(ctx, merged); err != nil {
		slog.Warn("failed to save transaction log", "error", err)
	}
	return nil
}
