package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
)

// Default file names.
const (
	DefaultDataFile         = "store_data.txt"
	DefaultTransactionsFile = "transactions.txt"
)

// TextStorage persists the inventory and the transaction log as flat files.
type TextStorage struct {
	dataPath         string
	transactionsPath string
}

// NewTextStorage creates a flat-file storage over the two given paths.
func NewTextStorage(dataPath, transactionsPath string) (*TextStorage, error) {
	if err := validateString(dataPath, "dataPath"); err != nil {
		return nil, err
	}
	if err := validateString(transactionsPath, "transactionsPath"); err != nil {
		return nil, err
	}

	return &TextStorage{
		dataPath:         dataPath,
		transactionsPath: transactionsPath,
	}, nil
}

// DataPath is the inventory file location.
func (s *TextStorage) DataPath() string {
	return s.dataPath
}

// LoadInventory reads the inventory file.
func (s *TextStorage) LoadInventory(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(s.dataPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", common.ErrIO, s.dataPath, err)
	}
	defer f.Close()

	categories, err := DecodeInventory(f)
	slog.Debug("decoded inventory file", "path", s.dataPath, "categories", len(categories))
	return categories, err
}

// SaveInventory overwrites the inventory file.
func (s *TextStorage) SaveInventory(ctx context.Context, categories []model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategories(categories); err != nil {
		return err
	}

	return writeFileAtomic(s.dataPath, func(w io.Writer) error {
		return EncodeInventory(w, categories)
	})
}

// SaveTransactions overwrites the transaction log.
func (s *TextStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return writeFileAtomic(s.transactionsPath, func(w io.Writer) error {
		return EncodeTransactions(w, transactions)
	})
}

// LoadTransactions reads the transaction log. A missing log is an empty one.
func (s *TextStorage) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(s.transactionsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", common.ErrIO, s.transactionsPath, err)
	}
	defer f.Close()

	return DecodeTransactions(f)
}

// Close is a no-op; files are opened and closed per operation.
func (s *TextStorage) Close() error {
	return nil
}

// writeFileAtomic writes through a temporary sibling file and renames it over path.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")

	// #nosec G304 - path comes from configuration
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", common.ErrIO, path, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			slog.Error("failed to remove temporary file after write error", "error", rmErr)
		}
		return fmt.Errorf("%w: failed to write %s: %w", common.ErrIO, path, err)
	}

	if err := f.Close(); err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			slog.Error("failed to remove temporary file after close error", "error", rmErr)
		}
		return fmt.Errorf("%w: failed to close %s: %w", common.ErrIO, path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: failed to replace %s: %w", common.ErrIO, path, err)
	}
	return nil
}
