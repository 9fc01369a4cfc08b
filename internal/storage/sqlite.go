package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and :memory: needs exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// DataPath is the database file location.
func (s *SQLiteStorage) DataPath() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// LoadInventory returns categories and products in their saved order.
func (s *SQLiteStorage) LoadInventory(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT c.id, c.name, p.name, p.price, p.stock, p.expiry_date
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		ORDER BY c.position, p.position`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var (
		categories []model.Category
		lastID     int64 = -1
	)
	for rows.Next() {
		var (
			catID               int64
			catName             string
			name, price, expiry sql.NullString
			stock               sql.NullInt64
		)
		if err := rows.Scan(&catID, &catName, &name, &price, &stock, &expiry); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}

		if catID != lastID {
			categories = append(categories, model.NewCategory(catName))
			lastID = catID
		}
		if !name.Valid {
			continue // category without products
		}

		amount, err := decimal.NewFromString(price.String)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for %s: %w", price.String, name.String, err)
		}

		cat := &categories[len(categories)-1]
		cat.NewProduct(name.String, amount, int(stock.Int64), expiry.String)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	slog.Debug("retrieved inventory", "categories", len(categories))
	return categories, nil
}

// SaveInventory replaces all categories and products in one transaction.
func (s *SQLiteStorage) SaveInventory(ctx context.Context, categories []model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategories(categories); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}

	for i, cat := range categories {
		res, err := tx.ExecContext(ctx, `INSERT INTO categories (name, position) VALUES (?, ?)`, cat.Name, i)
		if err != nil {
			return fmt.Errorf("failed to insert category %s: %w", cat.Name, err)
		}
		catID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get category id: %w", err)
		}

		for j, p := range cat.Products {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO products (category_id, position, name, price, stock, expiry_date)
				VALUES (?, ?, ?, ?, ?, ?)`,
				catID, j, p.Name, p.Price.String(), p.Stock, p.ExpiryDate,
			); err != nil {
				return fmt.Errorf("failed to insert product %s: %w", p.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit inventory: %w", err)
	}

	slog.Debug("saved inventory", "categories", len(categories))
	return nil
}

// SaveTransactions replaces the stored transaction log.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	for i, txn := range transactions {
		id := txn.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, seq, type, product_name, quantity, total_price, sold_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id.String(), i, txn.Type, txn.ProductName, txn.Quantity, txn.TotalPrice.StringFixed(2), txn.SoldAt,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

// LoadTransactions returns the stored log in chronological order.
func (s *SQLiteStorage) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, product_name, quantity, total_price, sold_at
		FROM transactions
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var (
			id, total string
			soldAt    sql.NullTime
			txn       model.Transaction
		)
		if err := rows.Scan(&id, &txn.Type, &txn.ProductName, &txn.Quantity, &total, &soldAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if txn.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid transaction id %q: %w", id, err)
		}
		if txn.TotalPrice, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("invalid total %q: %w", total, err)
		}
		txn.SoldAt = soldAt.Time
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// IsBusy reports whether err is SQLite lock contention that may clear on retry.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}
