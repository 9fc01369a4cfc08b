package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/shopspring/decimal"
)

// productFields is the token count of an inventory product line:
// name, price, stock, expiry date.
const productFields = 4

// DecodeInventory parses the line-oriented inventory format.
//
// A recognized category header opens a new category; any other non-blank line
// is a product of the open category. Bad lines are skipped and reported as
// *common.LineError values wrapping common.ErrMalformedInput, joined into the
// returned error. The categories decoded so far are always returned.
func DecodeInventory(r io.Reader) ([]model.Category, error) {
	var (
		categories []model.Category
		current    *model.Category
		malformed  []error
		lineNo     int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}

		if model.IsCategoryName(line) {
			categories = append(categories, model.NewCategory(line))
			current = &categories[len(categories)-1]
			continue
		}

		if current == nil {
			malformed = append(malformed, &common.LineError{
				Line: lineNo,
				Text: line,
				Err:  fmt.Errorf("%w: product record before any category", common.ErrMalformedInput),
			})
			continue
		}

		product, err := parseProduct(line)
		if err != nil {
			malformed = append(malformed, &common.LineError{Line: lineNo, Text: line, Err: err})
			continue
		}
		product.Kind = current.Kind
		current.AddProduct(product)
	}

	if err := scanner.Err(); err != nil {
		return categories, fmt.Errorf("%w: reading inventory: %w", common.ErrIO, err)
	}

	return categories, errors.Join(malformed...)
}

func parseProduct(line string) (model.Product, error) {
	fields := strings.Fields(line)
	if len(fields) != productFields {
		return model.Product{}, fmt.Errorf("%w: expected %d fields, got %d", common.ErrMalformedInput, productFields, len(fields))
	}

	price, err := decimal.NewFromString(fields[1])
	if err != nil {
		return model.Product{}, fmt.Errorf("%w: price %q", common.ErrMalformedInput, fields[1])
	}
	if price.IsNegative() {
		return model.Product{}, fmt.Errorf("%w: negative price %s", common.ErrMalformedInput, fields[1])
	}

	stock, err := strconv.Atoi(fields[2])
	if err != nil {
		return model.Product{}, fmt.Errorf("%w: stock %q", common.ErrMalformedInput, fields[2])
	}
	if stock < 0 {
		return model.Product{}, fmt.Errorf("%w: negative stock %d", common.ErrMalformedInput, stock)
	}

	return model.Product{
		Name:       fields[0],
		Price:      price,
		Stock:      stock,
		ExpiryDate: fields[3],
	}, nil
}

// EncodeInventory writes categories in the format DecodeInventory reads.
func EncodeInventory(w io.Writer, categories []model.Category) error {
	bw := bufio.NewWriter(w)
	for _, cat := range categories {
		if _, err := fmt.Fprintln(bw, cat.Name); err != nil {
			return err
		}
		for _, p := range cat.Products {
			if _, err := fmt.Fprintf(bw, "%s %s %d %s\n", p.Name, p.Price.String(), p.Stock, p.ExpiryDate); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// EncodeTransactions writes one log line per transaction.
func EncodeTransactions(w io.Writer, transactions []model.Transaction) error {
	bw := bufio.NewWriter(w)
	for _, txn := range transactions {
		if _, err := fmt.Fprintln(bw, txn.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DecodeTransactions reads a transaction log. Malformed lines are skipped and
// reported in the joined error, never aborting the read.
func DecodeTransactions(r io.Reader) ([]model.Transaction, error) {
	var (
		transactions []model.Transaction
		malformed    []error
		lineNo       int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}

		txn, err := model.ParseTransaction(line)
		if err != nil {
			malformed = append(malformed, &common.LineError{Line: lineNo, Text: line, Err: err})
			continue
		}
		transactions = append(transactions, txn)
	}

	if err := scanner.Err(); err != nil {
		return transactions, fmt.Errorf("%w: reading transaction log: %w", common.ErrIO, err)
	}

	return transactions, errors.Join(malformed...)
}
