package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionTypeSale is the only transaction type the store records.
const TransactionTypeSale = "Sold"

// Transaction is the immutable record of one completed sale.
type Transaction struct {
	SoldAt      time.Time
	TotalPrice  decimal.Decimal
	Type        string
	ProductName string
	Quantity    int
	ID          uuid.UUID
}

// NewSale records a completed sale of quantity units for total.
func NewSale(productName string, quantity int, total decimal.Decimal) Transaction {
	return Transaction{
		ID:          uuid.New(),
		Type:        TransactionTypeSale,
		ProductName: productName,
		Quantity:    quantity,
		TotalPrice:  total,
		SoldAt:      time.Now(),
	}
}

// String renders the transaction log line: "Sold: <name> x<qty> for <total>".
func (t Transaction) String() string {
	return fmt.Sprintf("%s: %s x%d for %s", t.Type, t.ProductName, t.Quantity, t.TotalPrice.StringFixed(2))
}

// ParseTransaction reads a transaction log line back into a record.
// Lines missing any of the ": ", " x" or " for " delimiters, or carrying
// unparsable numbers, yield common.ErrMalformedTransaction.
func ParseTransaction(line string) (Transaction, error) {
	typeEnd := strings.Index(line, ": ")
	if typeEnd < 0 {
		return Transaction{}, fmt.Errorf("%w: missing \": \"", common.ErrMalformedTransaction)
	}
	rest := line[typeEnd+2:]

	nameEnd := strings.Index(rest, " x")
	if nameEnd < 0 {
		return Transaction{}, fmt.Errorf("%w: missing \" x\"", common.ErrMalformedTransaction)
	}
	afterName := rest[nameEnd+2:]

	qtyEnd := strings.Index(afterName, " for ")
	if qtyEnd < 0 {
		return Transaction{}, fmt.Errorf("%w: missing \" for \"", common.ErrMalformedTransaction)
	}

	quantity, err := strconv.Atoi(afterName[:qtyEnd])
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: quantity: %v", common.ErrMalformedTransaction, err)
	}

	total, err := decimal.NewFromString(strings.TrimSpace(afterName[qtyEnd+5:]))
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: total price: %v", common.ErrMalformedTransaction, err)
	}

	return Transaction{
		Type:        line[:typeEnd],
		ProductName: rest[:nameEnd],
		Quantity:    quantity,
		TotalPrice:  total,
	}, nil
}
