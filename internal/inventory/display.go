package inventory

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/charmbracelet/lipgloss"
)

const ruleWidth = 65

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// DisplayInventory writes every category's listing in store order.
func (s *Store) DisplayInventory(w io.Writer) error {
	if len(s.categories) == 0 {
		_, err := fmt.Fprintln(w, "Inventory is empty.")
		return err
	}

	for i := range s.categories {
		if err := DisplayCategory(w, &s.categories[i]); err != nil {
			return err
		}
	}
	return nil
}

// DisplayCategory writes a fixed-width table of the category's products.
func DisplayCategory(w io.Writer, cat *model.Category) error {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("--- "+cat.Name+" ---") + "\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-20s%-10s%-10s%-15s", "Product Name", "Price", "Stock", "Expiry Date")) + "\n")
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n")

	for _, p := range cat.Products {
		fmt.Fprintf(&b, "%-20s%-10s%-10d%-15s\n", p.Name, p.Price.StringFixed(2), p.Stock, p.ExpiryDate)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// GenerateReport writes the in-memory sales log as a table.
func (s *Store) GenerateReport(w io.Writer) error {
	return RenderReport(w, s.transactions)
}

// RenderReport writes transactions as a table in the order given.
func RenderReport(w io.Writer, transactions []model.Transaction) error {
	var b strings.Builder

	b.WriteString("\n" + sectionStyle.Render("--- Transaction Report ---") + "\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-20s%-20s%-10s%-15s", "Transaction Type", "Product Name", "Quantity", "Total Price")) + "\n")
	b.WriteString(strings.Repeat("-", ruleWidth) + "\n")

	for _, txn := range transactions {
		fmt.Fprintf(&b, "%-20s%-20s%-10d%-15s\n", txn.Type, txn.ProductName, txn.Quantity, txn.TotalPrice.StringFixed(2))
	}

	if len(transactions) == 0 {
		b.WriteString("No transactions recorded.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
