package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/inventory"
)

// Menu choices.
const (
	ChoiceDisplay = 1
	ChoiceSale    = 2
	ChoiceReport  = 3
	ChoiceExit    = 4
)

// Menu is the numbered console menu over a store.
type Menu struct {
	store  *inventory.Store
	reader *NonBlockingReader
	out    io.Writer
}

// NewMenu creates a menu reading choices from in and writing to out.
func NewMenu(store *inventory.Store, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		store:  store,
		reader: NewNonBlockingReader(in),
		out:    out,
	}
}

// Run shows the menu until the operator exits, input ends or ctx is canceled.
// Cancellation is reported as ctx.Err(); the other two return nil.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printMenu()

		choice, err := m.reader.PromptInt(ctx, m.out, "Enter your choice")
		switch {
		case errors.Is(err, ErrInputCancelled):
			return ctx.Err()
		case errors.Is(err, io.EOF):
			fmt.Fprintln(m.out)
			return nil
		case errors.Is(err, ErrNotANumber):
			fmt.Fprintln(m.out, FormatError("Invalid choice. Please try again."))
			continue
		case err != nil:
			return err
		}

		switch choice {
		case ChoiceDisplay:
			if err := m.store.DisplayInventory(m.out); err != nil {
				return err
			}
		case ChoiceSale:
			if err := m.sale(ctx); err != nil {
				if errors.Is(err, ErrInputCancelled) {
					return ctx.Err()
				}
				if errors.Is(err, io.EOF) {
					fmt.Fprintln(m.out)
					return nil
				}
				return err
			}
		case ChoiceReport:
			if err := m.store.GenerateReport(m.out); err != nil {
				return err
			}
		case ChoiceExit:
			fmt.Fprintln(m.out, "Exiting the system. Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, FormatError("Invalid choice. Please try again."))
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, FormatTitle("Virtual Store Inventory System"))
	fmt.Fprintln(m.out, "1. Display Inventory")
	fmt.Fprintln(m.out, "2. Make a Sale")
	fmt.Fprintln(m.out, "3. Generate Transaction Report")
	fmt.Fprintln(m.out, "4. Exit")
}

// sale prompts for one sale. Only input errors are returned; sale failures
// are printed.
func (m *Menu) sale(ctx context.Context) error {
	category, err := m.reader.Prompt(ctx, m.out, "Enter category")
	if err != nil {
		return err
	}
	product, err := m.reader.Prompt(ctx, m.out, "Enter product name")
	if err != nil {
		return err
	}
	quantity, err := m.reader.PromptInt(ctx, m.out, "Enter quantity")
	if errors.Is(err, ErrNotANumber) {
		fmt.Fprintln(m.out, FormatError("Quantity must be a whole number."))
		return nil
	}
	if err != nil {
		return err
	}

	txn, err := m.store.MakeSale(category, product, quantity)
	if err != nil {
		for _, msg := range SaleFailureMessages(err) {
			fmt.Fprintln(m.out, FormatError(msg))
		}
		return nil
	}

	fmt.Fprintln(m.out, FormatSuccess(fmt.Sprintf("Sale made: %s x%d for total price: %s",
		txn.ProductName, txn.Quantity, txn.TotalPrice.StringFixed(2))))
	return nil
}

// SaleFailureMessages renders a MakeSale error as one operator message per
// failed category.
func SaleFailureMessages(err error) []string {
	if err == nil {
		return nil
	}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, SaleFailureMessages(e)...)
		}
		return msgs
	}

	switch {
	case errors.Is(err, common.ErrCategoryNotFound):
		return []string{"Category not found."}
	case errors.Is(err, common.ErrProductNotFound):
		return []string{"Product not found."}
	case errors.Is(err, common.ErrInsufficientStock):
		return []string{"Not enough stock available."}
	case errors.Is(err, common.ErrInvalidQuantity):
		return []string{"Quantity must be positive."}
	default:
		return []string{err.Error()}
	}
}
