package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage stocked products",
	}

	cmd.AddCommand(addProductCmd())

	return cmd
}

func addProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <name> <price> <stock> <expiry-date>",
		Short: "Stock a new product",
		Long: `Add a product to a category and save the inventory.

The category must be Groceries, Electronics or Furniture; it is created when
it does not exist yet. Use N/A as the expiry date for goods that do not expire.`,
		Example: `  stockroom products add Groceries Milk 2.50 10 2025-01-01
  stockroom products add Furniture Chair 49.99 2 N/A`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := parseProductArgs(args[1:])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.close()

			if err := sess.store.AddProduct(args[0], product); err != nil {
				return common.NewUserError(fmt.Sprintf("Cannot stock %s under %q.", product.Name, args[0]), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s to %s: %s, stock %d, expires %s",
				product.Name, args[0], product.Price.StringFixed(2), product.Stock, product.ExpiryDate)))

			return sess.saveInventory(cmd.Context(), cmd.ErrOrStderr())
		},
	}
}

// parseProductArgs reads name, price, stock and expiry date.
func parseProductArgs(args []string) (model.Product, error) {
	price, err := decimal.NewFromString(args[1])
	if err != nil || price.IsNegative() {
		return model.Product{}, common.NewUserError("Price must be a non-negative number.",
			fmt.Errorf("%w: price %q", common.ErrMalformedInput, args[1]))
	}

	stock, err := strconv.Atoi(args[2])
	if err != nil || stock < 0 {
		return model.Product{}, common.NewUserError("Stock must be a non-negative whole number.",
			fmt.Errorf("%w: stock %q", common.ErrMalformedInput, args[2]))
	}

	return model.Product{
		Name:       args[0],
		Price:      price,
		Stock:      stock,
		ExpiryDate: args[3],
	}, nil
}
