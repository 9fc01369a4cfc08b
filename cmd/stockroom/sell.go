package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// batchFields is the token count of a batch sale line: category, product, quantity.
const batchFields = 3

func sellCmd() *cobra.Command {
	var batchFile string

	cmd := &cobra.Command{
		Use:   "sell [<category> <product> <quantity>]",
		Short: "Record a sale",
		Long: `Sell stock from a category and save the inventory.

With --batch, every line of the file is a sale of the form
"<category> <product> <quantity>". Lines that fail are reported and the
rest still go through; the inventory is saved once at the end.

Completed sales are added to the end of the transaction log.`,
		Example: `  # Sell three units of milk
  stockroom sell Groceries Milk 3

  # Apply a day's sales
  stockroom sell --batch sales.txt`,
		Args: func(cmd *cobra.Command, args []string) error {
			if batchFile != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(batchFields)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if batchFile != "" {
				return runBatchSell(cmd, batchFile)
			}
			return runSell(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&batchFile, "batch", "b", "", "file of sales to apply, one per line")

	return cmd
}

func runSell(cmd *cobra.Command, args []string) error {
	quantity, err := strconv.Atoi(args[2])
	if err != nil {
		return common.NewUserError("Quantity must be a whole number.", err)
	}

	out := cmd.OutOrStdout()
	sess, err := openSession(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.close()

	txn, err := sess.store.MakeSale(args[0], args[1], quantity)
	if err != nil {
		return common.NewUserError(strings.Join(cli.SaleFailureMessages(err), " "), err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Sale made: %s x%d for total price: %s",
		txn.ProductName, txn.Quantity, txn.TotalPrice.StringFixed(2))))

	return sess.saveAppend(cmd.Context(), cmd.ErrOrStderr())
}

func runBatchSell(cmd *cobra.Command, path string) error {
	// #nosec G304 - path is supplied by the operator
	f, err := os.Open(path)
	if err != nil {
		return common.NewUserError("Cannot open batch file.", fmt.Errorf("%w: %w", common.ErrIO, err))
	}
	defer f.Close()

	requests, parseErr := parseBatch(f)
	if parseErr != nil && !errors.Is(parseErr, common.ErrMalformedInput) {
		return parseErr
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	if parseErr != nil {
		for _, msg := range lineErrors(parseErr) {
			fmt.Fprintln(errOut, cli.FormatWarning("skipped "+msg))
		}
	}

	sess, err := openSession(cmd.Context(), errOut)
	if err != nil {
		return err
	}
	defer sess.close()

	bar := progressbar.NewOptions(len(requests),
		progressbar.OptionSetWriter(errOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Recording sales...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(errOut)
		}),
	)

	var failures []string
	stats := sess.store.SellAll(requests, func(req service.SaleRequest, err error) {
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s %s x%d: %s",
				req.Category, req.Product, req.Quantity, strings.Join(cli.SaleFailureMessages(err), " ")))
		}
		_ = bar.Add(1)
	})

	for _, failure := range failures {
		fmt.Fprintln(out, cli.FormatError(failure))
	}
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d of %d sales completed, %d failed",
		stats.Completed, stats.Requested, stats.Failed)))

	return sess.saveAppend(cmd.Context(), errOut)
}

// parseBatch reads sale requests. Bad lines are skipped and reported as joined
// *common.LineError values wrapping common.ErrMalformedInput.
func parseBatch(r io.Reader) ([]service.SaleRequest, error) {
	var (
		requests  []service.SaleRequest
		malformed []error
		lineNo    int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != batchFields {
			malformed = append(malformed, &common.LineError{
				Line: lineNo,
				Text: line,
				Err:  fmt.Errorf("%w: expected %d fields, got %d", common.ErrMalformedInput, batchFields, len(fields)),
			})
			continue
		}

		quantity, err := strconv.Atoi(fields[2])
		if err != nil {
			malformed = append(malformed, &common.LineError{
				Line: lineNo,
				Text: line,
				Err:  fmt.Errorf("%w: quantity %q", common.ErrMalformedInput, fields[2]),
			})
			continue
		}

		requests = append(requests, service.SaleRequest{
			Category: fields[0],
			Product:  fields[1],
			Quantity: quantity,
		})
	}

	if err := scanner.Err(); err != nil {
		return requests, fmt.Errorf("%w: reading batch file: %w", common.ErrIO, err)
	}

	return requests, errors.Join(malformed...)
}
