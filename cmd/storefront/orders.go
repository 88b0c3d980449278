package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/app"
	"storefront/internal/receipt"

	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Order history",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past orders, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			list, err := c.Orders.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No orders yet.")
				return nil
			}
			for i, o := range list {
				fmt.Fprintf(out, "%3d  %s  ₹ %-8s %s\n", i+1, o.Date, receipt.FormatPrice(o.Product.Price), o.Product.Title)
			}
			return nil
		})
	},
}

var showJSON bool

var ordersShowCmd = &cobra.Command{
	Use:   "show [number]",
	Short: "Show the receipt of one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseOrderNumber(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			order, err := c.Orders.Get(ctx, index)
			if err != nil {
				return err
			}
			if showJSON {
				return printJSON(cmd.OutOrStdout(), order)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "🧾 Receipt")
			printFields(cmd.OutOrStdout(), order)
			return nil
		})
	},
}

var ordersRemoveCmd = &cobra.Command{
	Use:   "remove [number]",
	Short: "Remove an order from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseOrderNumber(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			remaining, err := c.Orders.Remove(ctx, index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed. %d order(s) left.\n", len(remaining))
			return nil
		})
	},
}

var ordersReceiptCmd = &cobra.Command{
	Use:   "receipt [number]",
	Short: "Print and share the receipt of one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseOrderNumber(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *app.Client) error {
			order, err := c.Orders.Get(ctx, index)
			if err != nil {
				return err
			}
			location, err := c.Receipts.Share(ctx, order)
			if err != nil {
				return errors.New(receipt.FailureMessage)
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		})
	},
}

// parseOrderNumber turns the 1-based number shown by "orders list" into an
// index.
func parseOrderNumber(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid order number %q", arg)
	}
	return n - 1, nil
}

func init() {
	ordersShowCmd.Flags().BoolVar(&showJSON, "json", false, "print the stored order as JSON")
	ordersCmd.AddCommand(ordersListCmd, ordersShowCmd, ordersRemoveCmd, ordersReceiptCmd)
	rootCmd.AddCommand(ordersCmd)
}
