package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/libilabs/console/internal/model"
	"github.com/libilabs/console/internal/search"
)

// NewOrdersCommand creates the orders command group.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and act on orders",
	}
	cmd.AddCommand(newOrdersListCommand(rootOpts))
	cmd.AddCommand(newOrdersGetCommand(rootOpts))
	cmd.AddCommand(newOrdersAdvanceCommand(rootOpts))
	cmd.AddCommand(newOrdersVerifyCommand(rootOpts))
	return cmd
}

func newOrdersListCommand(rootOpts *RootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:           "list <merchant-id>",
		Short:         "List a merchant's orders",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			c, err := rootOpts.connect()
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.requireAuth(); err != nil {
				return err
			}

			orders, err := c.client.Orders(cmd.Context(), args[0])
			if err != nil {
				return c.apiError("list orders", err)
			}

			if filter != "" {
				kept := orders[:0]
				for _, o := range orders {
					if search.Matches(o.CustomerPhone, filter) || search.Matches(o.ID, filter) {
						kept = append(kept, o)
					}
				}
				orders = kept
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%d order(s)", len(orders))
			for _, o := range orders {
				fmt.Fprintf(&b, "\n%s", orderLine(o))
			}
			return out.Success(orders, b.String())
		},
	}

	cmd.Flags().StringVar(&filter, "search", "", "filter by order id or customer phone")
	return cmd
}

func newOrdersGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <order-id>",
		Short:         "Show one order with its items",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			c, err := rootOpts.connect()
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.requireAuth(); err != nil {
				return err
			}

			o, err := c.client.Order(cmd.Context(), args[0])
			if err != nil {
				return c.apiError("fetch order", err)
			}
			return out.Success(o, renderOrder(o))
		},
	}
}

func newOrdersAdvanceCommand(rootOpts *RootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "advance <order-id>",
		Short: "Move an order to its next status",
		Long: `Move an order forward through its lifecycle.

Without --to, the order advances one step
(PENDING → IN_PREPARATION → READY → DELIVERING → DELIVERED). --to sets an
explicit target, including CANCELLED. The server validates the transition;
nothing is updated locally until it acknowledges.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			c, err := rootOpts.connect()
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.requireAuth(); err != nil {
				return err
			}

			target := model.OrderStatus(status)
			if status == "" {
				current, err := c.client.Order(cmd.Context(), args[0])
				if err != nil {
					return c.apiError("fetch order", err)
				}
				next, ok := current.Status.Next()
				if !ok {
					return NewExitError(ExitFailure,
						fmt.Sprintf("order %s is %s and cannot advance", current.ID, current.Status))
				}
				target = next
			} else if !model.ValidOrderStatus(target) {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown status %q", status))
			}

			o, err := c.client.SetOrderStatus(cmd.Context(), args[0], target)
			if err != nil {
				return c.apiError("update order status", err)
			}
			return out.Success(o, fmt.Sprintf("Order %s → %s", o.ID, o.Status))
		},
	}

	cmd.Flags().StringVar(&status, "to", "", "target status (default: next in lifecycle)")
	return cmd
}

func newOrdersVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	var merchantID string
	var reject bool

	cmd := &cobra.Command{
		Use:           "verify <order-id>",
		Short:         "Approve or reject an uploaded payment proof",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			c, err := rootOpts.connect()
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.requireAuth(); err != nil {
				return err
			}

			o, err := c.client.VerifyPayment(cmd.Context(), merchantID, args[0], !reject)
			if err != nil {
				return c.apiError("verify payment", err)
			}

			verdict := "verified"
			if reject {
				verdict = "rejected"
			}
			return out.Success(o, fmt.Sprintf("Payment %s for order %s", verdict, o.ID))
		},
	}

	cmd.Flags().StringVar(&merchantID, "merchant", "", "merchant id (required)")
	cmd.Flags().BoolVar(&reject, "reject", false, "reject the proof instead of approving it")
	_ = cmd.MarkFlagRequired("merchant")
	return cmd
}

func orderLine(o model.Order) string {
	line := fmt.Sprintf("%s  %-14s  %s  $%.2f", o.ID, o.Status, o.CustomerPhone, o.Total)
	switch {
	case o.PaymentVerified:
		line += "  [paid]"
	case o.AwaitingPaymentProof && o.PaymentProofURL != "":
		line += "  [proof uploaded]"
	case o.AwaitingPaymentProof:
		line += "  [awaiting proof]"
	}
	return line
}

func renderOrder(o model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s  %s\n", o.ID, o.Status)
	fmt.Fprintf(&b, "Customer: %s\n", o.CustomerPhone)
	if o.DeliveryType != "" {
		fmt.Fprintf(&b, "Delivery: %s", o.DeliveryType)
		if o.Address != "" {
			fmt.Fprintf(&b, " (%s)", o.Address)
		}
		b.WriteString("\n")
	}
	for _, item := range o.Items {
		fmt.Fprintf(&b, "  %dx %-28s $%.2f\n", item.Quantity, item.Name, item.UnitPrice)
		for _, opt := range item.Options {
			fmt.Fprintf(&b, "      + %s: %s\n", opt.Name, opt.Value)
		}
	}
	fmt.Fprintf(&b, "Total: $%.2f", o.Total)
	if o.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", o.Notes)
	}
	if o.PaymentProofURL != "" {
		fmt.Fprintf(&b, "\nProof: %s", o.PaymentProofURL)
	}
	return b.String()
}
