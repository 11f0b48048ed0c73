package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/libilabs/console/internal/api"
	"github.com/libilabs/console/internal/model"
	"github.com/libilabs/console/internal/search"
)

// NewMerchantsCommand creates the merchants command group.
func NewMerchantsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchants",
		Short: "Inspect and update merchants",
	}
	cmd.AddCommand(newMerchantsListCommand(rootOpts))
	cmd.AddCommand(newMerchantsGetCommand(rootOpts))
	cmd.AddCommand(newMerchantsSetSoundCommand(rootOpts))
	return cmd
}

func newMerchantsListCommand(rootOpts *RootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List merchants (super admin)",
		Args:          cobra.NoArgs,
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

			merchants, err := c.client.Merchants(cmd.Context())
			if err != nil {
				return c.apiError("list merchants", err)
			}

			if filter != "" {
				kept := merchants[:0]
				for _, m := range merchants {
					if search.Matches(m.Name, filter) || search.Matches(m.Slug, filter) {
						kept = append(kept, m)
					}
				}
				merchants = kept
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%d merchant(s)", len(merchants))
			for _, m := range merchants {
				fmt.Fprintf(&b, "\n%s  %-24s  %s", m.ID, m.Name, m.Status)
			}
			return out.Success(merchants, b.String())
		},
	}

	cmd.Flags().StringVar(&filter, "search", "", "filter by name or slug")
	return cmd
}

func newMerchantsGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <merchant-id>",
		Short:         "Show one merchant",
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

			m, err := c.client.Merchant(cmd.Context(), args[0])
			if err != nil {
				return c.apiError("fetch merchant", err)
			}
			return out.Success(m, renderMerchant(m))
		},
	}
}

func newMerchantsSetSoundCommand(rootOpts *RootOptions) *cobra.Command {
	var enabled bool
	var volume float64

	cmd := &cobra.Command{
		Use:           "set-sound <merchant-id>",
		Short:         "Set the merchant's notification sound preferences",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			if volume < 0 || volume > 1 {
				return NewExitError(ExitCommandError, "volume must be between 0 and 1")
			}

			c, err := rootOpts.connect()
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.requireAuth(); err != nil {
				return err
			}

			update := api.MerchantUpdate{}
			if cmd.Flags().Changed("enabled") {
				update.NotificationSoundEnabled = &enabled
			}
			if cmd.Flags().Changed("volume") {
				update.NotificationSoundVolume = &volume
			}
			if update.NotificationSoundEnabled == nil && update.NotificationSoundVolume == nil {
				return NewExitError(ExitCommandError, "nothing to change (use --enabled and/or --volume)")
			}

			m, err := c.client.UpdateMerchant(cmd.Context(), args[0], update)
			if err != nil {
				return c.apiError("update merchant", err)
			}
			return out.Success(m, renderMerchant(m))
		},
	}

	cmd.Flags().BoolVar(&enabled, "enabled", true, "notification sounds on/off")
	cmd.Flags().Float64Var(&volume, "volume", 0.8, "notification volume (0..1)")
	return cmd
}

func renderMerchant(m model.Merchant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s", m.ID, m.Name, m.Status)
	if m.Address != "" {
		fmt.Fprintf(&b, "\nAddress: %s", m.Address)
	}
	if m.NotificationSoundEnabled != nil {
		fmt.Fprintf(&b, "\nSound: enabled=%v", *m.NotificationSoundEnabled)
		if m.NotificationSoundVolume != nil {
			fmt.Fprintf(&b, " volume=%.2f", *m.NotificationSoundVolume)
		}
	}
	return b.String()
}
