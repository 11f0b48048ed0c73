package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/libilabs/console/internal/menuimport"
	"github.com/libilabs/console/internal/model"
)

// NewMenuCommand creates the menu command group.
func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Inspect, validate and publish menus",
	}
	cmd.AddCommand(newMenuShowCommand(rootOpts))
	cmd.AddCommand(newMenuToggleCommand(rootOpts))
	cmd.AddCommand(newMenuValidateCommand(rootOpts))
	cmd.AddCommand(newMenuPublishCommand(rootOpts))
	cmd.AddCommand(newMenuImportCommand(rootOpts))
	return cmd
}

func newMenuShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <merchant-id>",
		Short:         "Show the merchant's published menu",
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

			menu, err := c.client.Menu(cmd.Context(), args[0])
			if err != nil {
				return c.apiError("fetch menu", err)
			}
			return out.Success(menu, renderMenu(menu))
		},
	}
}

func newMenuToggleCommand(rootOpts *RootOptions) *cobra.Command {
	var merchantID string

	cmd := &cobra.Command{
		Use:           "toggle <item-id>",
		Short:         "Flip a menu item's availability",
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

			item, err := c.client.ToggleItemAvailability(cmd.Context(), merchantID, args[0])
			if err != nil {
				return c.apiError("toggle availability", err)
			}

			state := "unavailable"
			if item.IsAvailable {
				state = "available"
			}
			return out.Success(item, fmt.Sprintf("%s is now %s", item.Name, state))
		},
	}

	cmd.Flags().StringVar(&merchantID, "merchant", "", "merchant id (required)")
	_ = cmd.MarkFlagRequired("merchant")
	return cmd
}

func newMenuValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <menu-file>",
		Short: "Validate a local menu file",
		Long: `Validate a YAML or JSON menu file against the menu schema.

All violations are reported in one pass. Exit code 1 means the file is
invalid; the file is never uploaded.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			menu, err := menuimport.Load(args[0])
			if err != nil {
				var verr *menuimport.ValidationError
				if errors.As(err, &verr) {
					_ = out.Error("invalid_input", strings.Join(verr.Issues, "\n"))
					return NewExitError(ExitFailure, fmt.Sprintf("%d issue(s) found", len(verr.Issues)))
				}
				return WrapExitError(ExitCommandError, "failed to read menu file", err)
			}

			text := fmt.Sprintf("OK: %d categories, %d items",
				len(menu.Categories), menuimport.ItemCount(menu))
			return out.Success(menu, text)
		},
	}
}

func newMenuPublishCommand(rootOpts *RootOptions) *cobra.Command {
	var merchantID string

	cmd := &cobra.Command{
		Use:           "publish <menu-file>",
		Short:         "Validate a local menu file and publish it",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			menu, err := menuimport.Load(args[0])
			if err != nil {
				var verr *menuimport.ValidationError
				if errors.As(err, &verr) {
					_ = out.Error("invalid_input", strings.Join(verr.Issues, "\n"))
					return NewExitError(ExitFailure, fmt.Sprintf("%d issue(s) found", len(verr.Issues)))
				}
				return WrapExitError(ExitCommandError, "failed to read menu file", err)
			}

			c, err := rootOpts.connect()
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.requireAuth(); err != nil {
				return err
			}

			published, err := c.client.PublishMenu(cmd.Context(), merchantID, menu)
			if err != nil {
				return c.apiError("publish menu", err)
			}
			text := fmt.Sprintf("Published %d categories, %d items",
				len(published.Categories), menuimport.ItemCount(published))
			return out.Success(published, text)
		},
	}

	cmd.Flags().StringVar(&merchantID, "merchant", "", "merchant id (required)")
	_ = cmd.MarkFlagRequired("merchant")
	return cmd
}

func newMenuImportCommand(rootOpts *RootOptions) *cobra.Command {
	var merchantID string

	cmd := &cobra.Command{
		Use:   "import <source-file>...",
		Short: "Extract a menu from photos or documents",
		Long: `Upload menu source files (photos, PDFs) and let the platform extract a
structured menu from them. The extracted preview is shown; publish it with
'libi menu publish' after review.`,
		Args:          cobra.MinimumNArgs(1),
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

			var uploadIDs []string
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to open source file", err)
				}
				up, err := c.client.UploadMenuSource(cmd.Context(), merchantID, path, f)
				f.Close()
				if err != nil {
					return c.apiError("upload menu source", err)
				}
				out.VerboseLog("uploaded %s as %s", path, up.ID)
				uploadIDs = append(uploadIDs, up.ID)
			}

			res, err := c.client.ProcessMenuImport(cmd.Context(), merchantID, uploadIDs)
			if err != nil {
				return c.apiError("process menu import", err)
			}

			var b strings.Builder
			if res.Preview != nil {
				b.WriteString(renderMenu(*res.Preview))
			} else {
				b.WriteString("No menu could be extracted")
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(&b, "\nwarning: %s", w)
			}
			return out.Success(res, b.String())
		},
	}

	cmd.Flags().StringVar(&merchantID, "merchant", "", "merchant id (required)")
	_ = cmd.MarkFlagRequired("merchant")
	return cmd
}

func renderMenu(menu model.Menu) string {
	var b strings.Builder
	for i, cat := range menu.Categories {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n", cat.Name)
		for _, item := range cat.Items {
			marker := " "
			if !item.IsAvailable {
				marker = "✗"
			}
			fmt.Fprintf(&b, " %s %-30s $%.2f", marker, item.Name, item.Price)
			if item.ID != "" {
				fmt.Fprintf(&b, "  (%s)", item.ID)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
