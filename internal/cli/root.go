package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/libilabs/console/internal/api"
	"github.com/libilabs/console/internal/config"
	"github.com/libilabs/console/internal/credstore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the Libi console.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "libi",
		Short: "Libi merchant console",
		Long: `Operator console for the Libi WhatsApp ordering platform.

Log in once, then inspect orders, chat sessions, and menus, or run
'libi watch' to follow a merchant's live event stream.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.libi/config.yaml)")

	// Add subcommands
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewMerchantsCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewSessionsCommand(opts))
	cmd.AddCommand(NewMenuCommand(opts))
	cmd.AddCommand(NewLinesCommand(opts))
	cmd.AddCommand(NewAccountsCommand(opts))
	cmd.AddCommand(NewHoursCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewDemosCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func configureLogging(verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// formatter builds the output formatter bound to the command's writers.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// console bundles the per-invocation dependencies: loaded config, the local
// credential store, and an API client carrying the restored token.
type console struct {
	cfg    config.Config
	creds  *credstore.Store
	client *api.Client
}

// connect loads config and opens the credential store. It does not require
// a stored session; commands that do call requireAuth.
func (opts *RootOptions) connect() (*console, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	creds, err := credstore.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open state database", err)
	}

	client := api.NewClient(cfg.APIBaseURL)
	if token, err := creds.Token(); err == nil {
		client.SetToken(token)
	}

	return &console{cfg: cfg, creds: creds, client: client}, nil
}

func (c *console) Close() {
	if err := c.creds.Close(); err != nil {
		slog.Error("error closing state database", "error", err)
	}
}

// requireAuth fails fast when no session is stored.
func (c *console) requireAuth() error {
	if c.client.Token() == "" {
		return NewExitError(ExitCommandError, "not logged in (run: libi login)")
	}
	return nil
}

// apiError maps an API failure to an exit error. A 401 also drops the
// stored session so the next command prompts for login instead of retrying
// a dead token.
func (c *console) apiError(action string, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		if clearErr := c.creds.Clear(); clearErr != nil {
			slog.Error("error clearing stored session", "error", clearErr)
		}
		return WrapExitError(ExitFailure, "session expired, logged out (run: libi login)", err)
	}
	return WrapExitError(ExitFailure, "failed to "+action, err)
}
