package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		Long: `Authenticate against the platform and persist the session token.

The password is read from stdin when --password is not given, so it stays
out of shell history:

  libi login --email ana@example.com < password.txt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runLogin(opts *LoginOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	password := opts.Password
	if password == "" {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		if !scanner.Scan() {
			return NewExitError(ExitCommandError, "no password given (use --password or stdin)")
		}
		password = strings.TrimSpace(scanner.Text())
	}
	if password == "" {
		return NewExitError(ExitCommandError, "no password given (use --password or stdin)")
	}

	c, err := opts.connect()
	if err != nil {
		return err
	}
	defer c.Close()

	res, err := c.client.Login(cmd.Context(), opts.Email, password)
	if err != nil {
		return c.apiError("log in", err)
	}
	if err := c.creds.SaveSession(res.Token, res.User); err != nil {
		return WrapExitError(ExitCommandError, "failed to persist session", err)
	}

	return out.Success(res.User, fmt.Sprintf("Logged in as %s (%s)", res.User.Email, res.User.Role))
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Drop the stored session",
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

			if err := c.creds.Clear(); err != nil {
				return WrapExitError(ExitCommandError, "failed to clear session", err)
			}
			return out.Success(nil, "Logged out")
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Show the logged-in account",
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

			// Render the cached profile first; confirm against the API so a
			// dead token surfaces here rather than mid-task.
			cached, cacheErr := c.creds.User()

			user, err := c.client.Me(cmd.Context())
			if err != nil {
				return c.apiError("fetch profile", err)
			}
			if cacheErr == nil && cached.ID != user.ID {
				out.VerboseLog("cached profile was stale, refreshing")
			}
			if err := c.creds.SaveSession(c.client.Token(), user); err != nil {
				return WrapExitError(ExitCommandError, "failed to refresh cached profile", err)
			}

			text := fmt.Sprintf("%s (%s) role=%s", user.Email, user.Name, user.Role)
			if user.MerchantID != "" {
				text += " merchant=" + user.MerchantID
			}
			return out.Success(user, text)
		},
	}
}
