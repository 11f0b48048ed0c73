package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/libilabs/console/internal/model"
	"github.com/libilabs/console/internal/search"
)

// NewSessionsCommand creates the sessions command group.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and steer chat sessions",
	}
	cmd.AddCommand(newSessionsListCommand(rootOpts))
	cmd.AddCommand(newSessionsGetCommand(rootOpts))
	cmd.AddCommand(newSessionsPauseCommand(rootOpts))
	cmd.AddCommand(newSessionsResumeCommand(rootOpts))
	return cmd
}

func newSessionsListCommand(rootOpts *RootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:           "list <merchant-id>",
		Short:         "List a merchant's chat sessions",
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

			sessions, err := c.client.Sessions(cmd.Context(), args[0])
			if err != nil {
				return c.apiError("list sessions", err)
			}

			if filter != "" {
				kept := sessions[:0]
				for _, s := range sessions {
					if search.Matches(s.CustomerPhone, filter) || search.Matches(s.ID, filter) {
						kept = append(kept, s)
					}
				}
				sessions = kept
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%d session(s)", len(sessions))
			for _, s := range sessions {
				fmt.Fprintf(&b, "\n%s", sessionLine(s))
			}
			return out.Success(sessions, b.String())
		},
	}

	cmd.Flags().StringVar(&filter, "search", "", "filter by session id or customer phone")
	return cmd
}

func newSessionsGetCommand(rootOpts *RootOptions) *cobra.Command {
	var merchantID string

	cmd := &cobra.Command{
		Use:           "get <session-id>",
		Short:         "Show one session with its message history",
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

			s, err := c.client.Session(cmd.Context(), merchantID, args[0])
			if err != nil {
				return c.apiError("fetch session", err)
			}
			return out.Success(s, renderSession(s))
		},
	}

	cmd.Flags().StringVar(&merchantID, "merchant", "", "merchant id (required)")
	_ = cmd.MarkFlagRequired("merchant")
	return cmd
}

func newSessionsPauseCommand(rootOpts *RootOptions) *cobra.Command {
	var merchantID string

	cmd := &cobra.Command{
		Use:           "pause <session-id>",
		Short:         "Take over a session (AI stops replying)",
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

			s, err := c.client.PauseSession(cmd.Context(), merchantID, args[0])
			if err != nil {
				return c.apiError("pause session", err)
			}
			return out.Success(s, fmt.Sprintf("Session %s paused, you have the conversation", s.ID))
		},
	}

	cmd.Flags().StringVar(&merchantID, "merchant", "", "merchant id (required)")
	_ = cmd.MarkFlagRequired("merchant")
	return cmd
}

func newSessionsResumeCommand(rootOpts *RootOptions) *cobra.Command {
	var merchantID string

	cmd := &cobra.Command{
		Use:           "resume <session-id>",
		Short:         "Hand a paused session back to the AI",
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

			s, err := c.client.ResumeSession(cmd.Context(), merchantID, args[0])
			if err != nil {
				return c.apiError("resume session", err)
			}
			return out.Success(s, fmt.Sprintf("Session %s resumed, AI is replying again", s.ID))
		},
	}

	cmd.Flags().StringVar(&merchantID, "merchant", "", "merchant id (required)")
	_ = cmd.MarkFlagRequired("merchant")
	return cmd
}

func sessionLine(s model.Session) string {
	line := fmt.Sprintf("%s  %-16s  %s", s.ID, s.Status, s.CustomerPhone)
	if s.ManualMode() {
		line += "  [manual]"
	}
	return line
}

func renderSession(s model.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s  %s  %s", s.ID, s.Status, s.CustomerPhone)
	if s.ManualMode() {
		b.WriteString("  [manual]")
	}
	for _, m := range s.Messages {
		fmt.Fprintf(&b, "\n[%s] %s: %s", m.CreatedAt.Format("15:04"), m.Role, m.Content)
	}
	for _, o := range s.Orders {
		fmt.Fprintf(&b, "\norder %s  %s  $%.2f", o.ID, o.Status, o.Total)
	}
	return b.String()
}
