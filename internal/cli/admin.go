package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/libilabs/console/internal/model"
)

// NewLinesCommand creates the WhatsApp line admin command group.
func NewLinesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Manage WhatsApp lines (super admin)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List all WhatsApp lines",
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

			lines, err := c.client.WhatsAppLines(cmd.Context())
			if err != nil {
				return c.apiError("list lines", err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%d line(s)", len(lines))
			for _, l := range lines {
				fmt.Fprintf(&b, "\n%s  %-16s  %-24s  %s", l.ID, l.Phone, l.MerchantName, l.Status)
			}
			return out.Success(lines, b.String())
		},
	})

	var addMerchant, addPhone string
	addCmd := &cobra.Command{
		Use:           "add",
		Short:         "Register a line for a merchant",
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

			line, err := c.client.CreateWhatsAppLine(cmd.Context(), model.WhatsAppLine{
				MerchantID: addMerchant,
				Phone:      addPhone,
			})
			if err != nil {
				return c.apiError("create line", err)
			}
			return out.Success(line, fmt.Sprintf("Line %s registered for merchant %s", line.ID, line.MerchantID))
		},
	}
	addCmd.Flags().StringVar(&addMerchant, "merchant", "", "merchant id (required)")
	addCmd.Flags().StringVar(&addPhone, "phone", "", "phone number in E.164 form (required)")
	_ = addCmd.MarkFlagRequired("merchant")
	_ = addCmd.MarkFlagRequired("phone")
	cmd.AddCommand(addCmd)

	var phoneNumberID, wabaID string
	signupCmd := &cobra.Command{
		Use:           "complete-signup <line-id>",
		Short:         "Finish the Meta embedded-signup flow for a line",
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

			line, err := c.client.CompleteLineSignup(cmd.Context(), args[0], phoneNumberID, wabaID)
			if err != nil {
				return c.apiError("complete signup", err)
			}
			return out.Success(line, fmt.Sprintf("Line %s active (%s)", line.ID, line.DisplayPhoneNumber))
		},
	}
	signupCmd.Flags().StringVar(&phoneNumberID, "phone-number-id", "", "Meta phone number id (required)")
	signupCmd.Flags().StringVar(&wabaID, "waba-id", "", "WhatsApp Business Account id (required)")
	_ = signupCmd.MarkFlagRequired("phone-number-id")
	_ = signupCmd.MarkFlagRequired("waba-id")
	cmd.AddCommand(signupCmd)

	cmd.AddCommand(&cobra.Command{
		Use:           "delete <line-id>",
		Short:         "Remove a line",
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

			if err := c.client.DeleteWhatsAppLine(cmd.Context(), args[0]); err != nil {
				return c.apiError("delete line", err)
			}
			return out.Success(nil, "Line deleted")
		},
	})

	return cmd
}

// NewAccountsCommand creates the payment accounts command group.
func NewAccountsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage a merchant's payment accounts",
	}

	var listMerchant string
	listCmd := &cobra.Command{
		Use:           "list",
		Short:         "List payment accounts",
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

			accounts, err := c.client.PaymentAccounts(cmd.Context(), listMerchant)
			if err != nil {
				return c.apiError("list payment accounts", err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%d account(s)", len(accounts))
			for _, a := range accounts {
				def := ""
				if a.IsDefault {
					def = "  [default]"
				}
				fmt.Fprintf(&b, "\n%s  %-16s  %s  %s%s", a.ID, a.Bank, a.AccountNumber, a.HolderName, def)
			}
			return out.Success(accounts, b.String())
		},
	}
	listCmd.Flags().StringVar(&listMerchant, "merchant", "", "merchant id (required)")
	_ = listCmd.MarkFlagRequired("merchant")
	cmd.AddCommand(listCmd)

	var addMerchant, bank, number, holder string
	var isDefault bool
	addCmd := &cobra.Command{
		Use:           "add",
		Short:         "Add a payment account",
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

			account, err := c.client.CreatePaymentAccount(cmd.Context(), addMerchant, model.PaymentAccount{
				Bank:          bank,
				AccountNumber: number,
				HolderName:    holder,
				IsDefault:     isDefault,
			})
			if err != nil {
				return c.apiError("create payment account", err)
			}
			return out.Success(account, fmt.Sprintf("Account %s added", account.ID))
		},
	}
	addCmd.Flags().StringVar(&addMerchant, "merchant", "", "merchant id (required)")
	addCmd.Flags().StringVar(&bank, "bank", "", "bank name (required)")
	addCmd.Flags().StringVar(&number, "number", "", "account number (required)")
	addCmd.Flags().StringVar(&holder, "holder", "", "account holder name (required)")
	addCmd.Flags().BoolVar(&isDefault, "default", false, "make this the default account")
	_ = addCmd.MarkFlagRequired("merchant")
	_ = addCmd.MarkFlagRequired("bank")
	_ = addCmd.MarkFlagRequired("number")
	_ = addCmd.MarkFlagRequired("holder")
	cmd.AddCommand(addCmd)

	var delMerchant string
	delCmd := &cobra.Command{
		Use:           "delete <account-id>",
		Short:         "Remove a payment account",
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

			if err := c.client.DeletePaymentAccount(cmd.Context(), delMerchant, args[0]); err != nil {
				return c.apiError("delete payment account", err)
			}
			return out.Success(nil, "Account deleted")
		},
	}
	delCmd.Flags().StringVar(&delMerchant, "merchant", "", "merchant id (required)")
	_ = delCmd.MarkFlagRequired("merchant")
	cmd.AddCommand(delCmd)

	return cmd
}

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// NewHoursCommand creates the business hours command group.
func NewHoursCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Show and edit business hours",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "get <merchant-id>",
		Short:         "Show the weekly schedule",
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

			hours, err := c.client.BusinessHours(cmd.Context(), args[0])
			if err != nil {
				return c.apiError("fetch business hours", err)
			}

			var b strings.Builder
			for i, h := range hours {
				if i > 0 {
					b.WriteString("\n")
				}
				day := fmt.Sprintf("weekday %d", h.Weekday)
				if h.Weekday >= 0 && h.Weekday < len(weekdayNames) {
					day = weekdayNames[h.Weekday]
				}
				if h.IsClosed {
					fmt.Fprintf(&b, "%s  closed", day)
				} else {
					fmt.Fprintf(&b, "%s  %s–%s", day, h.OpensAt, h.ClosesAt)
				}
			}
			return out.Success(hours, b.String())
		},
	})

	var opens, closes string
	var closed bool
	setCmd := &cobra.Command{
		Use:           "set <merchant-id> <weekday>",
		Short:         "Set one weekday's window (0 = Sunday)",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			var weekday int
			if _, err := fmt.Sscanf(args[1], "%d", &weekday); err != nil || weekday < 0 || weekday > 6 {
				return NewExitError(ExitCommandError, "weekday must be 0..6 (0 = Sunday)")
			}

			c, err := rootOpts.connect()
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.requireAuth(); err != nil {
				return err
			}

			hours, err := c.client.BusinessHours(cmd.Context(), args[0])
			if err != nil {
				return c.apiError("fetch business hours", err)
			}

			updated := false
			for i := range hours {
				if hours[i].Weekday == weekday {
					hours[i].OpensAt = opens
					hours[i].ClosesAt = closes
					hours[i].IsClosed = closed
					updated = true
				}
			}
			if !updated {
				hours = append(hours, model.BusinessHours{
					Weekday:  weekday,
					OpensAt:  opens,
					ClosesAt: closes,
					IsClosed: closed,
				})
			}

			saved, err := c.client.SetBusinessHours(cmd.Context(), args[0], hours)
			if err != nil {
				return c.apiError("save business hours", err)
			}
			return out.Success(saved, "Business hours updated")
		},
	}
	setCmd.Flags().StringVar(&opens, "opens", "09:00", "opening time (HH:MM)")
	setCmd.Flags().StringVar(&closes, "closes", "18:00", "closing time (HH:MM)")
	setCmd.Flags().BoolVar(&closed, "closed", false, "mark the day closed")
	cmd.AddCommand(setCmd)

	return cmd
}

// NewUsersCommand creates the platform users command group.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage operator accounts (super admin)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List operator accounts",
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

			users, err := c.client.Users(cmd.Context())
			if err != nil {
				return c.apiError("list users", err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%d user(s)", len(users))
			for _, u := range users {
				fmt.Fprintf(&b, "\n%s  %-28s  %-14s  %s", u.ID, u.Email, u.Role, u.MerchantID)
			}
			return out.Success(users, b.String())
		},
	})

	var name, email, role, merchant, password string
	addCmd := &cobra.Command{
		Use:           "add",
		Short:         "Provision an operator account",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			userRole := model.UserRole(role)
			if userRole != model.RoleSuperAdmin && userRole != model.RoleMerchantAdmin {
				return NewExitError(ExitCommandError, "role must be SUPER_ADMIN or MERCHANT_ADMIN")
			}
			if userRole == model.RoleMerchantAdmin && merchant == "" {
				return NewExitError(ExitCommandError, "merchant admins need --merchant")
			}

			c, err := rootOpts.connect()
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.requireAuth(); err != nil {
				return err
			}

			user, err := c.client.CreateUser(cmd.Context(), model.User{
				Name:       name,
				Email:      email,
				Role:       userRole,
				MerchantID: merchant,
			}, password)
			if err != nil {
				return c.apiError("create user", err)
			}
			return out.Success(user, fmt.Sprintf("User %s created (%s)", user.Email, user.Role))
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "display name (required)")
	addCmd.Flags().StringVar(&email, "email", "", "email (required)")
	addCmd.Flags().StringVar(&role, "role", string(model.RoleMerchantAdmin), "SUPER_ADMIN or MERCHANT_ADMIN")
	addCmd.Flags().StringVar(&merchant, "merchant", "", "merchant id (for merchant admins)")
	addCmd.Flags().StringVar(&password, "password", "", "initial password (required)")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("email")
	_ = addCmd.MarkFlagRequired("password")
	cmd.AddCommand(addCmd)

	return cmd
}

// NewDemosCommand creates the demo request triage command group.
func NewDemosCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demos",
		Short: "Triage inbound demo requests (super admin)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List demo requests",
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

			reqs, err := c.client.DemoRequests(cmd.Context())
			if err != nil {
				return c.apiError("list demo requests", err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%d request(s)", len(reqs))
			for _, r := range reqs {
				fmt.Fprintf(&b, "\n%s  %-24s  %-28s  %s", r.ID, r.Name, r.Email, r.Status)
			}
			return out.Success(reqs, b.String())
		},
	})

	var status string
	setCmd := &cobra.Command{
		Use:           "set-status <request-id>",
		Short:         "Move a request through triage",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			target := model.DemoRequestStatus(status)
			switch target {
			case model.DemoPending, model.DemoContacted, model.DemoClosed:
			default:
				return NewExitError(ExitCommandError, "status must be PENDING, CONTACTED or CLOSED")
			}

			c, err := rootOpts.connect()
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.requireAuth(); err != nil {
				return err
			}

			req, err := c.client.SetDemoRequestStatus(cmd.Context(), args[0], target)
			if err != nil {
				return c.apiError("update demo request", err)
			}
			return out.Success(req, fmt.Sprintf("Request %s → %s", req.ID, req.Status))
		},
	}
	setCmd.Flags().StringVar(&status, "to", "", "target status (required)")
	_ = setCmd.MarkFlagRequired("to")
	cmd.AddCommand(setCmd)

	return cmd
}

// NewStatsCommand creates the dashboard stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show the dashboard summary",
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

			stats, err := c.client.Stats(cmd.Context())
			if err != nil {
				return c.apiError("fetch stats", err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "merchants: %d\norders: %d\nlines: %d",
				stats.Merchants, stats.Orders, stats.WhatsAppLines)
			statuses := make([]string, 0, len(stats.OrdersByStatus))
			for status := range stats.OrdersByStatus {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
			for _, status := range statuses {
				fmt.Fprintf(&b, "\n  %-16s %d", status, stats.OrdersByStatus[status])
			}
			return out.Success(stats, b.String())
		},
	}
}
