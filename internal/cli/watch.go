package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/libilabs/console/internal/event"
	"github.com/libilabs/console/internal/livestore"
	"github.com/libilabs/console/internal/notify"
	"github.com/libilabs/console/internal/stream"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	NoSound bool
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <merchant-id>",
		Short: "Follow a merchant's live event stream",
		Long: `Follow a merchant's orders and chat sessions live.

The current orders and sessions are fetched once over REST, then the SSE
stream keeps them reconciled: partial updates merge into the known state,
order items survive status updates, and a payment proof upload always
resets verification. Each applied event prints one line; notification
sounds follow the merchant's preferences.

Press Ctrl-C to stop. The transport reconnects on its own after drops.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.NoSound, "no-sound", false, "disable notification sounds")
	return cmd
}

func runWatch(opts *WatchOptions, merchantID string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	c, err := opts.connect()
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.requireAuth(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	merchant, err := c.client.Merchant(ctx, merchantID)
	if err != nil {
		return c.apiError("fetch merchant", err)
	}

	// Seed the live store from REST before subscribing, so the stream only
	// has to carry deltas.
	store := livestore.New(livestore.WithLogger(slog.Default()))

	orders, err := c.client.Orders(ctx, merchantID)
	if err != nil {
		return c.apiError("list orders", err)
	}
	store.SeedOrders(orders)

	sessions, err := c.client.Sessions(ctx, merchantID)
	if err != nil {
		return c.apiError("list sessions", err)
	}
	store.SeedSessions(sessions)

	out.VerboseLog("seeded %d orders, %d sessions", len(orders), len(sessions))

	var sink notify.Sink
	if !opts.NoSound && c.cfg.Sound.Enabled {
		player := notify.NewPlayer(slog.Default())
		if err := player.Unlock(); err != nil {
			// No audio device is not a reason to stop watching.
			slog.Warn("audio unavailable, sounds disabled", "error", err)
		} else {
			sink = player
		}
	}

	dispatcher := notify.NewDispatcher(sink, func(t notify.Toast) {
		if out.Format != "json" {
			fmt.Fprintf(out.Writer, "  ● %s", t.Title)
			if t.Body != "" {
				fmt.Fprintf(out.Writer, " — %s", t.Body)
			}
			fmt.Fprintln(out.Writer)
		}
	})
	dispatcher.ApplyMerchant(merchant)

	conn := stream.New(c.cfg.APIBaseURL, c.client.Token(), stream.WithLogger(slog.Default()))
	if err := conn.Connect(ctx, merchantID); err != nil {
		return WrapExitError(ExitCommandError, "failed to open stream", err)
	}
	defer conn.Disconnect()

	if out.Format != "json" {
		fmt.Fprintf(out.Writer, "Watching %s (%s). Ctrl-C to stop.\n", merchant.Name, merchantID)
	}

	// Single writer: every event is applied and announced from this loop,
	// in arrival order.
	for {
		select {
		case <-ctx.Done():
			slog.Info("watch stopped")
			return nil
		case ev := <-conn.Events():
			change := store.Apply(ev)
			dispatcher.Dispatch(ev, change)
			renderChange(out, ev, change)
		}
	}
}

// watchLine is the JSON shape of one applied event in --format json mode.
type watchLine struct {
	Kind      event.Kind `json:"kind"`
	OrderID   string     `json:"orderId,omitempty"`
	SessionID string     `json:"sessionId,omitempty"`
	Created   bool       `json:"created,omitempty"`
	Ignored   bool       `json:"ignored,omitempty"`
}

func renderChange(out *OutputFormatter, ev event.Event, change livestore.Change) {
	if out.Format == "json" {
		line := watchLine{Kind: ev.Kind, Created: change.Created, Ignored: change.Ignored}
		if change.Order != nil {
			line.OrderID = change.Order.ID
		}
		if change.Session != nil {
			line.SessionID = change.Session.ID
		}
		_ = json.NewEncoder(out.Writer).Encode(line)
		return
	}

	ts := ev.ReceivedAt.Local().Format("15:04:05")
	switch {
	case ev.Kind == event.KindConnected:
		fmt.Fprintf(out.Writer, "%s  stream connected\n", ts)
	case change.Ignored:
		out.VerboseLog("%s  %s ignored", ts, ev.Kind)
	case change.Order != nil:
		fmt.Fprintf(out.Writer, "%s  %-22s  %s\n", ts, ev.Kind, orderLine(*change.Order))
	case change.Session != nil:
		fmt.Fprintf(out.Writer, "%s  %-22s  %s\n", ts, ev.Kind, sessionLine(*change.Session))
	}
}
