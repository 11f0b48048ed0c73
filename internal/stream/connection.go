package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	sse "github.com/r3labs/sse/v2"
	backoff "gopkg.in/cenkalti/backoff.v1"

	"github.com/libilabs/console/internal/event"
)

// Connection manages one live SSE subscription per active merchant.
//
// Thread-safety model:
//   - Connect / Disconnect / State / MerchantID: safe from any goroutine
//   - Events(): single consumer expected (the watch dispatch loop)
//
// The event channel is owned by the Connection and survives transport
// reconnects; it is never closed, consumers stop via their own context.
type Connection struct {
	mu         sync.Mutex
	baseURL    string
	token      string
	logger     *slog.Logger
	now        func() time.Time
	state      State
	merchantID string
	cancel     context.CancelFunc

	events chan event.Event
}

// Option configures a Connection.
type Option func(*Connection)

// WithLogger sets the logger for transport and decode diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Connection) { c.logger = l }
}

// WithClock overrides the receive-timestamp clock (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Connection) { c.now = now }
}

// New creates an idle connection for the given API base URL and bearer token.
//
// The token is later passed as a query parameter on the stream URL: the
// EventSource-style transport cannot set custom headers, so the Authorization
// header is not an option here.
func New(baseURL, token string, opts ...Option) *Connection {
	c := &Connection{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  slog.Default(),
		now:     time.Now,
		state:   StateIdle,
		events:  make(chan event.Event, 256),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events returns the typed event channel fed by the subscription.
func (c *Connection) Events() <-chan event.Event {
	return c.events
}

// State returns the current connection state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// MerchantID returns the merchant this connection is associated with,
// or "" when disconnected.
func (c *Connection) MerchantID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.merchantID
}

// Connect opens the stream for merchantID.
//
// Idempotent while open: connecting to the same merchant again is a no-op.
// Connecting to a different merchant closes the existing subscription first;
// at most one subscription is open at any time.
//
// Connect returns once the subscription goroutine is started; it does not
// wait for the handshake. The server is expected to send a `connected`
// acknowledgment first, but the connection is marked open on transport
// connect, so application events arriving before the acknowledgment are
// handled correctly.
func (c *Connection) Connect(ctx context.Context, merchantID string) error {
	if merchantID == "" {
		return fmt.Errorf("stream: merchant id is required")
	}

	c.mu.Lock()
	if c.state == StateOpen && c.merchantID == merchantID {
		c.mu.Unlock()
		c.logger.Debug("already connected", "merchant_id", merchantID)
		return nil
	}

	c.closeLocked()
	c.merchantID = merchantID
	c.state = StateConnecting

	streamURL := fmt.Sprintf("%s/merchants/%s/stream?token=%s",
		c.baseURL, url.PathEscape(merchantID), url.QueryEscape(c.token))

	client := sse.NewClient(streamURL)

	// Reconnection belongs to the transport. Unbounded exponential backoff:
	// no retry policy is layered above it.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0
	client.ReconnectStrategy = bo

	subCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	// A replaced subscription can still fire late transport callbacks;
	// guard every callback on its own context.
	client.OnConnect(func(*sse.Client) {
		if subCtx.Err() != nil {
			return
		}
		c.setState(StateOpen)
		c.logger.Info("stream connected", "merchant_id", merchantID)
	})
	client.OnDisconnect(func(*sse.Client) {
		if subCtx.Err() != nil {
			return
		}
		c.setState(StateErroring)
		c.logger.Warn("stream disconnected, transport will retry", "merchant_id", merchantID)
	})

	go func() {
		err := client.SubscribeRawWithContext(subCtx, func(msg *sse.Event) {
			c.dispatch(subCtx, msg)
		})
		if err != nil && subCtx.Err() == nil {
			c.setState(StateErroring)
			c.logger.Error("stream subscription failed", "merchant_id", merchantID, "error", err)
		}
	}()

	return nil
}

// Disconnect closes the subscription and clears the merchant association.
// Idempotent; in-flight REST calls are deliberately not cancelled.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	c.merchantID = ""
}

// closeLocked cancels any active subscription and moves to Closed.
// Caller must hold c.mu.
func (c *Connection) closeLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
		c.logger.Debug("stream closed", "merchant_id", c.merchantID)
	}
	c.state = StateClosed
}

func (c *Connection) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A cancelled subscription may still deliver a late transport callback;
	// Closed is sticky until the next Connect.
	if c.state == StateClosed {
		return
	}
	c.state = s
}

// dispatch decodes one wire event and forwards it to the event channel.
//
// Decode failures drop the single event and leave the subscription open.
// The forward blocks when the consumer lags (bounded by the channel buffer)
// and gives up when the subscription context ends.
func (c *Connection) dispatch(ctx context.Context, msg *sse.Event) {
	if ctx.Err() != nil {
		return
	}
	name := string(msg.Event)
	ev, err := event.Decode(name, msg.Data, c.now().UTC())
	if err != nil {
		c.logger.Warn("dropping malformed event", "event", name, "error", err)
		return
	}

	// Open-state correctness: an application event arriving before the
	// `connected` acknowledgment still proves the stream is live.
	c.setState(StateOpen)

	if ev.Kind == event.KindConnected {
		c.logger.Debug("stream acknowledgment received", "data", string(msg.Data))
	}

	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}
