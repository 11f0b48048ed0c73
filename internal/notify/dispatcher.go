package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/libilabs/console/internal/event"
	"github.com/libilabs/console/internal/livestore"
	"github.com/libilabs/console/internal/model"
)

// Toast is one operator-facing notification.
type Toast struct {
	ID        string     `json:"id"`
	Kind      event.Kind `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Defaults used when the merchant profile does not carry sound preferences.
const (
	defaultSoundEnabled = true
	defaultVolume       = 0.8
)

// Dispatcher maps applied stream events to toasts and tones.
type Dispatcher struct {
	logger *slog.Logger
	sink   Sink
	show   func(Toast)
	now    func() time.Time
	newID  func() string

	mu           sync.Mutex
	soundEnabled bool
	volume       float64
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// WithClock overrides the toast timestamp clock (tests).
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

// WithIDGenerator overrides toast id generation (tests).
func WithIDGenerator(gen func() string) DispatcherOption {
	return func(d *Dispatcher) { d.newID = gen }
}

// NewDispatcher wires a sink and a toast callback. Either may be nil, in
// which case that output channel is skipped.
func NewDispatcher(sink Sink, show func(Toast), opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		logger:       slog.Default(),
		sink:         sink,
		show:         show,
		now:          time.Now,
		newID:        uuid.NewString,
		soundEnabled: defaultSoundEnabled,
		volume:       defaultVolume,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ApplyMerchant updates the sound preferences from the merchant profile.
// Absent preferences keep the defaults rather than muting the console.
func (d *Dispatcher) ApplyMerchant(m model.Merchant) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.soundEnabled = defaultSoundEnabled
	d.volume = defaultVolume
	if m.NotificationSoundEnabled != nil {
		d.soundEnabled = *m.NotificationSoundEnabled
	}
	if m.NotificationSoundVolume != nil {
		d.volume = *m.NotificationSoundVolume
	}
}

// Dispatch announces one applied event. Called from the single watch loop
// after the store has applied the event; changes the store ignored are
// never announced.
//
// Assistant and system chat messages are intentionally silent: the operator
// only needs to hear from the customer.
func (d *Dispatcher) Dispatch(ev event.Event, ch livestore.Change) {
	if ch.Ignored {
		return
	}

	var title, body string
	switch ev.Kind {
	case event.KindOrderCreated:
		title = "New order"
		body = orderLine(ch.Order)
	case event.KindOrderUpdated:
		title = "Order updated"
		body = orderLine(ch.Order)
	case event.KindPaymentVerified:
		title = "Payment verified"
		body = orderLine(ch.Order)
	case event.KindPaymentProofUploaded:
		title = "Payment proof uploaded"
		body = orderLine(ch.Order)
	case event.KindSessionCreated:
		title = "New conversation"
		if ch.Session != nil {
			body = ch.Session.CustomerPhone
		}
	case event.KindMessageReceived:
		if ch.Message == nil || ch.Message.Role != model.RoleUser {
			return
		}
		title = "New message"
		body = ch.Message.Content
	default:
		// session_updated and the connection acknowledgment are routine
		// churn, not worth an announcement.
		return
	}

	d.toast(ev.Kind, title, body)
	d.sound(ev.Kind)
}

func (d *Dispatcher) toast(kind event.Kind, title, body string) {
	if d.show == nil {
		return
	}
	d.show(Toast{
		ID:        d.newID(),
		Kind:      kind,
		Title:     title,
		Body:      body,
		CreatedAt: d.now().UTC(),
	})
}

func (d *Dispatcher) sound(kind event.Kind) {
	if d.sink == nil {
		return
	}
	d.mu.Lock()
	enabled, volume := d.soundEnabled, d.volume
	d.mu.Unlock()
	if !enabled {
		return
	}
	spec, ok := ToneFor(kind)
	if !ok {
		return
	}
	if err := d.sink.Play(Synthesize(spec, volume)); err != nil {
		d.logger.Warn("notification sound failed", "event", kind, "error", err)
	}
}

func orderLine(o *model.Order) string {
	if o == nil {
		return ""
	}
	return fmt.Sprintf("#%s · %s · $%.2f", o.ID, o.CustomerPhone, o.Total)
}
