// Package notify emits transient user-facing notifications. A session has a
// single reusable toast surface, created lazily on first use and rewritten
// in place per message, plus an independent assistive announcement channel
// that rewrites a live text region with no explicit show step.
package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/sitewire/sitewire/internal/envelope"
	"github.com/sitewire/sitewire/internal/events"
	"github.com/sitewire/sitewire/internal/metrics"
)

// Toaster is the visible notification surface. Implementations own display
// timing (auto-dismiss after the configured duration).
type Toaster interface {
	ShowToast(message string, severity envelope.Severity)
}

// Notifier fans a notification out to the toast surface, the assistive
// live region, and the event bus.
type Notifier struct {
	mu         sync.Mutex
	toaster    Toaster
	newToaster func() Toaster

	region *LiveRegion
	bus    *events.Bus
	log    zerolog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithToasterFactory sets the factory used to create the toast surface on
// first use.
func WithToasterFactory(f func() Toaster) Option {
	return func(n *Notifier) {
		n.newToaster = f
	}
}

// New creates a Notifier publishing to the given bus.
func New(bus *events.Bus, log zerolog.Logger, opts ...Option) *Notifier {
	n := &Notifier{
		region: NewLiveRegion(),
		bus:    bus,
		log:    log.With().Str("component", "notify").Logger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify shows the message at the given severity. The toast surface is
// created on the first call and reused afterwards; the live region is
// rewritten on every call regardless of the toast state.
func (n *Notifier) Notify(message string, severity envelope.Severity) {
	if message == "" {
		return
	}
	severity = envelope.NormalizeSeverity(string(severity))

	n.mu.Lock()
	if n.toaster == nil && n.newToaster != nil {
		n.toaster = n.newToaster()
	}
	toaster := n.toaster
	n.mu.Unlock()

	if toaster != nil {
		toaster.ShowToast(message, severity)
	}
	n.region.Announce(message)

	n.log.Debug().Str("severity", string(severity)).Str("message", message).Msg("notification emitted")
	metrics.IncNotification(string(severity))

	if n.bus != nil {
		n.bus.Publish(events.Event{
			Type: events.TypeNotification,
			Data: events.NotificationShown{Message: message, Severity: string(severity)},
		})
	}
}

// Region returns the assistive live region.
func (n *Notifier) Region() *LiveRegion {
	return n.region
}
