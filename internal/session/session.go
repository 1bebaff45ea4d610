// Package session assembles the full interaction stack for one site:
// cache, dispatcher, response router, notifier, presenter, and event
// bus, bound to the endpoints in the loaded configuration.
package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitewire/sitewire/internal/cache"
	"github.com/sitewire/sitewire/internal/chrome"
	"github.com/sitewire/sitewire/internal/config"
	"github.com/sitewire/sitewire/internal/dispatch"
	"github.com/sitewire/sitewire/internal/envelope"
	"github.com/sitewire/sitewire/internal/events"
	"github.com/sitewire/sitewire/internal/notify"
	"github.com/sitewire/sitewire/internal/present"
	"github.com/sitewire/sitewire/internal/route"
)

// Session is a ready-to-use interaction stack for a single site.
type Session struct {
	cfg        *config.Config
	bus        *events.Bus
	cache      cache.Cache
	notifier   *notify.Notifier
	presenter  present.Presenter
	router     *route.Router
	dispatcher *dispatch.Dispatcher
	chrome     *chrome.Service
	log        zerolog.Logger
}

// Option configures a Session before wiring.
type Option func(*options)

type options struct {
	presenter present.Presenter
	toaster   func() notify.Toaster
	client    *http.Client
}

// WithPresenter replaces the default terminal presenter.
func WithPresenter(p present.Presenter) Option {
	return func(o *options) {
		o.presenter = p
	}
}

// WithToasterFactory replaces the default terminal toast surface.
func WithToasterFactory(f func() notify.Toaster) Option {
	return func(o *options) {
		o.toaster = f
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// New wires a Session from the given configuration.
func New(cfg *config.Config, log zerolog.Logger, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.presenter == nil {
		o.presenter = present.NewTerminal(os.Stdout, cfg.Site.ReducedMotion)
	}
	if o.toaster == nil {
		o.toaster = func() notify.Toaster {
			return notify.NewTerminalToaster(os.Stderr, false)
		}
	}
	if o.client == nil {
		timeout := cfg.Site.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		o.client = &http.Client{Timeout: timeout}
	}

	bus := events.NewBus()
	notifier := notify.New(bus, log, notify.WithToasterFactory(o.toaster))
	router := route.New(o.presenter, notifier, log)

	store := cache.NewMemory(cfg.Cache.MaxEntries)
	dispatchOpts := []dispatch.DispatcherOption{
		dispatch.WithHTTPClient(o.client),
		dispatch.WithEntryEnricher(chrome.EntryEnricher()),
	}
	if cfg.Site.UserAgent != "" {
		dispatchOpts = append(dispatchOpts, dispatch.WithUserAgent(cfg.Site.UserAgent))
	}
	dispatcher := dispatch.New(store, notifier, bus, router, log, dispatchOpts...)

	return &Session{
		cfg:        cfg,
		bus:        bus,
		cache:      store,
		notifier:   notifier,
		presenter:  o.presenter,
		router:     router,
		dispatcher: dispatcher,
		chrome:     chrome.NewService(dispatcher, cfg.Endpoint(cfg.Site.ChromePath)),
		log:        log.With().Str("component", "session").Logger(),
	}, nil
}

// Bus returns the session event bus.
func (s *Session) Bus() *events.Bus {
	return s.bus
}

// Notifier returns the session notifier.
func (s *Session) Notifier() *notify.Notifier {
	return s.notifier
}

// Dispatcher returns the underlying request dispatcher.
func (s *Session) Dispatcher() *dispatch.Dispatcher {
	return s.dispatcher
}

// Cache returns the session response cache.
func (s *Session) Cache() cache.Cache {
	return s.cache
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Prefetch warms the cache for a page URL without routing the response.
// Repeated prefetches of the same URL are free.
func (s *Session) Prefetch(ctx context.Context, pageURL string) (*dispatch.Result, error) {
	return s.dispatcher.Send(ctx, dispatch.Request{
		URL:     s.cfg.Endpoint(pageURL),
		Method:  http.MethodGet,
		Options: dispatch.Options{SkipHandling: true},
	})
}

// Load fetches a page and renders it. JSON responses are routed as a
// default envelope so content swaps and redirects apply; anything else
// is swapped in as-is. Cached pages render without a network round
// trip.
func (s *Session) Load(ctx context.Context, pageURL string) (*dispatch.Result, error) {
	result, err := s.dispatcher.Send(ctx, dispatch.Request{
		URL:     s.cfg.Endpoint(pageURL),
		Method:  http.MethodGet,
		Options: dispatch.Options{SkipHandling: true},
	})
	if err != nil {
		return nil, err
	}
	if strings.Contains(result.ContentType, "json") {
		result.Handled = s.router.Route(ctx, result.Body, envelope.TypeDefault)
		return result, nil
	}
	s.presenter.SwapContent(string(result.Body))
	return result, nil
}

// SubmitForm posts form field values to the configured form endpoint and
// routes the response as a form envelope.
func (s *Session) SubmitForm(ctx context.Context, formID string, fields map[string]string) (*dispatch.Result, error) {
	if formID == "" {
		return nil, fmt.Errorf("form id is required")
	}
	payload := map[string]any{"form_id": formID, "fields": fields}
	return s.dispatcher.Send(ctx, dispatch.Request{
		URL:     s.cfg.Endpoint(s.cfg.Site.FormPath),
		Method:  http.MethodPost,
		Payload: payload,
		Options: dispatch.Options{
			JSON:         true,
			ResponseType: envelope.TypeForm,
			NoCache:      true,
		},
	})
}

// Search queries the configured search endpoint and routes the response
// as a search envelope.
func (s *Session) Search(ctx context.Context, query string) (*dispatch.Result, error) {
	endpoint := s.cfg.Endpoint(s.cfg.Site.SearchPath)
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("search endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	return s.dispatcher.Send(ctx, dispatch.Request{
		URL:    u.String(),
		Method: http.MethodGet,
		Options: dispatch.Options{
			JSON:         true,
			ResponseType: envelope.TypeSearch,
			NoCache:      true,
		},
	})
}

// PollNotifications fetches pending notifications and routes them, which
// surfaces each entry through the notifier in server order.
func (s *Session) PollNotifications(ctx context.Context) (*dispatch.Result, error) {
	return s.dispatcher.Send(ctx, dispatch.Request{
		URL:    s.cfg.Endpoint(s.cfg.Site.NotificationsPath),
		Method: http.MethodGet,
		Options: dispatch.Options{
			JSON:         true,
			ResponseType: envelope.TypeNotification,
			NoCache:      true,
		},
	})
}

// Chrome loads the site navbar and favicon snippets.
func (s *Session) Chrome(ctx context.Context) (*chrome.Chrome, error) {
	return s.chrome.Load(ctx)
}
