// Package dispatch issues the background HTTP requests behind site
// interactions: speculative GETs for prefetch, JSON POST/PUT for form
// submission, and the JSON flows for search and notifications. Every
// request runs through one lifecycle that always reaches a terminal state,
// and every failure is normalized into a single notification and broadcast
// path.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/sitewire/sitewire/internal/cache"
	"github.com/sitewire/sitewire/internal/envelope"
	"github.com/sitewire/sitewire/internal/events"
	"github.com/sitewire/sitewire/internal/metrics"
	"github.com/sitewire/sitewire/internal/notify"
)

// ErrEmptyURL is returned when a request has no destination.
var ErrEmptyURL = errors.New("request URL is required")

// errorExcerptLen bounds how much of a non-JSON error body is surfaced to
// the user.
const errorExcerptLen = 100

// maxBodyBytes bounds response reads.
const maxBodyBytes = 4 << 20

// StatusError reports a non-2xx response.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// ResponseHandler routes a parsed JSON body. The session wires the response
// router in here; dispatch stays unaware of handler internals.
type ResponseHandler interface {
	Route(ctx context.Context, body []byte, tag envelope.ResponseType) bool
}

// Options control how a single request is dispatched and handled.
type Options struct {
	// JSON marks the response as a JSON envelope to be routed. Without it
	// the body is treated as page content (prefetch/load).
	JSON bool
	// ResponseType refines JSON routing: form, search, notification, or
	// default.
	ResponseType envelope.ResponseType
	// SkipHandling opts out of forwarding the body to the response router.
	SkipHandling bool
	// NoCache forces a network fetch and keeps the response out of the
	// cache. Form submissions always set it.
	NoCache bool
}

// Request is a single dispatchable request.
type Request struct {
	// URL is required and non-empty.
	URL string
	// Method defaults to POST.
	Method string
	// Payload is JSON-serialized into the request body when non-nil.
	Payload any
	Options Options
}

// Result is the outcome of a dispatched request.
type Result struct {
	RequestID   string
	StatusCode  int
	ContentType string
	Body        []byte
	FromCache   bool
	Handled     bool
	Took        time.Duration
}

// Dispatcher issues requests against the site.
type Dispatcher struct {
	client   *http.Client
	cache    cache.Cache
	notifier *notify.Notifier
	bus      *events.Bus
	state    *State
	handler  ResponseHandler
	log      zerolog.Logger

	userAgent string
	enrich    func(*cache.Entry)
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) DispatcherOption {
	return func(d *Dispatcher) {
		d.client = client
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) DispatcherOption {
	return func(d *Dispatcher) {
		d.userAgent = ua
	}
}

// WithEntryEnricher installs a hook that annotates cache entries (page
// title extraction and similar) before they are stored.
func WithEntryEnricher(f func(*cache.Entry)) DispatcherOption {
	return func(d *Dispatcher) {
		d.enrich = f
	}
}

// New creates a Dispatcher.
func New(c cache.Cache, notifier *notify.Notifier, bus *events.Bus, handler ResponseHandler, log zerolog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		client:   &http.Client{Timeout: 15 * time.Second},
		cache:    c,
		notifier: notifier,
		bus:      bus,
		state:    NewState(),
		handler:  handler,
		log:      log.With().Str("component", "dispatch").Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State exposes the lifecycle tracker.
func (d *Dispatcher) State() *State {
	return d.state
}

// Send dispatches the request. Cached GETs return the stored entry without
// a network call; otherwise the request runs one full lifecycle and, for
// JSON responses, the parsed body is forwarded to the response router
// unless handling was opted out.
func (d *Dispatcher) Send(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrEmptyURL
	}
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	// Prefetch semantics: a cached GET never hits the network.
	if method == http.MethodGet && !req.Options.NoCache {
		if entry, ok := d.cache.Get(ctx, req.URL); ok {
			metrics.IncCacheHit()
			d.log.Debug().Str("url", req.URL).Msg("served from cache")
			return &Result{
				StatusCode:  entry.StatusCode,
				ContentType: entry.ContentType,
				Body:        entry.Body,
				FromCache:   true,
			}, nil
		}
		metrics.IncCacheMiss()
	}

	id := xid.New().String()
	start := time.Now()
	terminal := StateError
	d.state.Begin(id)
	defer func() {
		// The lifecycle always terminates, on both paths.
		d.state.Finish(id, terminal)
		metrics.ObserveRequest(method, string(terminal), time.Since(start))
	}()

	body, contentType, status, err := d.do(ctx, method, req)
	if err != nil {
		msg := d.failureMessage(body, err)
		d.notifier.Notify(msg, envelope.SeverityError)
		d.bus.Publish(events.Event{
			Type: events.TypeRequestFailed,
			Data: events.RequestFailed{
				RequestID: id,
				URL:       req.URL,
				Method:    method,
				Status:    status,
				Error:     msg,
			},
		})
		d.log.Warn().Str("url", req.URL).Int("status", status).Err(err).Msg("request failed")
		return nil, err
	}

	terminal = StateSuccess

	if method == http.MethodGet && !req.Options.NoCache {
		entry := &cache.Entry{
			URL:         req.URL,
			StatusCode:  status,
			ContentType: contentType,
			Body:        body,
			StoredAt:    time.Now(),
		}
		if d.enrich != nil {
			d.enrich(entry)
		}
		d.cache.Set(ctx, req.URL, entry)
	}

	result := &Result{
		RequestID:   id,
		StatusCode:  status,
		ContentType: contentType,
		Body:        body,
		Took:        time.Since(start),
	}

	if req.Options.JSON && !req.Options.SkipHandling && d.handler != nil {
		result.Handled = d.handler.Route(ctx, body, req.Options.ResponseType)
		d.bus.Publish(events.Event{
			Type: events.TypeResponseHandled,
			Data: events.ResponseHandled{
				RequestID:    id,
				URL:          req.URL,
				Method:       method,
				ResponseType: string(envelope.Normalize(string(req.Options.ResponseType))),
				Body:         json.RawMessage(body),
			},
		})
	}

	return result, nil
}

// do performs the HTTP exchange. On a non-2xx response it returns the read
// body together with a StatusError so the caller can extract a message.
func (d *Dispatcher) do(ctx context.Context, method string, req Request) (body []byte, contentType string, status int, err error) {
	var payload io.Reader
	if req.Payload != nil {
		data, merr := json.Marshal(req.Payload)
		if merr != nil {
			return nil, "", 0, fmt.Errorf("encode payload: %w", merr)
		}
		payload = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, payload)
	if err != nil {
		return nil, "", 0, fmt.Errorf("build request: %w", err)
	}
	if d.userAgent != "" {
		httpReq.Header.Set("User-Agent", d.userAgent)
	}
	// The background-request marker the site's views key off.
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	if req.Payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Options.JSON {
		httpReq.Header.Set("Accept", "application/json")
	} else {
		httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, "", 0, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", resp.StatusCode, err
	}

	contentType = normalizeContentType(resp.Header.Get("Content-Type"))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, contentType, resp.StatusCode, &StatusError{Status: resp.StatusCode, Message: resp.Status}
	}
	return body, contentType, resp.StatusCode, nil
}

// failureMessage extracts a user-facing message from a failed request:
// a JSON {message} body when possible, otherwise a truncated excerpt of the
// raw body, otherwise the transport error itself.
func (d *Dispatcher) failureMessage(body []byte, err error) string {
	if len(body) > 0 {
		if env, derr := envelope.Decode(body); derr == nil && env.Message != "" {
			return env.Message
		}
		return truncate(strings.TrimSpace(string(body)), errorExcerptLen)
	}
	return truncate(err.Error(), errorExcerptLen)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

func normalizeContentType(value string) string {
	if value == "" {
		return "application/octet-stream"
	}
	parts := strings.Split(value, ";")
	return strings.TrimSpace(parts[0])
}
