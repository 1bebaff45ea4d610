// Package route turns decoded server envelopes into presenter and
// notifier actions. Each response tag has its own handler; every tag
// shares the common message, redirect, and content steps afterwards.
package route

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/sitewire/sitewire/internal/envelope"
	"github.com/sitewire/sitewire/internal/notify"
	"github.com/sitewire/sitewire/internal/present"
)

const decodeFailureMessage = "error processing server response"

type handlerFunc func(ctx context.Context, env *envelope.Envelope)

// Router dispatches envelopes by response tag.
type Router struct {
	presenter present.Presenter
	notifier  *notify.Notifier
	log       zerolog.Logger
	handlers  map[envelope.ResponseType]handlerFunc
}

// New creates a Router bound to a presenter and notifier.
func New(presenter present.Presenter, notifier *notify.Notifier, log zerolog.Logger) *Router {
	r := &Router{
		presenter: presenter,
		notifier:  notifier,
		log:       log.With().Str("component", "route").Logger(),
	}
	r.handlers = map[envelope.ResponseType]handlerFunc{
		envelope.TypeDefault:      func(ctx context.Context, env *envelope.Envelope) {},
		envelope.TypeForm:         r.handleForm,
		envelope.TypeSearch:       r.handleSearch,
		envelope.TypeNotification: r.handleNotifications,
	}
	return r
}

// Route decodes body and applies the handler for tag, then the shared
// final steps. Unknown tags fall back to the default handler. A decode
// failure or a panicking handler surfaces a single error notification
// and reports false.
func (r *Router) Route(ctx context.Context, body []byte, tag envelope.ResponseType) (handled bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("handler panicked")
			r.notifier.Notify(decodeFailureMessage, envelope.SeverityError)
			handled = false
		}
	}()

	env, err := envelope.Decode(body)
	if err != nil {
		r.log.Warn().Err(err).Msg("undecodable response body")
		r.notifier.Notify(decodeFailureMessage, envelope.SeverityError)
		return false
	}

	tag = envelope.Normalize(string(tag))
	handler, ok := r.handlers[tag]
	if !ok {
		handler = r.handlers[envelope.TypeDefault]
	}
	handler(ctx, env)
	r.finish(ctx, env)
	return true
}

// finish applies the steps every tag shares. The message notification is
// emitted before any navigation so it is observable even when the
// redirect replaces the page.
func (r *Router) finish(ctx context.Context, env *envelope.Envelope) {
	if env.Message != "" {
		r.notifier.Notify(env.Message, env.MessageSeverity())
	}
	if env.Content != "" {
		r.presenter.SwapContent(env.Content)
	}
	if env.Redirect != "" {
		r.presenter.Navigate(env.Redirect)
	}
}

// handleForm clears stale field errors, renders the new ones, and moves
// focus to the first errored field. A successful submission resets the
// form and surfaces the success message instead.
func (r *Router) handleForm(ctx context.Context, env *envelope.Envelope) {
	r.presenter.ClearFieldErrors()

	if len(env.FormErrors) > 0 {
		fields := make([]string, 0, len(env.FormErrors))
		for field := range env.FormErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			r.presenter.ShowFieldError(field, env.FormErrors[field])
		}
		r.presenter.FocusField(fields[0])
		return
	}

	if env.FormSuccess != "" {
		r.presenter.ResetForm()
		r.notifier.Notify(env.FormSuccess, envelope.SeveritySuccess)
	}
}

// handleSearch distinguishes a missing search_results key from a present
// but empty one. Only the latter renders the empty state.
func (r *Router) handleSearch(ctx context.Context, env *envelope.Envelope) {
	if !env.HasSearchResults() {
		return
	}
	if len(env.SearchResults) == 0 {
		r.presenter.RenderEmptyResults(env.SearchQuery)
		return
	}
	r.presenter.RenderSearchResults(env.SearchQuery, env.SearchResults)
}

func (r *Router) handleNotifications(ctx context.Context, env *envelope.Envelope) {
	for _, n := range env.Notifications {
		r.notifier.Notify(n.Message, n.Severity())
	}
}
