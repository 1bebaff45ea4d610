package route

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sitewire/sitewire/internal/envelope"
	"github.com/sitewire/sitewire/internal/events"
	"github.com/sitewire/sitewire/internal/notify"
	"github.com/sitewire/sitewire/internal/present"
)

type recordedToast struct {
	Message  string
	Severity envelope.Severity
}

type recordingToaster struct {
	mu     sync.Mutex
	toasts []recordedToast
}

func (r *recordingToaster) ShowToast(message string, severity envelope.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, recordedToast{message, severity})
}

func (r *recordingToaster) all() []recordedToast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedToast(nil), r.toasts...)
}

func newTestRouter(t *testing.T) (*Router, *present.Capture, *recordingToaster) {
	t.Helper()
	toaster := &recordingToaster{}
	notifier := notify.New(events.NewBus(), zerolog.Nop(),
		notify.WithToasterFactory(func() notify.Toaster { return toaster }))
	capture := present.NewCapture()
	return New(capture, notifier, zerolog.Nop()), capture, toaster
}

func TestRouteUndecodableBody(t *testing.T) {
	r, _, toaster := newTestRouter(t)

	if r.Route(context.Background(), []byte("<html>oops</html>"), envelope.TypeDefault) {
		t.Error("undecodable body must not be handled")
	}

	toasts := toaster.all()
	if len(toasts) != 1 || toasts[0].Message != "error processing server response" {
		t.Errorf("toasts = %+v", toasts)
	}
	if toasts[0].Severity != envelope.SeverityError {
		t.Errorf("severity = %q", toasts[0].Severity)
	}
}

func TestRouteDefaultMessageBeforeRedirect(t *testing.T) {
	r, capture, toaster := newTestRouter(t)

	body := []byte(`{"message": "Thank you", "success": true, "redirect": "/thanks/"}`)
	if !r.Route(context.Background(), body, envelope.TypeDefault) {
		t.Fatal("route failed")
	}

	toasts := toaster.all()
	if len(toasts) != 1 || toasts[0].Message != "Thank you" || toasts[0].Severity != envelope.SeveritySuccess {
		t.Errorf("toasts = %+v", toasts)
	}
	if capture.NavigatedTo != "/thanks/" {
		t.Errorf("navigated = %q", capture.NavigatedTo)
	}
}

func TestRouteDefaultContentSwap(t *testing.T) {
	r, capture, _ := newTestRouter(t)

	body := []byte(`{"content": "<section>Updated</section>"}`)
	if !r.Route(context.Background(), body, envelope.TypeDefault) {
		t.Fatal("route failed")
	}
	if capture.Content != "<section>Updated</section>" {
		t.Errorf("content = %q", capture.Content)
	}
}

func TestRouteUnknownTagFallsBackToDefault(t *testing.T) {
	r, _, toaster := newTestRouter(t)

	body := []byte(`{"message": "hello"}`)
	if !r.Route(context.Background(), body, envelope.ResponseType("mystery")) {
		t.Fatal("route failed")
	}
	if toasts := toaster.all(); len(toasts) != 1 || toasts[0].Message != "hello" {
		t.Errorf("toasts = %+v", toasts)
	}
}

func TestRouteFormErrors(t *testing.T) {
	r, capture, _ := newTestRouter(t)

	body := []byte(`{"form_errors": {"email": "Enter a valid email address", "amount": "Required"}}`)
	if !r.Route(context.Background(), body, envelope.TypeForm) {
		t.Fatal("route failed")
	}

	want := []string{
		"clear_field_errors",
		"field_error:amount",
		"field_error:email",
		"focus:amount",
	}
	if !reflect.DeepEqual(capture.Ops, want) {
		t.Errorf("ops = %v, want %v", capture.Ops, want)
	}
	if capture.FocusedField != "amount" {
		t.Errorf("focused = %q", capture.FocusedField)
	}
	if capture.FormWasReset {
		t.Error("form must not reset on validation errors")
	}
}

func TestRouteFormSuccessResetsAndNotifies(t *testing.T) {
	r, capture, toaster := newTestRouter(t)

	body := []byte(`{"form_success": "Subscribed to updates"}`)
	if !r.Route(context.Background(), body, envelope.TypeForm) {
		t.Fatal("route failed")
	}
	if !capture.FormWasReset {
		t.Error("form should reset on success")
	}
	if len(capture.FieldErrors) != 0 {
		t.Errorf("field errors = %v", capture.FieldErrors)
	}
	toasts := toaster.all()
	if len(toasts) != 1 || toasts[0].Message != "Subscribed to updates" {
		t.Errorf("toasts = %+v", toasts)
	}
	if toasts[0].Severity != envelope.SeveritySuccess {
		t.Errorf("severity = %q", toasts[0].Severity)
	}
}

func TestRouteFormClearsStaleErrors(t *testing.T) {
	r, capture, _ := newTestRouter(t)

	first := []byte(`{"form_errors": {"email": "Required"}}`)
	if !r.Route(context.Background(), first, envelope.TypeForm) {
		t.Fatal("first route failed")
	}
	second := []byte(`{"form_success": "All set"}`)
	if !r.Route(context.Background(), second, envelope.TypeForm) {
		t.Fatal("second route failed")
	}
	if len(capture.FieldErrors) != 0 {
		t.Errorf("stale field errors survived: %v", capture.FieldErrors)
	}
}

func TestRouteSearchResults(t *testing.T) {
	r, capture, _ := newTestRouter(t)

	body := []byte(`{"search_query": "water", "search_results": [
		{"url": "/projects/wells/", "title": "Clean Wells", "excerpt": "Village well projects"},
		{"url": "/projects/filters/", "title": "Filters", "excerpt": "Household filtration"}
	]}`)
	if !r.Route(context.Background(), body, envelope.TypeSearch) {
		t.Fatal("route failed")
	}
	if capture.Query != "water" {
		t.Errorf("query = %q", capture.Query)
	}
	if len(capture.Results) != 2 || capture.Results[0].Title != "Clean Wells" {
		t.Errorf("results = %+v", capture.Results)
	}
	if capture.EmptyRendered {
		t.Error("empty state must not render alongside results")
	}
}

func TestRouteSearchEmptyResults(t *testing.T) {
	r, capture, _ := newTestRouter(t)

	body := []byte(`{"search_query": "zzz", "search_results": []}`)
	if !r.Route(context.Background(), body, envelope.TypeSearch) {
		t.Fatal("route failed")
	}
	if !capture.EmptyRendered {
		t.Error("present but empty results should render the empty state")
	}
	if len(capture.Results) != 0 {
		t.Errorf("results = %+v", capture.Results)
	}
}

func TestRouteSearchMissingResultsKey(t *testing.T) {
	r, capture, _ := newTestRouter(t)

	body := []byte(`{"message": "search unavailable"}`)
	if !r.Route(context.Background(), body, envelope.TypeSearch) {
		t.Fatal("route failed")
	}
	if capture.EmptyRendered {
		t.Error("missing search_results key must not render the empty state")
	}
}

func TestRouteNotificationsInOrder(t *testing.T) {
	r, _, toaster := newTestRouter(t)

	body := []byte(`{"notifications": [
		{"message": "Campaign goal reached", "type": "success"},
		{"message": "New match offer"},
		{"message": "Payment provider degraded", "type": "warning"}
	]}`)
	if !r.Route(context.Background(), body, envelope.TypeNotification) {
		t.Fatal("route failed")
	}

	want := []recordedToast{
		{"Campaign goal reached", envelope.SeveritySuccess},
		{"New match offer", envelope.SeverityInfo},
		{"Payment provider degraded", envelope.SeverityWarning},
	}
	if got := toaster.all(); !reflect.DeepEqual(got, want) {
		t.Errorf("toasts = %+v, want %+v", got, want)
	}
}

func TestRoutePanicRecovery(t *testing.T) {
	toaster := &recordingToaster{}
	notifier := notify.New(events.NewBus(), zerolog.Nop(),
		notify.WithToasterFactory(func() notify.Toaster { return toaster }))
	r := New(present.NewCapture(), notifier, zerolog.Nop())
	r.handlers[envelope.TypeForm] = func(ctx context.Context, env *envelope.Envelope) {
		panic("boom")
	}

	if r.Route(context.Background(), []byte(`{}`), envelope.TypeForm) {
		t.Error("panicking handler must not report handled")
	}
	toasts := toaster.all()
	if len(toasts) != 1 || toasts[0].Message != "error processing server response" {
		t.Errorf("toasts = %+v", toasts)
	}
}
