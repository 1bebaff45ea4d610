package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sitewire/sitewire/internal/config"
	"github.com/sitewire/sitewire/internal/envelope"
	"github.com/sitewire/sitewire/internal/notify"
	"github.com/sitewire/sitewire/internal/present"
	"github.com/sitewire/sitewire/internal/session"
)

type nopToaster struct{}

func (nopToaster) ShowToast(message string, severity envelope.Severity) {}

func newTestTools(t *testing.T) (*SiteTools, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/forms/submit/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"form_errors": {"amount": "Enter an amount"}}`))
	})
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"search_query": "wells", "search_results": [{"url": "/projects/wells/", "title": "Clean Wells"}]}`))
	})
	mux.HandleFunc("/notifications/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"notifications": [{"message": "Goal reached", "type": "success"}]}`))
	})
	mux.HandleFunc("/api/chrome/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"navbar": {"brand_name": "Water for All"}}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Home</title></head><body>welcome</body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Site.BaseURL = srv.URL

	capture := present.NewCapture()
	s, err := session.New(cfg, zerolog.Nop(),
		session.WithPresenter(capture),
		session.WithToasterFactory(func() notify.Toaster { return nopToaster{} }))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return NewSiteTools(s, capture), srv
}

func TestFetchTool(t *testing.T) {
	st, _ := newTestTools(t)
	handler := st.makeFetchHandler()

	result, out, err := handler(context.Background(), nil, FetchInput{URL: "/"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result != nil {
		t.Fatalf("unexpected error result: %+v", result)
	}
	if !out.Success || out.Content == "" {
		t.Errorf("output = %+v", out)
	}

	_, out, err = handler(context.Background(), nil, FetchInput{URL: "/", Prefetch: true})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !out.FromCache {
		t.Error("second fetch should report from_cache")
	}
	if out.Content != "" {
		t.Error("prefetch must not return content")
	}
}

func TestFetchToolRequiresURL(t *testing.T) {
	st, _ := newTestTools(t)
	result, _, err := st.makeFetchHandler()(context.Background(), nil, FetchInput{})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("expected error result for missing url")
	}
}

func TestSubmitToolFieldErrors(t *testing.T) {
	st, _ := newTestTools(t)
	_, out, err := st.makeSubmitHandler()(context.Background(), nil, SubmitInput{
		FormID: "donate",
		Fields: map[string]string{"amount": ""},
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if out.Success {
		t.Error("validation failure must not report success")
	}
	if out.FieldErrors["amount"] != "Enter an amount" {
		t.Errorf("field errors = %v", out.FieldErrors)
	}
	if out.FocusedField != "amount" {
		t.Errorf("focused = %q", out.FocusedField)
	}
}

func TestSearchTool(t *testing.T) {
	st, _ := newTestTools(t)
	_, out, err := st.makeSearchHandler()(context.Background(), nil, SearchInput{Query: "wells"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !out.Success || len(out.Results) != 1 || out.Results[0].Title != "Clean Wells" {
		t.Errorf("output = %+v", out)
	}
}

func TestNotificationsTool(t *testing.T) {
	st, _ := newTestTools(t)
	_, out, err := st.makeNotificationsHandler()(context.Background(), nil, NotificationsInput{})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(out.Notifications) != 1 || out.Notifications[0].Severity != "success" {
		t.Errorf("notifications = %+v", out.Notifications)
	}
}

func TestChromeTool(t *testing.T) {
	st, _ := newTestTools(t)
	_, out, err := st.makeChromeHandler()(context.Background(), nil, ChromeInput{})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if out.Navbar.BrandName != "Water for All" || out.Navbar.ButtonText != "Donate" {
		t.Errorf("navbar = %+v", out.Navbar)
	}
}
