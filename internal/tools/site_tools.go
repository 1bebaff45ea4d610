// Package tools exposes the site interaction operations as MCP tools.
package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sitewire/sitewire/internal/chrome"
	"github.com/sitewire/sitewire/internal/envelope"
	"github.com/sitewire/sitewire/internal/events"
	"github.com/sitewire/sitewire/internal/present"
	"github.com/sitewire/sitewire/internal/session"
)

// SiteTools binds the MCP tool handlers to a session. The session must
// be wired with the given capture presenter so routed outcomes are
// readable after each call.
type SiteTools struct {
	mu      sync.Mutex
	session *session.Session
	capture *present.Capture
}

// NewSiteTools creates the tool bindings.
func NewSiteTools(s *session.Session, capture *present.Capture) *SiteTools {
	return &SiteTools{session: s, capture: capture}
}

// FetchInput defines input for the site_fetch tool
type FetchInput struct {
	URL      string `json:"url" jsonschema:"required,description=Page URL or path to fetch"`
	Prefetch bool   `json:"prefetch,omitempty" jsonschema:"description=Warm the cache only without returning page content"`
}

// FetchOutput defines output for the site_fetch tool
type FetchOutput struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	StatusCode  int    `json:"status_code,omitempty"`
	FromCache   bool   `json:"from_cache"`
	ContentType string `json:"content_type,omitempty"`
	Content     string `json:"content,omitempty"`
}

// SubmitInput defines input for the site_submit tool
type SubmitInput struct {
	FormID string            `json:"form_id" jsonschema:"required,description=Identifier of the form to submit"`
	Fields map[string]string `json:"fields,omitempty" jsonschema:"description=Form field values keyed by field name"`
}

// SubmitOutput defines output for the site_submit tool
type SubmitOutput struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	FieldErrors  map[string]string `json:"field_errors,omitempty"`
	FocusedField string            `json:"focused_field,omitempty"`
	FormReset    bool              `json:"form_reset"`
	Redirect     string            `json:"redirect,omitempty"`
}

// SearchInput defines input for the site_search tool
type SearchInput struct {
	Query string `json:"query" jsonschema:"required,description=Search query text"`
}

// SearchOutput defines output for the site_search tool
type SearchOutput struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Query   string                  `json:"query,omitempty"`
	Results []envelope.SearchResult `json:"results,omitempty"`
	Empty   bool                    `json:"empty"`
}

// NotificationsInput defines input for the site_notifications tool
type NotificationsInput struct{}

// NotificationEntry is one surfaced notification.
type NotificationEntry struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// NotificationsOutput defines output for the site_notifications tool
type NotificationsOutput struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message"`
	Notifications []NotificationEntry `json:"notifications,omitempty"`
}

// ChromeInput defines input for the site_chrome tool
type ChromeInput struct{}

// ChromeOutput defines output for the site_chrome tool
type ChromeOutput struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Navbar  chrome.Navbar  `json:"navbar"`
	Favicon chrome.Favicon `json:"favicon"`
}

// Register registers all site interaction tools on the server.
func (st *SiteTools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "site_fetch",
		Description: `Fetch a page from the site, using the response cache for repeat visits.

Set prefetch to warm the cache without returning the page body.

Example:
  site_fetch {url: "/about/"}
  site_fetch {url: "/donate/", prefetch: true}`,
	}, st.makeFetchHandler())

	mcp.AddTool(server, &mcp.Tool{
		Name: "site_submit",
		Description: `Submit a form to the site and report the routed outcome.

Validation failures return field_errors keyed by field name plus the
field that received focus. A successful submission reports form_reset.

Example:
  site_submit {form_id: "newsletter", fields: {email: "alice@example.org"}}`,
	}, st.makeSubmitHandler())

	mcp.AddTool(server, &mcp.Tool{
		Name: "site_search",
		Description: `Search the site and return the rendered result set.

An empty result set is reported with empty=true; a response with no
result payload at all returns neither results nor the empty flag.

Example:
  site_search {query: "clean water"}`,
	}, st.makeSearchHandler())

	mcp.AddTool(server, &mcp.Tool{
		Name: "site_notifications",
		Description: `Poll the site for pending notifications.

Each entry is surfaced through the notifier in server order and echoed
back with its normalized severity.`,
	}, st.makeNotificationsHandler())

	mcp.AddTool(server, &mcp.Tool{
		Name: "site_chrome",
		Description: `Load the site chrome: navbar snippet (brand, links, call-to-action
button) and favicon snippet. Defaults are applied for the donate button
when the CMS omits them.`,
	}, st.makeChromeHandler())
}

func (st *SiteTools) makeFetchHandler() func(context.Context, *mcp.CallToolRequest, FetchInput) (*mcp.CallToolResult, FetchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input FetchInput) (*mcp.CallToolResult, FetchOutput, error) {
		if input.URL == "" {
			return errorResult("Missing required parameter: url"), FetchOutput{}, nil
		}

		st.mu.Lock()
		defer st.mu.Unlock()
		st.capture.Reset()

		if input.Prefetch {
			result, err := st.session.Prefetch(ctx, input.URL)
			if err != nil {
				return errorResult(fmt.Sprintf("Prefetch failed: %v", err)), FetchOutput{}, nil
			}
			return nil, FetchOutput{
				Success:     true,
				Message:     fmt.Sprintf("Prefetched %s", input.URL),
				StatusCode:  result.StatusCode,
				FromCache:   result.FromCache,
				ContentType: result.ContentType,
			}, nil
		}

		result, err := st.session.Load(ctx, input.URL)
		if err != nil {
			return errorResult(fmt.Sprintf("Fetch failed: %v", err)), FetchOutput{}, nil
		}
		return nil, FetchOutput{
			Success:     true,
			Message:     fmt.Sprintf("Fetched %s", input.URL),
			StatusCode:  result.StatusCode,
			FromCache:   result.FromCache,
			ContentType: result.ContentType,
			Content:     st.capture.Content,
		}, nil
	}
}

func (st *SiteTools) makeSubmitHandler() func(context.Context, *mcp.CallToolRequest, SubmitInput) (*mcp.CallToolResult, SubmitOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SubmitInput) (*mcp.CallToolResult, SubmitOutput, error) {
		if input.FormID == "" {
			return errorResult("Missing required parameter: form_id"), SubmitOutput{}, nil
		}

		st.mu.Lock()
		defer st.mu.Unlock()
		st.capture.Reset()

		if _, err := st.session.SubmitForm(ctx, input.FormID, input.Fields); err != nil {
			return errorResult(fmt.Sprintf("Submit failed: %v", err)), SubmitOutput{}, nil
		}

		out := SubmitOutput{
			FocusedField: st.capture.FocusedField,
			FormReset:    st.capture.FormWasReset,
			Redirect:     st.capture.NavigatedTo,
		}
		if len(st.capture.FieldErrors) > 0 {
			out.FieldErrors = st.capture.FieldErrors
			out.Message = fmt.Sprintf("Submission rejected with %d field error(s)", len(out.FieldErrors))
			return nil, out, nil
		}
		out.Success = true
		out.Message = "Form submitted"
		return nil, out, nil
	}
}

func (st *SiteTools) makeSearchHandler() func(context.Context, *mcp.CallToolRequest, SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
		if input.Query == "" {
			return errorResult("Missing required parameter: query"), SearchOutput{}, nil
		}

		st.mu.Lock()
		defer st.mu.Unlock()
		st.capture.Reset()

		if _, err := st.session.Search(ctx, input.Query); err != nil {
			return errorResult(fmt.Sprintf("Search failed: %v", err)), SearchOutput{}, nil
		}

		out := SearchOutput{
			Success: true,
			Query:   st.capture.Query,
			Results: st.capture.Results,
			Empty:   st.capture.EmptyRendered,
		}
		switch {
		case out.Empty:
			out.Message = fmt.Sprintf("No results for %q", input.Query)
		case len(out.Results) > 0:
			out.Message = fmt.Sprintf("%d result(s) for %q", len(out.Results), input.Query)
		default:
			out.Message = "Search completed without a result payload"
		}
		return nil, out, nil
	}
}

func (st *SiteTools) makeNotificationsHandler() func(context.Context, *mcp.CallToolRequest, NotificationsInput) (*mcp.CallToolResult, NotificationsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input NotificationsInput) (*mcp.CallToolResult, NotificationsOutput, error) {
		st.mu.Lock()
		defer st.mu.Unlock()

		// Notifications flow through the notifier, not the presenter,
		// so collect them off the event bus.
		ch, unsubscribe := st.session.Bus().Subscribe()
		defer unsubscribe()

		if _, err := st.session.PollNotifications(ctx); err != nil {
			return errorResult(fmt.Sprintf("Poll failed: %v", err)), NotificationsOutput{}, nil
		}

		var entries []NotificationEntry
		for {
			select {
			case event := <-ch:
				if event.Type != events.TypeNotification {
					continue
				}
				shown := event.Data.(events.NotificationShown)
				entries = append(entries, NotificationEntry{Message: shown.Message, Severity: shown.Severity})
			default:
				return nil, NotificationsOutput{
					Success:       true,
					Message:       fmt.Sprintf("%d notification(s)", len(entries)),
					Notifications: entries,
				}, nil
			}
		}
	}
}

func (st *SiteTools) makeChromeHandler() func(context.Context, *mcp.CallToolRequest, ChromeInput) (*mcp.CallToolResult, ChromeOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ChromeInput) (*mcp.CallToolResult, ChromeOutput, error) {
		st.mu.Lock()
		defer st.mu.Unlock()

		c, err := st.session.Chrome(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("Chrome load failed: %v", err)), ChromeOutput{}, nil
		}
		return nil, ChromeOutput{
			Success: true,
			Message: fmt.Sprintf("Loaded chrome for %s", c.Navbar.BrandName),
			Navbar:  c.Navbar,
			Favicon: c.Favicon,
		}, nil
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
