package present

import (
	"sync"

	"github.com/sitewire/sitewire/internal/envelope"
)

// Capture is a Presenter that records side effects for programmatic
// consumers. MCP tool handlers read routed outcomes from it, and tests use
// it to assert handler behavior.
type Capture struct {
	mu sync.Mutex

	// Ops is the ordered list of operations applied, by name.
	Ops []string

	FieldErrors   map[string]string
	FocusedField  string
	FormWasReset  bool
	Query         string
	Results       []envelope.SearchResult
	EmptyRendered bool
	Content       string
	NavigatedTo   string
}

// NewCapture creates an empty capture presenter.
func NewCapture() *Capture {
	return &Capture{FieldErrors: make(map[string]string)}
}

func (c *Capture) record(op string) {
	c.Ops = append(c.Ops, op)
}

// Reset clears all recorded state so the next operation starts from a
// blank slate.
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Ops = nil
	c.FieldErrors = make(map[string]string)
	c.FocusedField = ""
	c.FormWasReset = false
	c.Query = ""
	c.Results = nil
	c.EmptyRendered = false
	c.Content = ""
	c.NavigatedTo = ""
}

func (c *Capture) ClearFieldErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FieldErrors = make(map[string]string)
	c.FocusedField = ""
	c.record("clear_field_errors")
}

func (c *Capture) ShowFieldError(field, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FieldErrors[field] = message
	c.record("field_error:" + field)
}

func (c *Capture) FocusField(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FocusedField = field
	c.record("focus:" + field)
}

func (c *Capture) ResetForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FormWasReset = true
	c.record("reset_form")
}

func (c *Capture) RenderSearchResults(query string, results []envelope.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Query = query
	c.Results = results
	c.EmptyRendered = false
	c.record("search_results")
}

func (c *Capture) RenderEmptyResults(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Query = query
	c.Results = nil
	c.EmptyRendered = true
	c.record("empty_results")
}

func (c *Capture) SwapContent(html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Content = html
	c.record("swap_content")
}

func (c *Capture) Navigate(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NavigatedTo = url
	c.record("navigate")
}
