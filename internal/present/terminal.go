package present

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sitewire/sitewire/internal/envelope"
)

// fadeDelay approximates the page fade that preceded navigation. Skipped
// when reduced motion is requested.
const fadeDelay = 300 * time.Millisecond

// Terminal renders presentation side effects as terminal output.
type Terminal struct {
	w             io.Writer
	reducedMotion bool
	fieldErrors   map[string]string
}

// NewTerminal creates a terminal presenter writing to w.
func NewTerminal(w io.Writer, reducedMotion bool) *Terminal {
	return &Terminal{
		w:             w,
		reducedMotion: reducedMotion,
		fieldErrors:   make(map[string]string),
	}
}

func (t *Terminal) ClearFieldErrors() {
	t.fieldErrors = make(map[string]string)
}

func (t *Terminal) ShowFieldError(field, message string) {
	t.fieldErrors[field] = message
	fmt.Fprintf(t.w, "  %s: %s\n", field, message)
}

func (t *Terminal) FocusField(field string) {
	fmt.Fprintf(t.w, "→ fix %q first\n", field)
}

func (t *Terminal) ResetForm() {
	fmt.Fprintln(t.w, "form cleared")
}

func (t *Terminal) RenderSearchResults(query string, results []envelope.SearchResult) {
	fmt.Fprintf(t.w, "%d result(s) for %q:\n", len(results), query)
	for i, r := range results {
		fmt.Fprintf(t.w, "%2d. %s\n    %s\n", i+1, r.Title, r.URL)
		if r.Excerpt != "" {
			fmt.Fprintf(t.w, "    %s\n", strings.TrimSpace(r.Excerpt))
		}
	}
}

func (t *Terminal) RenderEmptyResults(query string) {
	fmt.Fprintf(t.w, "No results found for %q.\n", query)
}

func (t *Terminal) SwapContent(html string) {
	fmt.Fprintf(t.w, "--- content (%d bytes) ---\n%s\n", len(html), html)
}

func (t *Terminal) Navigate(url string) {
	if !t.reducedMotion {
		time.Sleep(fadeDelay)
	}
	fmt.Fprintf(t.w, "→ %s\n", url)
}

// FieldErrors returns the currently rendered field errors, sorted by field
// name for stable output.
func (t *Terminal) FieldErrors() []string {
	fields := make([]string, 0, len(t.fieldErrors))
	for f := range t.fieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
