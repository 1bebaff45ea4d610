// Package present defines the presentation surface the response handlers
// drive. All handler side effects go through a Presenter, so terminal,
// programmatic, and test consumers can each render them their own way.
package present

import "github.com/sitewire/sitewire/internal/envelope"

// Presenter receives the handler-visible side effects of a routed response.
type Presenter interface {
	// ClearFieldErrors removes all previously rendered field errors.
	ClearFieldErrors()
	// ShowFieldError renders one error message against the named field.
	ShowFieldError(field, message string)
	// FocusField moves attention to the first invalid field.
	FocusField(field string)
	// ResetForm clears the originating form's fields after a successful
	// submission.
	ResetForm()

	// RenderSearchResults replaces the results view. An empty result set
	// goes through RenderEmptyResults instead.
	RenderSearchResults(query string, results []envelope.SearchResult)
	// RenderEmptyResults shows an explicit no-results state.
	RenderEmptyResults(query string)

	// SwapContent replaces the main content with an HTML fragment.
	SwapContent(html string)
	// Navigate performs a full navigation to the URL. Implementations may
	// apply a transition delay unless reduced motion is requested.
	Navigate(url string)
}
