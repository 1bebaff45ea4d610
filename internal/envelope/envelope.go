// Package envelope defines the JSON response envelope exchanged with the
// site's endpoints and the response-type tags that select how an envelope
// is handled.
package envelope

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResponseType classifies an envelope for routing. It is declared by the
// caller (derived from the triggering command or element), never inferred
// from the payload shape.
type ResponseType string

const (
	TypeDefault      ResponseType = "default"
	TypeForm         ResponseType = "form"
	TypeSearch       ResponseType = "search"
	TypeNotification ResponseType = "notification"
)

// Normalize maps unknown or empty tags to TypeDefault. Routing dispatches on
// exact tag match; anything unrecognized falls through to generic handling.
func Normalize(tag string) ResponseType {
	switch ResponseType(strings.ToLower(strings.TrimSpace(tag))) {
	case TypeForm:
		return TypeForm
	case TypeSearch:
		return TypeSearch
	case TypeNotification:
		return TypeNotification
	default:
		return TypeDefault
	}
}

// Severity is a notification severity level.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// NormalizeSeverity returns SeverityInfo for empty or unknown values.
func NormalizeSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeveritySuccess:
		return SeveritySuccess
	case SeverityError:
		return SeverityError
	case SeverityWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// SearchResult is a single entry in a search response.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt,omitempty"`
}

// Notification is a single entry in a notification response. Type defaults
// to "info" when omitted.
type Notification struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// Severity returns the normalized severity for the entry.
func (n Notification) Severity() Severity {
	return NormalizeSeverity(n.Type)
}

// Envelope is the structured payload returned by a JSON endpoint. Every
// field is optional and independently actionable: a single envelope may
// carry both a message and a redirect, and both fire.
type Envelope struct {
	// Common fields, processed for every response type.
	Message  string `json:"message,omitempty"`
	Success  bool   `json:"success,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Content  string `json:"content,omitempty"`

	// Form fields.
	FormErrors  map[string]string `json:"form_errors,omitempty"`
	FormSuccess string            `json:"form_success,omitempty"`

	// Search fields. SearchResults distinguishes "absent" (nil) from
	// "present but empty" (non-nil zero-length), which renders an explicit
	// no-results state.
	SearchResults []SearchResult `json:"search_results,omitempty"`
	SearchQuery   string         `json:"search_query,omitempty"`

	// Notification fields.
	Notifications []Notification `json:"notifications,omitempty"`
}

// HasSearchResults reports whether the search_results field was present in
// the payload, even as an empty list.
func (e *Envelope) HasSearchResults() bool {
	return e.SearchResults != nil
}

// MessageSeverity returns the severity for the common message field:
// success when the envelope's success flag is set, error otherwise.
func (e *Envelope) MessageSeverity() Severity {
	if e.Success {
		return SeveritySuccess
	}
	return SeverityError
}

// Decode parses and validates a JSON envelope. Validation happens once at
// this boundary so handlers never probe raw maps field by field.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid response envelope: %w", err)
	}
	return &env, nil
}
