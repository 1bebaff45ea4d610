// Package cache holds successful response bodies keyed by request URL for
// the lifetime of a site session. Entries are immutable once written: a
// fresh successful fetch for the same URL replaces the entry wholesale,
// never merges into it.
package cache

import (
	"context"
	"time"
)

// Entry is a cached response body plus the metadata extracted when it was
// fetched.
type Entry struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	// Title is the page title for HTML entries, when one could be parsed.
	Title    string
	StoredAt time.Time
}

// Cache is a URL-keyed response store.
type Cache interface {
	Get(ctx context.Context, url string) (*Entry, bool)
	Set(ctx context.Context, url string, entry *Entry)
	Delete(ctx context.Context, url string)
	Len() int
}
