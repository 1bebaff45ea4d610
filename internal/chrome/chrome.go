// Package chrome loads the shared site furniture published by the CMS:
// the navbar snippet, the favicon snippet, and per-page metadata
// extracted from fetched HTML.
package chrome

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitewire/sitewire/internal/cache"
)

// Defaults mirror the snippet field defaults on the server side.
const (
	DefaultButtonText = "Donate"
	DefaultButtonURL  = "/donate/"
)

// NavLink is a single navbar entry.
type NavLink struct {
	Text string `json:"link_text"`
	URL  string `json:"link_url"`
}

// Navbar is the site-wide navigation snippet.
type Navbar struct {
	BrandName  string    `json:"brand_name"`
	Logo       string    `json:"logo"`
	Links      []NavLink `json:"links"`
	ButtonText string    `json:"button"`
	ButtonURL  string    `json:"button_url"`
}

// Favicon is the site icon snippet.
type Favicon struct {
	Icon string `json:"icon"`
}

// Chrome bundles the snippets a page shell needs.
type Chrome struct {
	Navbar  Navbar  `json:"navbar"`
	Favicon Favicon `json:"favicon"`
}

// Decode parses a chrome payload and fills in snippet defaults for the
// call-to-action button.
func Decode(data []byte) (*Chrome, error) {
	var c Chrome
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding chrome payload: %w", err)
	}
	if c.Navbar.ButtonText == "" {
		c.Navbar.ButtonText = DefaultButtonText
	}
	if c.Navbar.ButtonURL == "" {
		c.Navbar.ButtonURL = DefaultButtonURL
	}
	return &c, nil
}

// PageMeta is the metadata extracted from a fetched HTML page.
type PageMeta struct {
	Title       string
	Description string
	Canonical   string
}

// ExtractMeta parses an HTML document and pulls out its title, meta
// description, and canonical link.
func ExtractMeta(body []byte) (PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return PageMeta{}, fmt.Errorf("parsing page: %w", err)
	}

	meta := PageMeta{
		Title: strings.TrimSpace(doc.Find("head title").First().Text()),
	}
	if desc, ok := doc.Find(`head meta[name="description"]`).First().Attr("content"); ok {
		meta.Description = strings.TrimSpace(desc)
	}
	if href, ok := doc.Find(`head link[rel="canonical"]`).First().Attr("href"); ok {
		meta.Canonical = strings.TrimSpace(href)
	}
	return meta, nil
}

// EntryEnricher returns a cache enricher that titles HTML entries from
// their document title. Non-HTML entries pass through untouched.
func EntryEnricher() func(*cache.Entry) {
	return func(e *cache.Entry) {
		if !strings.Contains(e.ContentType, "html") {
			return
		}
		meta, err := ExtractMeta(e.Body)
		if err != nil {
			return
		}
		e.Title = meta.Title
	}
}
