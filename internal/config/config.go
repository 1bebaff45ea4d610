// Package config holds sitewire configuration: the target site, its JSON
// endpoints, and engine settings. Configuration comes from KDL files with
// built-in defaults.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Version is the engine version, stamped into the default user agent.
const Version = "0.3.0"

// Config is the complete engine configuration.
type Config struct {
	// Site describes the target site and its endpoints.
	Site Site `json:"site"`
	// Cache holds response cache settings.
	Cache CacheSettings `json:"cache"`
	// Watch holds observer endpoint settings.
	Watch WatchSettings `json:"watch"`
}

// Site describes the target site.
type Site struct {
	// BaseURL is the site root, e.g. "https://hopefoundation.org".
	BaseURL string `json:"base_url"`
	// FormPath is the JSON form submission endpoint.
	FormPath string `json:"form_path"`
	// SearchPath is the JSON search endpoint.
	SearchPath string `json:"search_path"`
	// NotificationsPath is the JSON notifications endpoint.
	NotificationsPath string `json:"notifications_path"`
	// ChromePath is the site chrome (navbar/favicon snippet) endpoint.
	ChromePath string `json:"chrome_path"`
	// Timeout bounds each request.
	Timeout time.Duration `json:"timeout"`
	// UserAgent is sent with every request.
	UserAgent string `json:"user_agent"`
	// ReducedMotion skips transition delays before navigation.
	ReducedMotion bool `json:"reduced_motion"`
}

// CacheSettings holds response cache settings.
type CacheSettings struct {
	// MaxEntries caps the cache; 0 keeps the session-lifetime append-only
	// behavior.
	MaxEntries int `json:"max_entries"`
}

// WatchSettings holds the observer endpoint settings.
type WatchSettings struct {
	// ListenAddr is where the events/metrics endpoint binds.
	ListenAddr string `json:"listen_addr"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Site: Site{
			FormPath:          "/forms/submit/",
			SearchPath:        "/search/",
			NotificationsPath: "/notifications/",
			ChromePath:        "/api/chrome/",
			Timeout:           15 * time.Second,
			UserAgent:         "sitewire/" + Version,
		},
		Cache: CacheSettings{
			MaxEntries: 0,
		},
		Watch: WatchSettings{
			ListenAddr: "127.0.0.1:8471",
		},
	}
}

// Validate checks the configuration and fills safe fallbacks.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Site.BaseURL) == "" {
		return fmt.Errorf("site base-url is required")
	}
	parsed, err := url.Parse(c.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid site base-url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("site base-url must use http or https, got %q", c.Site.BaseURL)
	}

	if c.Site.Timeout <= 0 {
		c.Site.Timeout = 15 * time.Second
	}
	if c.Site.UserAgent == "" {
		c.Site.UserAgent = "sitewire/" + Version
	}
	if c.Cache.MaxEntries < 0 {
		c.Cache.MaxEntries = 0
	}
	if c.Watch.ListenAddr == "" {
		c.Watch.ListenAddr = "127.0.0.1:8471"
	}
	return nil
}

// Endpoint resolves a configured path against the site base URL. Absolute
// URLs pass through untouched.
func (c *Config) Endpoint(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(c.Site.BaseURL, "/")
	if path == "" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
