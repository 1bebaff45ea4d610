package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverridesDefaults(t *testing.T) {
	input := `// .sitewire.kdl
site {
    base-url "https://hopefoundation.org"
    search-path "/find/"
    timeout 30
    reduced-motion true
}

cache {
    max-entries 256
}

watch {
    listen "127.0.0.1:9000"
}
`

	cfg, err := Parse(input)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://hopefoundation.org", cfg.Site.BaseURL)
	assert.Equal(t, "/find/", cfg.Site.SearchPath)
	assert.Equal(t, 30*time.Second, cfg.Site.Timeout)
	assert.True(t, cfg.Site.ReducedMotion)
	assert.Equal(t, 256, cfg.Cache.MaxEntries)
	assert.Equal(t, "127.0.0.1:9000", cfg.Watch.ListenAddr)

	// Untouched settings keep their defaults.
	assert.Equal(t, "/forms/submit/", cfg.Site.FormPath)
	assert.Equal(t, "/notifications/", cfg.Site.NotificationsPath)
}

func TestParseRejectsMalformedKDL(t *testing.T) {
	_, err := Parse(`site { base-url `)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"https ok", "https://example.org", false},
		{"http ok", "http://localhost:8000", false},
		{"empty", "", true},
		{"no scheme", "example.org", true},
		{"ftp", "ftp://example.org", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Site.BaseURL = tt.baseURL
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFillsFallbacks(t *testing.T) {
	cfg := &Config{Site: Site{BaseURL: "https://example.org", Timeout: -1}}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 15*time.Second, cfg.Site.Timeout)
	assert.NotEmpty(t, cfg.Site.UserAgent)
	assert.Equal(t, "127.0.0.1:8471", cfg.Watch.ListenAddr)
}

func TestEndpoint(t *testing.T) {
	cfg := Default()
	cfg.Site.BaseURL = "https://example.org/"

	assert.Equal(t, "https://example.org/search/", cfg.Endpoint("/search/"))
	assert.Equal(t, "https://example.org/search/", cfg.Endpoint("search/"))
	assert.Equal(t, "https://example.org/", cfg.Endpoint(""))
	assert.Equal(t, "https://other.org/x", cfg.Endpoint("https://other.org/x"))
}

func TestLoadProjectOverridesGlobal(t *testing.T) {
	dir := t.TempDir()

	// No global config in a scratch XDG home.
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	project := `site {
    base-url "http://localhost:8000"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte(project), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Site.BaseURL)
}

func TestWriteDefaultConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitewire", GlobalConfigFile)
	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", cfg.Site.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Site.Timeout)
}
