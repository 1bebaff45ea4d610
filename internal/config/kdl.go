package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	kdl "github.com/sblinch/kdl-go"
)

// KDL configuration file names
const (
	GlobalConfigFile  = "config.kdl"
	ProjectConfigFile = ".sitewire.kdl"
)

// KDLConfig mirrors the KDL file structure.
type KDLConfig struct {
	Site  KDLSite  `kdl:"site"`
	Cache KDLCache `kdl:"cache"`
	Watch KDLWatch `kdl:"watch"`
}

// KDLSite holds site settings from KDL.
type KDLSite struct {
	BaseURL           string `kdl:"base-url"`
	FormPath          string `kdl:"form-path"`
	SearchPath        string `kdl:"search-path"`
	NotificationsPath string `kdl:"notifications-path"`
	ChromePath        string `kdl:"chrome-path"`
	TimeoutSecs       int    `kdl:"timeout"`
	UserAgent         string `kdl:"user-agent"`
	ReducedMotion     bool   `kdl:"reduced-motion"`
}

// KDLCache holds cache settings from KDL.
type KDLCache struct {
	MaxEntries int `kdl:"max-entries"`
}

// KDLWatch holds watch settings from KDL.
type KDLWatch struct {
	Listen string `kdl:"listen"`
}

// Load resolves configuration with the usual precedence: defaults, then
// the global config file, then a project-local .sitewire.kdl in dir.
func Load(dir string) (*Config, error) {
	cfg, err := LoadGlobal()
	if err != nil {
		return nil, err
	}

	projectPath := filepath.Join(dir, ProjectConfigFile)
	if _, err := os.Stat(projectPath); err == nil {
		data, err := os.ReadFile(projectPath)
		if err != nil {
			return nil, err
		}
		if err := mergeKDL(cfg, string(data)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadGlobal loads the global configuration, falling back to defaults when
// no file exists.
func LoadGlobal() (*Config, error) {
	path := GlobalConfigPath()
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific KDL file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Parse parses KDL configuration data over the defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	if err := mergeKDL(cfg, data); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeKDL(cfg *Config, data string) error {
	var kdlCfg KDLConfig
	if err := kdl.Unmarshal([]byte(data), &kdlCfg); err != nil {
		return err
	}

	if kdlCfg.Site.BaseURL != "" {
		cfg.Site.BaseURL = kdlCfg.Site.BaseURL
	}
	if kdlCfg.Site.FormPath != "" {
		cfg.Site.FormPath = kdlCfg.Site.FormPath
	}
	if kdlCfg.Site.SearchPath != "" {
		cfg.Site.SearchPath = kdlCfg.Site.SearchPath
	}
	if kdlCfg.Site.NotificationsPath != "" {
		cfg.Site.NotificationsPath = kdlCfg.Site.NotificationsPath
	}
	if kdlCfg.Site.ChromePath != "" {
		cfg.Site.ChromePath = kdlCfg.Site.ChromePath
	}
	if kdlCfg.Site.TimeoutSecs > 0 {
		cfg.Site.Timeout = time.Duration(kdlCfg.Site.TimeoutSecs) * time.Second
	}
	if kdlCfg.Site.UserAgent != "" {
		cfg.Site.UserAgent = kdlCfg.Site.UserAgent
	}
	if kdlCfg.Site.ReducedMotion {
		cfg.Site.ReducedMotion = true
	}
	if kdlCfg.Cache.MaxEntries > 0 {
		cfg.Cache.MaxEntries = kdlCfg.Cache.MaxEntries
	}
	if kdlCfg.Watch.Listen != "" {
		cfg.Watch.ListenAddr = kdlCfg.Watch.Listen
	}
	return nil
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "sitewire", GlobalConfigFile)
}

// WriteDefaultConfig writes a documented default config file.
func WriteDefaultConfig(path string) error {
	defaultKDL := `// sitewire configuration

site {
    // Site root; required
    base-url "https://example.org"
    // JSON endpoints, resolved against base-url
    form-path "/forms/submit/"
    search-path "/search/"
    notifications-path "/notifications/"
    chrome-path "/api/chrome/"
    // Per-request timeout in seconds
    timeout 15
    // Skip transition delays before navigation
    reduced-motion false
}

cache {
    // 0 keeps every entry for the session; >0 enables LRU eviction
    max-entries 0
}

watch {
    // Events + metrics endpoint for observers
    listen "127.0.0.1:8471"
}
`
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.TrimSpace(defaultKDL)+"\n"), 0644)
}
