// CLAUDE:SUMMARY Defines the locscope YAML configuration (log level, HTTP, browser, report, dynamic patterns) and its defaults.
package inspector

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/locscope/locator"
)

// Config is the top-level locscope configuration.
type Config struct {
	LogLevel       string        `yaml:"log_level"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	HTTP           HTTPConfig    `yaml:"http"`
	Browser        BrowserConfig `yaml:"browser"`
	Report         ReportConfig  `yaml:"report"`

	// DynamicPatterns replaces the built-in heuristics when present. An
	// explicit empty list disables dynamic-value detection.
	DynamicPatterns []locator.Pattern `yaml:"dynamic_patterns"`
}

// HTTPConfig controls the API listener.
type HTTPConfig struct {
	Addr    string `yaml:"addr"`
	MaxBody int64  `yaml:"max_body"`
}

// BrowserConfig controls live captures.
type BrowserConfig struct {
	Remote           string        `yaml:"remote"`
	Stealth          *bool         `yaml:"stealth"`
	NavigateTimeout  time.Duration `yaml:"navigate_timeout"`
	ResourceBlocking []string      `yaml:"resource_blocking"`

	// AllowPrivate lets URLs resolving to loopback or private ranges be
	// captured. Off for servers; the one-shot CLI commands turn it on.
	AllowPrivate bool `yaml:"allow_private"`
}

// StealthEnabled reports the effective stealth setting. Default: on.
func (b BrowserConfig) StealthEnabled() bool {
	return b.Stealth == nil || *b.Stealth
}

// ReportConfig controls element reports.
type ReportConfig struct {
	SnippetLimit int `yaml:"snippet_limit"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inspector: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("inspector: parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.MaxBody <= 0 {
		c.HTTP.MaxBody = 4 << 20
	}
	if c.Browser.NavigateTimeout <= 0 {
		c.Browser.NavigateTimeout = 30 * time.Second
	}
	if c.Report.SnippetLimit <= 0 {
		c.Report.SnippetLimit = 500
	}
	if c.DynamicPatterns == nil {
		c.DynamicPatterns = locator.DefaultPatterns()
	}
}

// ParseLevel maps a log level name to slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("inspector: log level %q: %w", s, err)
	}
	return l, nil
}
