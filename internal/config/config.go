package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qm4/xtxid/txid"
)

const (
	appName    = "xtxid"
	configFile = "config.json"

	DefaultTimeout = 30
)

// Config is the top-level configuration.
type Config struct {
	UserAgent string `json:"user_agent,omitempty"`
	Timeout   int    `json:"timeout,omitempty"`
	Verbose   bool   `json:"verbose,omitempty"`
	HomeURL   string `json:"home_url,omitempty"`
	// TLSHello names the browser whose TLS fingerprint is presented
	// (chrome, firefox, safari, edge, ios). Empty means chrome.
	TLSHello string `json:"tls_hello,omitempty"`

	// AuthToken and CT0 are X session cookies sent with the home page
	// request. Logged-out pages sometimes omit the animation markup.
	AuthToken string `json:"auth_token,omitempty"`
	CT0       string `json:"ct0,omitempty"`

	// BrowserCookies reads the session cookies from Safari or Chrome
	// when AuthToken/CT0 are not set.
	BrowserCookies bool `json:"browser_cookies,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		UserAgent: txid.DefaultUserAgent,
		Timeout:   DefaultTimeout,
		HomeURL:   txid.DefaultHomeURL,
	}
}

// Load reads config from the XDG config file, applying defaults. A missing
// or unreadable file yields the defaults.
func Load() *Config {
	cfg := Default()

	data, err := os.ReadFile(FilePath())
	if err != nil {
		return cfg
	}

	_ = json.Unmarshal(data, cfg)

	if cfg.UserAgent == "" {
		cfg.UserAgent = txid.DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HomeURL == "" {
		cfg.HomeURL = txid.DefaultHomeURL
	}

	return cfg
}

// Save writes the config to the XDG config file.
func Save(cfg *Config) error {
	path := FilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// Cookies returns the configured session cookies that are set.
func (c *Config) Cookies() map[string]string {
	out := make(map[string]string, 2)
	if c.AuthToken != "" {
		out["auth_token"] = c.AuthToken
	}
	if c.CT0 != "" {
		out["ct0"] = c.CT0
	}
	return out
}

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(configBaseDir(), appName, configFile)
}

func configBaseDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dir = filepath.Join(home, ".config")
	}
	return dir
}
