// Package config loads the client configuration from a YAML file and an
// environment overlay.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvSessionCookie = "METAAI_SESSION_COOKIE"
	EnvProxyURL      = "METAAI_PROXY_URL"
	EnvDebug         = "METAAI_DEBUG"
)

// DefaultLogDir is used when logging-to-file is on and log-dir is empty.
const DefaultLogDir = "logs"

// Config is the client configuration.
type Config struct {
	Debug         bool   `yaml:"debug"`
	LoggingToFile bool   `yaml:"logging-to-file"`
	LogDir        string `yaml:"log-dir"`

	// ProxyURL routes every request through an http(s) or socks5 proxy.
	ProxyURL string `yaml:"proxy-url"`
	// TLSFingerprint presents a browser ClientHello ("chrome", "firefox", "safari").
	TLSFingerprint string `yaml:"tls-fingerprint"`
	// RequestTimeout is a Go duration string such as "90s". Empty means none.
	RequestTimeout string `yaml:"request-timeout"`

	// SessionCookie is an abra_sess value; when set the client runs authenticated.
	SessionCookie string `yaml:"session-cookie"`

	Endpoints Endpoints `yaml:"endpoints"`
}

// Endpoints overrides the upstream URLs. Empty fields keep the defaults.
type Endpoints struct {
	Home  string `yaml:"home"`
	API   string `yaml:"api"`
	Graph string `yaml:"graph"`
}

// Load reads path and applies the environment overlay. A missing file is not
// an error: the defaults are used. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if cfg, err = Parse(data); err != nil {
				return nil, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// A .env file is optional.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes YAML config data without touching the environment.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.trim()
	return cfg, nil
}

func (c *Config) trim() {
	c.LogDir = strings.TrimSpace(c.LogDir)
	c.ProxyURL = strings.TrimSpace(c.ProxyURL)
	c.TLSFingerprint = strings.ToLower(strings.TrimSpace(c.TLSFingerprint))
	c.RequestTimeout = strings.TrimSpace(c.RequestTimeout)
	c.SessionCookie = strings.TrimSpace(c.SessionCookie)
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvSessionCookie); ok && strings.TrimSpace(v) != "" {
		c.SessionCookie = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvProxyURL); ok && strings.TrimSpace(v) != "" {
		c.ProxyURL = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvDebug); ok && strings.TrimSpace(v) != "" {
		debug, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDebug, err)
		}
		c.Debug = debug
	}
	return nil
}

// Validate checks the fields that are parsed lazily.
func (c *Config) Validate() error {
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the parsed request timeout, zero when unset.
func (c *Config) Timeout() (time.Duration, error) {
	if c.RequestTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid request-timeout %q: %w", c.RequestTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid request-timeout %q: negative", c.RequestTimeout)
	}
	return d, nil
}

// LogDirectory returns the directory for rotated log files.
func (c *Config) LogDirectory() string {
	if c.LogDir == "" {
		return DefaultLogDir
	}
	return c.LogDir
}
