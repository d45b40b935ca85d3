// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Journal backends.
const (
	BackendMemory     = "memory"
	BackendPostgres   = "postgres"
	BackendClickhouse = "clickhouse"
	BackendNone       = "none"
)

// Defaults.
const (
	DefaultRPCEndpoint = "https://api.mainnet-beta.solana.com"
	DefaultHTTPAddr    = ":8080"
	DefaultRPCTimeout  = 30 * time.Second
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
)

// Environment variable names.
const (
	EnvRPCEndpoint    = "SOLANA_RPC_ENDPOINT"
	EnvWSEndpoint     = "SOLANA_WS_ENDPOINT"
	EnvHTTPAddr       = "HTTP_ADDR"
	EnvAPIKey         = "API_KEY"
	EnvCORSOrigins    = "CORS_ORIGINS"
	EnvRPCTimeout     = "RPC_TIMEOUT"
	EnvJournalBackend = "JOURNAL_BACKEND"
	EnvPostgresDSN    = "POSTGRES_DSN"
	EnvClickhouseDSN  = "CLICKHOUSE_DSN"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
)

// Config holds all runtime settings.
type Config struct {
	RPCEndpoint    string
	WSEndpoint     string // derived from RPCEndpoint when empty
	HTTPAddr       string
	APIKey         string // empty disables the key check
	CORSOrigins    []string
	RPCTimeout     time.Duration
	JournalBackend string
	PostgresDSN    string
	ClickhouseDSN  string
	LogLevel       string
	LogFormat      string
}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		RPCEndpoint:    DefaultRPCEndpoint,
		HTTPAddr:       DefaultHTTPAddr,
		RPCTimeout:     DefaultRPCTimeout,
		JournalBackend: BackendMemory,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// FromEnv builds a Config from environment variables over the defaults.
// It does not validate; call Validate after applying flag overrides.
func FromEnv() (*Config, error) {
	c := Default()

	setString(&c.RPCEndpoint, EnvRPCEndpoint)
	setString(&c.WSEndpoint, EnvWSEndpoint)
	setString(&c.HTTPAddr, EnvHTTPAddr)
	setString(&c.APIKey, EnvAPIKey)
	setString(&c.JournalBackend, EnvJournalBackend)
	setString(&c.PostgresDSN, EnvPostgresDSN)
	setString(&c.ClickhouseDSN, EnvClickhouseDSN)
	setString(&c.LogLevel, EnvLogLevel)
	setString(&c.LogFormat, EnvLogFormat)

	if v := os.Getenv(EnvCORSOrigins); v != "" {
		c.CORSOrigins = SplitList(v)
	}
	if v := os.Getenv(EnvRPCTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvRPCTimeout, err)
		}
		c.RPCTimeout = d
	}

	return c, nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// SplitList parses "a,b, c" into its non-empty trimmed items.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// WebsocketEndpoint returns WSEndpoint, or the RPC endpoint with its scheme
// switched to ws/wss.
func (c *Config) WebsocketEndpoint() string {
	if c.WSEndpoint != "" {
		return c.WSEndpoint
	}
	return DeriveWSEndpoint(c.RPCEndpoint)
}

// DeriveWSEndpoint maps http(s)://host/path to ws(s)://host/path.
// Returns "" for other schemes.
func DeriveWSEndpoint(rpc string) string {
	u, err := url.Parse(rpc)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return ""
	}
	return u.String()
}

// Validate checks the settings the serve command depends on.
func (c *Config) Validate() error {
	var errs []error

	if err := checkURL(c.RPCEndpoint, "http", "https"); err != nil {
		errs = append(errs, fmt.Errorf("rpc endpoint: %w", err))
	}
	if c.WSEndpoint != "" {
		if err := checkURL(c.WSEndpoint, "ws", "wss"); err != nil {
			errs = append(errs, fmt.Errorf("ws endpoint: %w", err))
		}
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http addr is required"))
	}
	if c.RPCTimeout <= 0 {
		errs = append(errs, fmt.Errorf("rpc timeout must be positive, got %s", c.RPCTimeout))
	}

	switch c.JournalBackend {
	case BackendMemory, BackendNone:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("%s is required for the postgres journal", EnvPostgresDSN))
		}
	case BackendClickhouse:
		if c.ClickhouseDSN == "" {
			errs = append(errs, fmt.Errorf("%s is required for the clickhouse journal", EnvClickhouseDSN))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown journal backend %q (memory, postgres, clickhouse, none)", c.JournalBackend))
	}

	return errors.Join(errs...)
}

func checkURL(raw string, schemes ...string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%q must be an absolute %s URL", raw, strings.Join(schemes, "/"))
}
