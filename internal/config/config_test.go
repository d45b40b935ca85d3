package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	EnvRPCEndpoint, EnvWSEndpoint, EnvHTTPAddr, EnvAPIKey, EnvCORSOrigins, EnvRPCTimeout,
	EnvJournalBackend, EnvPostgresDSN, EnvClickhouseDSN, EnvLogLevel, EnvLogFormat,
}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t, allKeys...)

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, "wss://api.mainnet-beta.solana.com", c.WebsocketEndpoint())
	assert.NoError(t, c.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv(EnvRPCEndpoint, "http://localhost:8899")
	t.Setenv(EnvHTTPAddr, "127.0.0.1:9000")
	t.Setenv(EnvAPIKey, "k")
	t.Setenv(EnvCORSOrigins, "https://a.example, ,https://b.example")
	t.Setenv(EnvRPCTimeout, "5s")
	t.Setenv(EnvJournalBackend, BackendPostgres)
	t.Setenv(EnvPostgresDSN, "postgres://u:p@localhost/db")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "console")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8899", c.RPCEndpoint)
	assert.Equal(t, "ws://localhost:8899", c.WebsocketEndpoint())
	assert.Equal(t, "127.0.0.1:9000", c.HTTPAddr)
	assert.Equal(t, "k", c.APIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)
	assert.Equal(t, 5*time.Second, c.RPCTimeout)
	assert.Equal(t, BackendPostgres, c.JournalBackend)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "console", c.LogFormat)
	assert.NoError(t, c.Validate())
}

func TestFromEnv_BadTimeout(t *testing.T) {
	clearEnv(t, allKeys...)
	t.Setenv(EnvRPCTimeout, "soon")

	_, err := FromEnv()
	assert.ErrorContains(t, err, EnvRPCTimeout)
}

func TestWebsocketEndpoint_Explicit(t *testing.T) {
	c := Default()
	c.WSEndpoint = "wss://ws.example/socket"
	assert.Equal(t, "wss://ws.example/socket", c.WebsocketEndpoint())
}

func TestDeriveWSEndpoint(t *testing.T) {
	assert.Equal(t, "wss://rpc.example/?api-key=x", DeriveWSEndpoint("https://rpc.example/?api-key=x"))
	assert.Equal(t, "ws://127.0.0.1:8899", DeriveWSEndpoint("http://127.0.0.1:8899"))
	assert.Equal(t, "", DeriveWSEndpoint("ftp://nope"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"relative rpc", func(c *Config) { c.RPCEndpoint = "localhost:8899" }, "rpc endpoint"},
		{"empty rpc", func(c *Config) { c.RPCEndpoint = "" }, "rpc endpoint"},
		{"http ws", func(c *Config) { c.WSEndpoint = "http://x" }, "ws endpoint"},
		{"no addr", func(c *Config) { c.HTTPAddr = "" }, "http addr"},
		{"zero timeout", func(c *Config) { c.RPCTimeout = 0 }, "rpc timeout"},
		{"unknown backend", func(c *Config) { c.JournalBackend = "redis" }, "unknown journal backend"},
		{"postgres without dsn", func(c *Config) { c.JournalBackend = BackendPostgres }, EnvPostgresDSN},
		{"clickhouse without dsn", func(c *Config) { c.JournalBackend = BackendClickhouse }, EnvClickhouseDSN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			assert.ErrorContains(t, c.Validate(), tt.errMsg)
		})
	}

	c := Default()
	c.JournalBackend = BackendNone
	assert.NoError(t, c.Validate())
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t, "NFTMETA_A", "NFTMETA_B", "NFTMETA_C", "NFTMETA_D")
	t.Setenv("NFTMETA_B", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	content := `# comment
NFTMETA_A=plain

NFTMETA_B=from-file
export NFTMETA_C="quoted value"
NFTMETA_D='a=b'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "plain", os.Getenv("NFTMETA_A"))
	assert.Equal(t, "from-env", os.Getenv("NFTMETA_B"))
	assert.Equal(t, "quoted value", os.Getenv("NFTMETA_C"))
	assert.Equal(t, "a=b", os.Getenv("NFTMETA_D"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoadEnvFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOEQUALS\n"), 0o600))
	assert.ErrorContains(t, LoadEnvFile(path), "line 1")
}
