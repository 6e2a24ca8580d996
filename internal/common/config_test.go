package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5001, cfg.Server.Port)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Clients.Yahoo.BaseURL)
	assert.Equal(t, "https://api.tickertick.com", cfg.Clients.TickerTick.BaseURL)
	assert.Equal(t, 10, cfg.News.MaxPages)
	assert.Equal(t, 90, cfg.News.WindowDays)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 5001, cfg.Server.Port)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newschart.toml")
	content := `
environment = "production"

[server]
port = 8080

[news]
max_pages = 2

[clients.yahoo]
timeout = "10s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2, cfg.News.MaxPages)
	assert.Equal(t, 10*time.Second, cfg.Clients.Yahoo.GetTimeout())
	assert.True(t, cfg.IsProduction())

	// Untouched sections keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 90, cfg.News.WindowDays)
}

func TestLoadConfig_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	local := filepath.Join(dir, "local.toml")
	require.NoError(t, os.WriteFile(base, []byte("[server]\nport = 7000\n"), 0644))
	require.NoError(t, os.WriteFile(local, []byte("[server]\nport = 7001\n"), 0644))

	cfg, err := LoadConfig(base, local)
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport ="), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NEWSCHART_ENV", "prod")
	t.Setenv("NEWSCHART_PORT", "9090")
	t.Setenv("NEWSCHART_LOG_LEVEL", "debug")
	t.Setenv("NEWSCHART_YAHOO_BASE_URL", "http://localhost:9999")
	t.Setenv("NEWSCHART_NEWS_MAX_PAGES", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://localhost:9999", cfg.Clients.Yahoo.BaseURL)
	assert.Equal(t, 3, cfg.News.MaxPages)
}

func TestLoadConfig_BadEnvValuesIgnored(t *testing.T) {
	t.Setenv("NEWSCHART_PORT", "not-a-port")
	t.Setenv("NEWSCHART_NEWS_MAX_PAGES", "-1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5001, cfg.Server.Port)
	assert.Equal(t, 10, cfg.News.MaxPages)
}

func TestClientTimeoutFallback(t *testing.T) {
	yc := YahooConfig{Timeout: "garbage"}
	assert.Equal(t, 30*time.Second, yc.GetTimeout())

	tc := TickerTickConfig{Timeout: "5s"}
	assert.Equal(t, 5*time.Second, tc.GetTimeout())
}
