package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TCG_URL", "")
	t.Setenv("TCG_RUN_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8084, cfg.Server.Port)
	assert.True(t, cfg.Run.FallbackShipping.Equal(decimal.RequireFromString("3.99")))
	assert.Equal(t, 3*time.Second, cfg.Run.SettleDelay)
	assert.True(t, cfg.Browser.Headless)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "stream:buyout_rankings", cfg.Redis.Stream)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TCG_RUN_FILE", "")
	t.Setenv("TCG_URL", "https://www.tcgplayer.com/product/10583")
	t.Setenv("TCG_BLACKLIST", "Mtgaok, The Dragon's Table ,,")
	t.Setenv("TCG_FALLBACK_SHIPPING", "4.49")
	t.Setenv("TCG_SETTLE_DELAY", "500ms")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.tcgplayer.com/product/10583", cfg.Run.URL)
	assert.Equal(t, []string{"Mtgaok", "The Dragon's Table"}, cfg.Run.Blacklist)
	assert.True(t, cfg.Run.FallbackShipping.Equal(decimal.RequireFromString("4.49")))
	assert.Equal(t, 500*time.Millisecond, cfg.Run.SettleDelay)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadMergesRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := "url: https://www.tcgplayer.com/product/10583/magic-onslaught-break-open\n" +
		"blacklist:\n  - Mtgaok\n  - Card Barn\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("TCG_URL", "")
	t.Setenv("TCG_BLACKLIST", "Mtgaok")
	t.Setenv("TCG_RUN_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.tcgplayer.com/product/10583/magic-onslaught-break-open", cfg.Run.URL)
	assert.Equal(t, []string{"Mtgaok", "Card Barn"}, cfg.Run.Blacklist)
}

func TestLoadRunFileErrors(t *testing.T) {
	_, err := LoadRunFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blacklist: [unterminated"), 0o644))
	_, err = LoadRunFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8084},
			Run: RunConfig{
				FallbackShipping: decimal.RequireFromString("3.99"),
				SettleDelay:      time.Second,
			},
			Redis: RedisConfig{Stream: "stream:x"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, false},
		{"negative shipping", func(c *Config) { c.Run.FallbackShipping = decimal.RequireFromString("-1") }, false},
		{"negative settle delay", func(c *Config) { c.Run.SettleDelay = -time.Second }, false},
		{"redis without stream", func(c *Config) { c.Redis.Enabled = true; c.Redis.Stream = "" }, false},
		{"database without name", func(c *Config) { c.Database.Enabled = true }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMergeBlacklists(t *testing.T) {
	merged := MergeBlacklists([]string{"A", "", "B"}, nil, []string{"b", "A", "C"})
	assert.Equal(t, []string{"A", "B", "b", "C"}, merged)
}
