package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	for _, k := range []string{"PORT", "CACHE_TTL", "EVENT_YEAR", "RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_PER_DAY", "NOW_LEAD_MINUTES", "NOW_TAIL_MINUTES", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 2026, cfg.EventYear)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 1000, cfg.RateLimitPerDay)
	assert.Equal(t, 60*time.Minute, cfg.NowLead)
	assert.Equal(t, 120*time.Minute, cfg.NowTail)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("EVENT_YEAR", "2027")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 2027, cfg.EventYear)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad year", "EVENT_YEAR", "twenty"},
		{"bad ttl", "CACHE_TTL", "soon"},
		{"bad limit", "RATE_LIMIT_PER_MINUTE", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "test")
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "America/Denver", (&Config{Timezone: "America/Denver"}).Location().String())
	assert.Equal(t, time.UTC, (&Config{Timezone: "Nowhere/Special"}).Location())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "production", "warn").Info("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, "production", "warn").Warn("shown", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	newLogger(&buf, "development", "debug").Debug("dbg")
	assert.Contains(t, buf.String(), "msg=dbg")
}

func TestLoadFeeds(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		feeds, err := LoadFeeds(filepath.Join(t.TempDir(), "nope.yaml"), 2026)
		require.NoError(t, err)
		assert.Equal(t, DefaultFeeds(2026), feeds)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feeds.yaml")
		body := "feeds:\n  - conference: ETHDenver\n    gid: \"1\"\n  - conference: Consensus\n    gid: \"2\"\n    year: 2027\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		feeds, err := LoadFeeds(path, 2026)
		require.NoError(t, err)
		require.Len(t, feeds, 2)
		assert.Equal(t, "ETHDenver", feeds[0].Conference)
		assert.Equal(t, 2026, feeds[0].Year)
		assert.Equal(t, "2", feeds[1].GID)
		assert.Equal(t, 2027, feeds[1].Year)
	})

	t.Run("invalid entries", func(t *testing.T) {
		_, err := parseFeeds([]byte("feeds:\n  - conference: A\n"), 2026)
		require.Error(t, err)
		_, err = parseFeeds([]byte("feeds:\n  - {conference: A, gid: \"1\"}\n  - {conference: A, gid: \"2\"}\n"), 2026)
		require.Error(t, err)
		_, err = parseFeeds([]byte("feeds: []\n"), 2026)
		require.Error(t, err)
	})
}
