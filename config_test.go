package makerfetch_test

import (
	"testing"
	"time"

	"github.com/fwojciec/makerfetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := makerfetch.DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "P2S", cfg.TargetPrinter)
	assert.True(t, cfg.AllowRelaxed)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := map[string]func(*makerfetch.Config){
		"empty domain":      func(c *makerfetch.Config) { c.Domain = " " },
		"bad api base":      func(c *makerfetch.Config) { c.APIBaseURL = "ftp://x" },
		"zero timeout":      func(c *makerfetch.Config) { c.Timeout = 0 },
		"negative retries":  func(c *makerfetch.Config) { c.Retries = -1 },
		"zero page cap":     func(c *makerfetch.Config) { c.MaxPageBytes = 0 },
		"zero download cap": func(c *makerfetch.Config) { c.MaxDownloadBytes = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := makerfetch.DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Request(t *testing.T) {
	t.Parallel()

	t.Run("uses configured defaults", func(t *testing.T) {
		t.Parallel()

		cfg := makerfetch.DefaultConfig()
		req := cfg.Request(nil)

		assert.Equal(t, cfg.Timeout, req.Timeout)
		assert.Equal(t, cfg.Retries, req.Retries)
		assert.Equal(t, cfg.Headers["User-Agent"], req.Headers["User-Agent"])
	})

	t.Run("applies overrides without mutating config", func(t *testing.T) {
		t.Parallel()

		cfg := makerfetch.DefaultConfig()
		retries := 0
		req := cfg.Request(&makerfetch.RequestOptions{
			Timeout: 2 * time.Second,
			Retries: &retries,
			Headers: map[string]string{"User-Agent": "custom", "Cookie": "a=b"},
		})

		assert.Equal(t, 2*time.Second, req.Timeout)
		assert.Equal(t, 0, req.Retries)
		assert.Equal(t, "custom", req.Headers["User-Agent"])
		assert.Equal(t, "a=b", req.Headers["Cookie"])
		assert.Equal(t, makerfetch.DefaultUserAgent, cfg.Headers["User-Agent"])
		assert.NotContains(t, cfg.Headers, "Cookie")
	})
}
