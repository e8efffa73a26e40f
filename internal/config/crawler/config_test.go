package crawler_test

import (
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/config/crawler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cfg := crawler.New()
	assert.Equal(t, crawler.DefaultOrigin, cfg.Origin)
	assert.Equal(t, crawler.DefaultDelay, cfg.Delay)
	assert.Equal(t, crawler.DefaultUserAgent, cfg.UserAgent)
	require.NoError(t, cfg.Validate())

	custom := crawler.New(
		crawler.WithOrigin("http://127.0.0.1:8080/"),
		crawler.WithDelay(0),
		crawler.WithUserAgent("test/1.0"),
		crawler.WithRequestTimeout(time.Second),
		crawler.WithEventBuffer(0),
	)
	assert.Equal(t, "http://127.0.0.1:8080", custom.Origin)
	assert.Zero(t, custom.Delay)
	assert.Equal(t, "test/1.0", custom.UserAgent)
	assert.Equal(t, time.Second, custom.RequestTimeout)
	assert.Zero(t, custom.EventBuffer)
	require.NoError(t, custom.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*crawler.Config)
		wantErr bool
	}{
		{"defaults", func(*crawler.Config) {}, false},
		{"relative origin", func(c *crawler.Config) { c.Origin = "/tyopaikat" }, true},
		{"negative delay", func(c *crawler.Config) { c.Delay = -time.Second }, true},
		{"negative timeout", func(c *crawler.Config) { c.RequestTimeout = -1 }, true},
		{"negative body size", func(c *crawler.Config) { c.MaxBodySize = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := crawler.New()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestSetDefaultsKeepsZeroDelay(t *testing.T) {
	t.Parallel()

	cfg := &crawler.Config{}
	cfg.SetDefaults()
	assert.Zero(t, cfg.Delay)
	assert.Equal(t, crawler.DefaultOrigin, cfg.Origin)
	assert.Equal(t, crawler.DefaultEventBuffer, cfg.EventBuffer)
}

func TestParseDelay(t *testing.T) {
	t.Parallel()

	d, err := crawler.ParseDelay("250ms")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	d, err = crawler.ParseDelay("0.5")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)

	_, err = crawler.ParseDelay("")
	require.Error(t, err)

	_, err = crawler.ParseDelay("soon")
	require.Error(t, err)
}
