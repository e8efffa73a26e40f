package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/config"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/config/crawler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
app:
  environment: test
logger:
  level: warn
  format: console
crawler:
  origin: http://127.0.0.1:9999
  delay: 250ms
  user_agent: test-agent
server:
  address: ":9090"
elasticsearch:
  enabled: true
  index: jobs_test
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NotNil(t, cfg.Crawler)
	assert.Equal(t, crawler.DefaultOrigin, cfg.Crawler.Origin)
	assert.Equal(t, crawler.DefaultDelay, cfg.Crawler.Delay)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "job_listings", cfg.Elasticsearch.Index)
	assert.False(t, cfg.Elasticsearch.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, testConfigYAML)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.Crawler.Origin)
	assert.Equal(t, 250*time.Millisecond, cfg.Crawler.Delay)
	assert.Equal(t, "test-agent", cfg.Crawler.UserAgent)
	assert.Equal(t, crawler.DefaultTimeout, cfg.Crawler.RequestTimeout)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.True(t, cfg.Elasticsearch.Enabled)
	assert.Equal(t, "jobs_test", cfg.Elasticsearch.Index)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, testConfigYAML)
	t.Setenv("CRAWLER_DELAY", "2s")
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("APP_DEBUG", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Crawler.Delay)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	var loadErr *config.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "crawler:\n  origin: not-a-url\n")
	_, err := config.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigInvalid)

	var validationErr *config.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "crawler", validationErr.Field)
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "crawler: [unterminated")
	_, err := config.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigParseFailed)
}
