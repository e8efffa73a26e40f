package crawl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile_FlagsOverrideFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.txt")
	require.NoError(t, profile.SaveFile(path, profile.New([]string{"go"}, []string{"Tampere"}, true)))

	cmd := Command()
	require.NoError(t, cmd.Flags().Parse([]string{"--profile", path, "--locations", "Turku"}))

	got, err := loadProfile(cmd)
	require.NoError(t, err)

	assert.Equal(t, []string{"go"}, got.Keywords)
	assert.Equal(t, []string{"Turku"}, got.Locations)
	assert.True(t, got.SearchDescription)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	t.Parallel()

	cmd := Command()
	require.NoError(t, cmd.Flags().Parse([]string{"--profile", filepath.Join(t.TempDir(), "nope.txt")}))

	_, err := loadProfile(cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTerminalError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	tests := []struct {
		name     string
		terminal crawler.TerminalEvent
		wantErr  bool
	}{
		{name: "completed", terminal: crawler.TerminalEvent{Status: crawler.StatusCompleted}},
		{name: "cancelled", terminal: crawler.TerminalEvent{Status: crawler.StatusCancelled}},
		{name: "failed", terminal: crawler.TerminalEvent{Status: crawler.StatusFailed, Err: cause}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := terminalError(tt.terminal)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrRunFailed)
			assert.ErrorIs(t, err, cause)
		})
	}
}
