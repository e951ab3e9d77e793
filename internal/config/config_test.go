package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"class-notifier/internal/schedule"
	"class-notifier/internal/timetable"

	"github.com/stretchr/testify/require"
)

func TestReadMissingUsesDefaults(t *testing.T) {
	cfg, err := Read(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	require.Equal(t, 3000, cfg.Port)
	require.Equal(t, "Australia/Brisbane", cfg.Timezone)
	require.Equal(t, "server.log", cfg.LogFile)
	require.EqualValues(t, 1, cfg.DemoUserID)
	require.Equal(t, timetable.DefaultPortalUrl, cfg.Portal.Url)
	require.Equal(t, schedule.DefaultTable, cfg.Schedule)
	require.Nil(t, cfg.NotifierOptions().SportRule)
}

func TestReadOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{
		port: 8080,
		database: { url: "libsql://example.turso.io", auth_token: "secret" },
		portal: { timeout_seconds: 5, requests_per_second: 1 },
		notifier: {
			concurrency: 8,
			sport_rule: { weekday: 5, label: "Friday Sport" },
		},
		schedule: [
			{ at: "07:30", weekdays: [1, 2, 3, 4, 5], action: "uniform" },
		],
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{port: 9090}`), 0644))

	cfg, err := Read(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "libsql://example.turso.io", cfg.Database.Url)
	require.Empty(t, cfg.Database.File)
	require.Equal(t, 5*time.Second, cfg.ClientOptions().Timeout)
	require.Len(t, cfg.Schedule, 1)

	opts := cfg.NotifierOptions()
	require.Equal(t, 8, opts.Concurrency)
	require.Equal(t, &timetable.SportRule{Weekday: time.Friday, Label: "Friday Sport"}, opts.SportRule)
}

func TestReadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{
		timezone: "Mars/Olympus",
		schedule: [{ at: "25:00", weekdays: [1], action: "class", period: 1 }],
	}`), 0644))

	_, err := Read(filepath.Join(dir, FileName))
	require.ErrorContains(t, err, "timezone")
	require.ErrorContains(t, err, "schedule")
}
