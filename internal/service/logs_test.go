package service

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatLogLine(t *testing.T) {
	brisbane, err := time.LoadLocation("Australia/Brisbane")
	require.NoError(t, err)

	table := []struct {
		line     string
		expected string
	}{
		{
			line:     `{"time":"2024-05-16T21:55:00.123Z","level":"INFO","msg":"notification sent","topic":"class_notifier_alice"}`,
			expected: "07:55:00 INFO notification sent topic=class_notifier_alice",
		},
		{
			line:     "2024-05-16T21:55:00Z info: Found 6 classes.",
			expected: "07:55:00 info: Found 6 classes.",
		},
		{
			line:     "garbage line",
			expected: "Invalid timestamp: garbage line",
		},
		{
			line:     `{"level":"INFO","msg":"no time"}`,
			expected: `Invalid timestamp: {"level":"INFO","msg":"no time"}`,
		},
	}

	for _, row := range table {
		require.Equal(t, row.expected, FormatLogLine(row.line, brisbane))
	}
}

func TestLogsReturnsLastLines(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "server.log")
	lines := []string{}
	for i := 0; i < 40; i++ {
		lines = append(lines, fmt.Sprintf(`{"time":"2024-05-16T00:00:%02dZ","level":"INFO","msg":"line %d"}`, i, i))
	}
	require.NoError(t, os.WriteFile(logFile, []byte(strings.Join(lines, "\n")+"\n\n"), 0644))

	s := newTestServer(nil, nil, nil, Options{LogFile: logFile, Location: time.UTC})
	rec := serve(s, http.MethodGet, "/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[[]string](t, rec)
	require.Len(t, out, 30)
	require.Equal(t, "00:00:10 INFO line 10", out[0])
	require.Equal(t, "00:00:39 INFO line 39", out[29])
}

func TestLogsMissingFile(t *testing.T) {
	s := newTestServer(nil, nil, nil, Options{LogFile: filepath.Join(t.TempDir(), "missing.log")})
	rec := serve(s, http.MethodGet, "/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}
