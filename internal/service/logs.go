package service

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

// tailLines returns at most n of the last non-empty lines of path.
func tailLines(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, line)
	}
	return ring, scanner.Err()
}

// formatJSONLine renders a slog JSON record as "<level> <msg> <key=value...>".
func formatJSONLine(record map[string]any) string {
	parts := []string{}
	if level, ok := record["level"].(string); ok {
		parts = append(parts, level)
	}
	if msg, ok := record["msg"].(string); ok {
		parts = append(parts, msg)
	}

	keys := []string{}
	for k := range record {
		switch k {
		case "time", "level", "msg":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, record[k]))
	}
	return strings.Join(parts, " ")
}

// FormatLogLine rewrites a log line as "HH:MM:SS <rest>" in loc. Lines are
// either slog JSON records or plain text starting with an RFC3339 timestamp,
// anything else is returned as "Invalid timestamp: <line>".
func FormatLogLine(line string, loc *time.Location) string {
	var record map[string]any
	if json.Unmarshal([]byte(line), &record) == nil {
		raw, _ := record["time"].(string)
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return "Invalid timestamp: " + line
		}
		return fmt.Sprintf("%s %s", ts.In(loc).Format(time.TimeOnly), formatJSONLine(record))
	}

	raw, rest, _ := strings.Cut(line, " ")
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return "Invalid timestamp: " + line
	}
	return fmt.Sprintf("%s %s", ts.In(loc).Format(time.TimeOnly), rest)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if s.opts.LogFile == "" {
		writeError(w, http.StatusInternalServerError, "Error fetching logs")
		return
	}

	lines, err := tailLines(s.opts.LogFile, s.opts.LogLines)
	if errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusOK, []string{})
		return
	}
	if err != nil {
		s.tel.ReportBroken(report_service_logs, err)
		writeError(w, http.StatusInternalServerError, "Error fetching logs")
		return
	}

	formatted := make([]string, len(lines))
	for i, line := range lines {
		formatted[i] = FormatLogLine(line, s.opts.Location)
	}
	writeJSON(w, http.StatusOK, formatted)
}
