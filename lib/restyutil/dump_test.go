package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestDumpRedactsCookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Portal", "1")
		w.Write([]byte("<table></table>"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	client := resty.New()
	Dump(client, out)

	_, err = client.R().SetHeader("Cookie", "CFID=secret").Get(server.URL)
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "1.html"))
	require.NoError(t, err)
	require.Equal(t, "<table></table>", string(body))

	message, err := os.ReadFile(filepath.Join(dir, "1.http"))
	require.NoError(t, err)
	require.Contains(t, string(message), "Cookie: <redacted>")
	require.NotContains(t, string(message), "secret")
	require.Contains(t, string(message), "X-Portal: 1")
	require.Contains(t, string(message), "200 "+server.URL)
	require.Contains(t, string(message), "<NO BODY AVAILABLE>")
}
