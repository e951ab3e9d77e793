package timetable

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"class-notifier/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

var testCredential = Credential{
	UserID: 1,
	Fields: []CookieField{
		{Name: "CFID", Value: "a"},
		{Name: "CFTOKEN", Value: "b"},
		{Name: "SESSIONID", Value: "c"},
		{Name: "SESSIONTOKEN", Value: "d"},
	},
}

func TestCookieHeader(t *testing.T) {
	require.Equal(t, "CFID=a; CFTOKEN=b; SESSIONID=c; SESSIONTOKEN=d", CookieHeader(testCredential.Fields))
	require.Equal(t, "", CookieHeader(nil))
}

func TestFetchSendsCookies(t *testing.T) {
	var cookie atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie.Store(r.Header.Get("Cookie"))
		w.Write([]byte("<table></table>"))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{Url: server.URL, RequestsPerSecond: 100}, &telemetry.Recorder{})
	body, err := client.Fetch(context.Background(), testCredential)
	require.NoError(t, err)
	require.Equal(t, "<table></table>", body)
	require.Equal(t, "CFID=a; CFTOKEN=b; SESSIONID=c; SESSIONTOKEN=d", cookie.Load())
}

func TestFetchMissingCredentials(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{Url: server.URL}, &telemetry.Recorder{})
	_, err := client.Fetch(context.Background(), Credential{UserID: 1})
	require.ErrorIs(t, err, ErrMissingCredentials)
	require.Zero(t, calls.Load())
}

func TestFetchNonSuccessStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	tel := &telemetry.Recorder{}
	client := NewClient(ClientOptions{Url: server.URL, RequestsPerSecond: 100}, tel)
	_, err := client.Fetch(context.Background(), testCredential)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusForbidden, fetchErr.Status)
	require.EqualValues(t, 1, calls.Load(), "fetch must not retry")
	require.Len(t, tel.Reports("warning"), 1)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(ClientOptions{
		Url:               server.URL,
		Timeout:           time.Millisecond * 50,
		RequestsPerSecond: 100,
	}, &telemetry.Recorder{})
	_, err := client.Fetch(context.Background(), testCredential)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Zero(t, fetchErr.Status)
	require.Error(t, fetchErr.Cause)
}

func TestFetchDumpsPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<table><tr><td>Period 1</td></tr></table>"))
	}))
	defer server.Close()

	dir := t.TempDir()
	client := NewClient(ClientOptions{Url: server.URL, RequestsPerSecond: 100, DumpDir: dir}, &telemetry.Recorder{})
	_, err := client.Fetch(context.Background(), testCredential)
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(dir, "1.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), "Period 1")
}
