package restyutil

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// redacted headers carry session secrets and are never written out.
var redacted = map[string]bool{
	"Cookie":        true,
	"Set-Cookie":    true,
	"Authorization": true,
}

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{}
	for _, k := range keys {
		for _, v := range headers[k] {
			if redacted[http.CanonicalHeaderKey(k)] {
				v = "<redacted>"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(lines, "\n")
}

func formatRequestBody(req *http.Request) string {
	if req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	if body == nil {
		return "<NO BODY AVAILABLE>"
	}
	readBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return string(readBody)
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: request body
// 5: response status
// 6: response url
// 7: response headers in ("Key: Value" format)
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s %s

%s
`

// FormatHttpMessage renders the request and the response headers of res, the
// response body is left out.
func FormatHttpMessage(res *resty.Response) string {
	requestHeaders := formatHeaders(res.Request.RawRequest.Header)
	responseHeaders := formatHeaders(res.Header())

	responseUrl := res.Request.URL
	if res.RawResponse != nil {
		redirected, err := res.RawResponse.Location()
		if err == nil {
			responseUrl = redirected.String()
		}
	}

	return fmt.Sprintf(
		messageInfoTemplate,

		res.Request.Method, res.Request.URL,
		requestHeaders,
		formatRequestBody(res.Request.RawRequest),

		strconv.Itoa(res.StatusCode()), responseUrl,
		responseHeaders,
	)
}

// FilesystemOutput writes every response of a client into a directory, as
// <n>.http (the exchange) and <n>.html (the body).
type FilesystemOutput struct {
	directory string
	counter   *uint64
}

// NewFilesystemOutput creates dir if it does not exist yet. Files from a
// previous run are overwritten as the counter starts from 1 again.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir, counter: new(uint64)}, nil
}

func (o FilesystemOutput) write(name string, contents []byte) {
	err := os.WriteFile(filepath.Join(o.directory, name), contents, 0600)
	if err != nil {
		slog.Warn("failed to write response dump", "file", name, "err", err)
	}
}

// Dump registers a hook on client that writes every response to out.
func Dump(client *resty.Client, out FilesystemOutput) {
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(out.counter, 1)
		out.write(fmt.Sprintf("%d.http", id), []byte(FormatHttpMessage(res)))
		out.write(fmt.Sprintf("%d.html", id), res.Body())
		return nil
	})
}
