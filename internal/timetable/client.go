package timetable

import (
	"context"
	"fmt"
	"strings"
	"time"

	"class-notifier/internal/components/assert"
	"class-notifier/internal/components/telemetry"
	"class-notifier/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch = "client.fetch"
	report_client_dump  = "client.dump"
)

// DefaultPortalUrl is the student portal home, whose markup contains the timetable.
const DefaultPortalUrl = "https://tassweb.salc.qld.edu.au/studentcafe/index.cfm?do=studentportal.home"

type ClientOptions struct {
	// Url is the page the timetable is scraped from, defaults to DefaultPortalUrl.
	Url string
	// Timeout of a single fetch, defaults to 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond limits how fast the portal is hit across all users,
	// defaults to 2.
	RequestsPerSecond float64
	// CloudflareBypass wraps the transport with browser-like TLS and headers.
	CloudflareBypass bool
	// DumpDir, when set, receives every fetched page with its (redacted)
	// request, for debugging the parser against what the portal returned.
	DumpDir string
}

// Client fetches the raw timetable html of a user.
type Client struct {
	http *resty.Client
	url  string
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel, "telemetry")
	tel = telemetry.NewScopedAPI("timetable", tel)

	if opts.Url == "" {
		opts.Url = DefaultPortalUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetTimeout(opts.Timeout)

	// max burst >= rps just means that no requests will be dropped
	burst := int(opts.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)

	if opts.DumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			tel.ReportBroken(report_client_dump, err, opts.DumpDir)
		} else {
			restyutil.Dump(httpClient, out)
		}
	}

	return &Client{
		http: httpClient,
		url:  opts.Url,
		tel:  tel,
	}
}

// CookieHeader joins the fields as "name=value; name=value" in their given order.
func CookieHeader(fields []CookieField) string {
	pairs := make([]string, len(fields))
	for i, f := range fields {
		pairs[i] = fmt.Sprintf("%s=%s", f.Name, f.Value)
	}
	return strings.Join(pairs, "; ")
}

// Fetch performs a single GET of the portal page with the credential's cookies.
// It is not retried, any failure is returned as a *FetchError.
func (c *Client) Fetch(ctx context.Context, cred Credential) (string, error) {
	if len(cred.Fields) == 0 {
		return "", ErrMissingCredentials
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Cookie", CookieHeader(cred.Fields)).
		Get(c.url)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, err, cred.UserID)
		return "", &FetchError{Cause: err}
	}
	if !res.IsSuccess() {
		c.tel.ReportWarning(report_client_fetch, cred.UserID, res.StatusCode())
		return "", &FetchError{Status: res.StatusCode()}
	}
	return string(res.Body()), nil
}
