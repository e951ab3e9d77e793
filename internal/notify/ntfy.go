// Package notify delivers reminder messages to ntfy topics.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"class-notifier/internal/components/assert"
	"class-notifier/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	report_ntfy_notify = "ntfy.notify"
)

const DefaultBaseUrl = "https://ntfy.sh"

const topicPrefix = "class_notifier_"

// Topic is the ntfy topic a user subscribes to, it is always derived from the
// username and never stored.
func Topic(username string) string {
	return topicPrefix + username
}

// DispatchError is any failure to publish a message. Status is 0 when no
// response was received.
type DispatchError struct {
	Topic  string
	Status int
	Cause  error
}

func (e *DispatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dispatch to %q: %s", e.Topic, e.Cause.Error())
	}
	return fmt.Sprintf("dispatch to %q: unexpected status %d", e.Topic, e.Status)
}

func (e *DispatchError) Unwrap() error {
	return e.Cause
}

var errEmptyTopic = errors.New("empty topic")

type NtfyOptions struct {
	// BaseUrl of the ntfy server, defaults to DefaultBaseUrl.
	BaseUrl string
	// Timeout of a single publish, defaults to 10 seconds.
	Timeout time.Duration
}

// NtfyClient publishes plain text messages to ntfy.
type NtfyClient struct {
	http    *resty.Client
	baseUrl string
	tel     telemetry.API
}

func NewNtfyClient(opts NtfyOptions, tel telemetry.API) *NtfyClient {
	assert.NotNil(tel, "telemetry")
	tel = telemetry.NewScopedAPI("notify", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 10
	}

	httpClient := resty.New()
	httpClient.SetTimeout(opts.Timeout)
	telemetry.InstrumentResty(httpClient, tel)

	return &NtfyClient{
		http:    httpClient,
		baseUrl: strings.TrimSuffix(opts.BaseUrl, "/"),
		tel:     tel,
	}
}

// Notify posts message to topic exactly once.
func (c *NtfyClient) Notify(ctx context.Context, message, topic string) error {
	if topic == "" {
		return &DispatchError{Topic: topic, Cause: errEmptyTopic}
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetBody(message).
		Post(fmt.Sprintf("%s/%s", c.baseUrl, url.PathEscape(topic)))
	if err != nil {
		c.tel.ReportBroken(report_ntfy_notify, err, topic)
		return &DispatchError{Topic: topic, Cause: err}
	}
	if !res.IsSuccess() {
		c.tel.ReportBroken(report_ntfy_notify, topic, res.StatusCode())
		return &DispatchError{Topic: topic, Status: res.StatusCode()}
	}

	c.tel.ReportDebug("notification sent", topic)
	return nil
}
