// Package loader fetches the scraped offer payload from the scrape backend
// and tracks the page lifecycle around that single request.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/use-agent/offerpage/models"
)

// ScrapeOfferPath is the backend endpoint serving RawOfferPayload JSON.
const ScrapeOfferPath = "/api/scrape-offer"

// Loader issues GET {backendBase}/api/scrape-offer?url=... requests.
// It never retries; each Load is exactly one outbound request.
type Loader struct {
	client      *resty.Client
	backendBase string
}

type options struct {
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Loader.
type Option func(*options)

// WithTimeout bounds each request. Zero leaves the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient sends requests through a copy of hc. A timeout set with
// WithTimeout applies regardless of option order.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// New creates a Loader for the given backend base URL.
func New(backendBase string, opts ...Option) *Loader {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{
		client:      newClient(o),
		backendBase: strings.TrimRight(backendBase, "/"),
	}
}

func newClient(o options) *resty.Client {
	var c *resty.Client
	if o.httpClient != nil {
		hc := *o.httpClient
		c = resty.NewWithClient(&hc)
	} else {
		c = resty.New()
	}
	if o.timeout > 0 {
		c.SetTimeout(o.timeout)
	}
	return c.
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetLogger(slogAdapter{})
}

// RequestURL builds the backend URL for offerURL.
func (l *Loader) RequestURL(offerURL string) string {
	return l.backendBase + ScrapeOfferPath + "?url=" + url.QueryEscape(offerURL)
}

// Load fetches and decodes the payload for offerURL.
//
// Errors are *models.OfferError values: TRANSPORT_FAILURE when the request
// could not complete, HTTP_FAILURE on a non-2xx status, PARSE_FAILURE when
// the body is not JSON.
func (l *Loader) Load(ctx context.Context, offerURL string) (*models.RawOfferPayload, error) {
	reqURL := l.RequestURL(offerURL)
	start := time.Now()

	resp, err := l.client.R().SetContext(ctx).Get(reqURL)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = models.MsgGeneric
		}
		return nil, models.NewOfferError(models.ErrCodeTransport, msg, err)
	}

	slog.Debug("offer payload fetched",
		"url", reqURL,
		"status", resp.StatusCode(),
		"ms", time.Since(start).Milliseconds(),
	)

	if !resp.IsSuccess() {
		return nil, models.NewOfferError(
			models.ErrCodeHTTP,
			models.MsgFetchFailed,
			fmt.Errorf("loader: backend returned status %d", resp.StatusCode()),
		)
	}

	return DecodePayload(resp.Body())
}

// slogAdapter routes resty's internal logging through slog.
type slogAdapter struct{}

func (slogAdapter) Errorf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogAdapter) Warnf(format string, v ...interface{}) {
	slog.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (slogAdapter) Debugf(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
