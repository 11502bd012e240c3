// Package scrapeoffer is a bundled implementation of the scrape backend
// contract: it fetches an offer page and extracts a RawOfferPayload from it.
package scrapeoffer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"golang.org/x/net/html/charset"

	"github.com/use-agent/offerpage/models"
)

const (
	chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	// maxBody caps how much of a page is read.
	maxBody = 10 << 20
)

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Go's http.Transport cannot speak h2 over a utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// Page is a fetched offer page.
type Page struct {
	HTML       string
	FinalURL   string
	StatusCode int
}

// Fetcher retrieves pages over plain HTTP with a Chrome TLS fingerprint.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration

	// checkTarget, when set, vets every redirect hop.
	checkTarget func(*url.URL) error
}

// NewFetcher creates a Fetcher. timeout bounds each Fetch; zero disables it.
func NewFetcher(timeout time.Duration) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("scrapeoffer: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	f := &Fetcher{timeout: timeout}
	f.client = &http.Client{
		Transport:     transport,
		CheckRedirect: f.checkRedirect,
	}
	return f
}

// GuardRedirects makes the fetcher refuse any redirect whose location
// fails check. The error from check is returned from Fetch unchanged.
func (f *Fetcher) GuardRedirects(check func(*url.URL) error) {
	f.checkTarget = check
}

func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return fmt.Errorf("too many redirects")
	}
	if f.checkTarget != nil {
		if err := f.checkTarget(req.URL); err != nil {
			return err
		}
	}
	return nil
}

// Fetch downloads targetURL and returns its HTML decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, models.NewOfferError(models.ErrCodeInvalidInput, "invalid target URL", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		var oe *models.OfferError
		if errors.As(err, &oe) {
			return nil, oe
		}
		return nil, models.NewOfferError(models.ErrCodeTransport, "failed to reach target page", err)
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewOfferError(models.ErrCodeHTTP,
			fmt.Sprintf("target page returned status %d", resp.StatusCode), nil)
	}
	if !isHTMLContentType(ct) {
		return nil, models.NewOfferError(models.ErrCodeHTTP,
			fmt.Sprintf("target page is not HTML (content-type: %s)", ct), nil)
	}

	var body io.Reader = io.LimitReader(resp.Body, maxBody)
	if decoded, err := charset.NewReader(body, ct); err == nil {
		body = decoded
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, models.NewOfferError(models.ErrCodeTransport, "failed to read target page", err)
	}

	return &Page{
		HTML:       string(raw),
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
	}, nil
}

// isHTMLContentType returns true if the content-type header looks like HTML.
// A missing header is accepted; servers often omit it for static pages.
func isHTMLContentType(ct string) bool {
	if ct == "" {
		return true
	}
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
