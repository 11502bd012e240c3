package scrapeoffer

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/use-agent/offerpage/cache"
	"github.com/use-agent/offerpage/models"
)

// AnyHost in the allow-list permits scraping every host.
const AnyHost = "*"

// PageFetcher retrieves a page's HTML.
type PageFetcher interface {
	Fetch(ctx context.Context, targetURL string) (*Page, error)
}

// redirectGuard is implemented by fetchers that can vet redirect hops.
type redirectGuard interface {
	GuardRedirects(check func(*url.URL) error)
}

// Service answers scrape-offer requests: it validates the target, serves
// cached payloads, and otherwise fetches and extracts the page.
type Service struct {
	fetcher PageFetcher
	cache   *cache.Cache
	allowed map[string]struct{}
}

// NewService creates a Service. cc may be nil to disable caching. Only
// hosts in allowedHosts may be scraped, redirect hops included; an empty
// list allows none.
func NewService(fetcher PageFetcher, cc *cache.Cache, allowedHosts []string) *Service {
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed[h] = struct{}{}
		}
	}
	s := &Service{fetcher: fetcher, cache: cc, allowed: allowed}
	if g, ok := fetcher.(redirectGuard); ok {
		g.GuardRedirects(s.checkHost)
	}
	return s
}

// ValidateTarget checks that raw is an absolute http(s) URL on an allowed host.
func (s *Service) ValidateTarget(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, models.NewOfferError(models.ErrCodeInvalidInput, "url query parameter is required", nil)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, models.NewOfferError(models.ErrCodeInvalidInput, "url is not a valid URL", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, models.NewOfferError(models.ErrCodeInvalidInput, "url must be an absolute http(s) URL", nil)
	}
	if err := s.checkHost(u); err != nil {
		return nil, err
	}
	return u, nil
}

// checkHost rejects URLs that are not http(s) on an allowed host.
func (s *Service) checkHost(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return models.NewOfferError(models.ErrCodeForbiddenTarget, "scraping this scheme is not allowed", nil)
	}
	if _, all := s.allowed[AnyHost]; all {
		return nil
	}
	if _, ok := s.allowed[strings.ToLower(u.Hostname())]; !ok {
		return models.NewOfferError(models.ErrCodeForbiddenTarget, "scraping this host is not allowed", nil)
	}
	return nil
}

// Scrape returns the payload for targetURL.
func (s *Service) Scrape(ctx context.Context, targetURL string) (*models.RawOfferPayload, error) {
	u, err := s.ValidateTarget(targetURL)
	if err != nil {
		return nil, err
	}
	target := u.String()

	key := cache.Key(target)
	if s.cache != nil {
		if cached, hit := s.cache.Get(key); hit {
			slog.Debug("scrape-offer cache hit", "url", target)
			return cached, nil
		}
	}

	start := time.Now()
	page, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	// Fetchers without redirect vetting still must not land off-list.
	if final, perr := url.Parse(page.FinalURL); perr != nil || s.checkHost(final) != nil {
		slog.Warn("scrape-offer target redirected off the allow-list",
			"url", target,
			"final_url", page.FinalURL,
		)
		return nil, models.NewOfferError(models.ErrCodeForbiddenTarget, "scraping this host is not allowed", perr)
	}
	payload := Extract(page.HTML, page.FinalURL)

	slog.Info("offer page scraped",
		"url", target,
		"final_url", page.FinalURL,
		"headings", len(payload.Headings),
		"bullets", len(payload.Bullets),
		"images", len(payload.Images),
		"ms", time.Since(start).Milliseconds(),
	)

	if s.cache != nil {
		s.cache.Set(key, payload)
	}
	return payload, nil
}
