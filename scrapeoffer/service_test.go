package scrapeoffer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/use-agent/offerpage/cache"
	"github.com/use-agent/offerpage/models"
)

func TestValidateTarget(t *testing.T) {
	s := NewService(nil, nil, []string{"Example.com"})

	tests := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"allowed", "https://example.com/offer/1", ""},
		{"allowed case-insensitive", "https://EXAMPLE.com/offer/1", ""},
		{"empty", "", models.ErrCodeInvalidInput},
		{"relative", "/offer/1", models.ErrCodeInvalidInput},
		{"ftp", "ftp://example.com/x", models.ErrCodeInvalidInput},
		{"other host", "https://evil.test/", models.ErrCodeForbiddenTarget},
		{"metadata endpoint", "http://169.254.169.254/latest", models.ErrCodeForbiddenTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ValidateTarget(tt.target)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var oe *models.OfferError
			if !errors.As(err, &oe) || oe.Code != tt.wantCode {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidateTarget_AnyHost(t *testing.T) {
	s := NewService(nil, nil, []string{AnyHost})
	if _, err := s.ValidateTarget("https://anything.test/"); err != nil {
		t.Errorf("wildcard allow-list rejected target: %v", err)
	}
}

func TestValidateTarget_EmptyAllowList(t *testing.T) {
	s := NewService(nil, nil, nil)
	if _, err := s.ValidateTarget("https://example.com/"); err == nil {
		t.Error("empty allow-list should reject every host")
	}
}

func TestScrape_FetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(offerHTML))
	}))
	defer srv.Close()

	s := NewService(NewFetcher(5*time.Second), cache.New(10, time.Minute), []string{"127.0.0.1"})

	for i := 0; i < 3; i++ {
		payload, err := s.Scrape(context.Background(), srv.URL+"/offer/xyz")
		if err != nil {
			t.Fatalf("Scrape: %v", err)
		}
		if len(payload.Headings) == 0 || payload.Headings[0] != "DevOps Bootcamp" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		if payload.Images[0].Src != srv.URL+"/img/hero.png" {
			t.Errorf("image src = %q", payload.Images[0].Src)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("target fetched %d times, want 1 (cached)", n)
	}
}

func TestScrape_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewService(NewFetcher(5*time.Second), nil, []string{"127.0.0.1"})
	_, err := s.Scrape(context.Background(), srv.URL)

	var oe *models.OfferError
	if !errors.As(err, &oe) || oe.Code != models.ErrCodeHTTP {
		t.Fatalf("expected HTTP_FAILURE, got %v", err)
	}
}

func TestScrape_NonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	s := NewService(NewFetcher(5*time.Second), nil, []string{"127.0.0.1"})
	if _, err := s.Scrape(context.Background(), srv.URL); err == nil {
		t.Error("non-HTML target should fail")
	}
}

func TestScrape_RedirectOffAllowList(t *testing.T) {
	var secretHits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secretHits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>internal</title></head></html>`))
	}))
	defer internal.Close()

	// Same listener, reached through a host name that is not allowed.
	internalByName := strings.Replace(internal.URL, "127.0.0.1", "localhost", 1) + "/secret"

	front := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, internalByName, http.StatusFound)
	}))
	defer front.Close()

	s := NewService(NewFetcher(5*time.Second), nil, []string{"127.0.0.1"})
	payload, err := s.Scrape(context.Background(), front.URL+"/offer")

	var oe *models.OfferError
	if !errors.As(err, &oe) || oe.Code != models.ErrCodeForbiddenTarget {
		t.Fatalf("expected FORBIDDEN_TARGET, got payload=%+v err=%v", payload, err)
	}
	if n := secretHits.Load(); n != 0 {
		t.Errorf("forbidden host was requested %d times", n)
	}
}

func TestScrape_RedirectWithinAllowList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/offer/xyz", http.StatusMovedPermanently)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(offerHTML))
	}))
	defer srv.Close()

	s := NewService(NewFetcher(5*time.Second), nil, []string{"127.0.0.1"})
	payload, err := s.Scrape(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(payload.Headings) == 0 || payload.Headings[0] != "DevOps Bootcamp" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

// unguardedFetcher reports a final URL without vetting redirects itself.
type unguardedFetcher struct{ finalURL string }

func (f unguardedFetcher) Fetch(_ context.Context, _ string) (*Page, error) {
	return &Page{HTML: offerHTML, FinalURL: f.finalURL, StatusCode: http.StatusOK}, nil
}

func TestScrape_FinalURLOffAllowList(t *testing.T) {
	s := NewService(unguardedFetcher{finalURL: "http://169.254.169.254/latest"}, nil, []string{"example.com"})
	_, err := s.Scrape(context.Background(), "https://example.com/offer")

	var oe *models.OfferError
	if !errors.As(err, &oe) || oe.Code != models.ErrCodeForbiddenTarget {
		t.Fatalf("expected FORBIDDEN_TARGET, got %v", err)
	}
}
