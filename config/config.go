package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultOfferURL is the offer page the landing page summarizes.
const DefaultOfferURL = "https://devopswithvikas.com/offer/0faab342-e96f-4a5d-ae4b-f152fc28fda9"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Offer     OfferConfig
	Backend   BackendConfig
	Scrape    ScrapeConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// LocalURL is the base URL at which this process reaches itself.
func (s ServerConfig) LocalURL() string {
	host := s.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, s.Port)
}

// OfferConfig identifies the offer being presented.
type OfferConfig struct {
	// URL is the original offer page. default: DefaultOfferURL
	URL string
}

// BackendConfig points at the scrape backend.
type BackendConfig struct {
	// BaseURL is prepended to /api/scrape-offer. Empty means this
	// service's own bundled backend (same origin).
	BaseURL string

	// Timeout bounds the single offer request. Zero means no extra bound.
	Timeout time.Duration // default: 0
}

// ScrapeConfig controls the bundled /api/scrape-offer implementation.
type ScrapeConfig struct {
	// Enabled mounts GET /api/scrape-offer on this service.
	Enabled bool // default: true

	// Timeout is the per-fetch deadline for the target page.
	Timeout time.Duration // default: 15s

	// AllowedHosts restricts which hosts may be scraped.
	// default: the host of the offer URL
	AllowedHosts []string

	// CacheTTL is how long a scraped payload is reused.
	CacheTTL time.Duration // default: 10m

	// CacheMaxEntries caps the number of cached payloads.
	CacheMaxEntries int // default: 100
}

// RateLimitConfig controls per-client rate limiting on the API group.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per client IP. Zero rejects every
	// non-loopback API call; loopback peers, including the same-origin
	// loader fetch, are never limited.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	offerURL := envOr("OFFERPAGE_OFFER_URL", DefaultOfferURL)

	return &Config{
		Server: ServerConfig{
			Host: envOr("OFFERPAGE_HOST", "0.0.0.0"),
			Port: envIntOr("OFFERPAGE_PORT", 8080),
			Mode: envOr("OFFERPAGE_MODE", "release"),
		},
		Offer: OfferConfig{
			URL: offerURL,
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimSpace(os.Getenv("OFFERPAGE_BACKEND_URL")),
			Timeout: envDurationOr("OFFERPAGE_BACKEND_TIMEOUT", 0),
		},
		Scrape: ScrapeConfig{
			Enabled:         envBoolOr("OFFERPAGE_SCRAPE_ENABLED", true),
			Timeout:         envDurationOr("OFFERPAGE_SCRAPE_TIMEOUT", 15*time.Second),
			AllowedHosts:    envSliceOr("OFFERPAGE_SCRAPE_ALLOWED_HOSTS", hostOf(offerURL)),
			CacheTTL:        envDurationOr("OFFERPAGE_SCRAPE_CACHE_TTL", 10*time.Minute),
			CacheMaxEntries: envIntOr("OFFERPAGE_SCRAPE_CACHE_MAX", 100),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("OFFERPAGE_RATE_RPS", 2.0),
			Burst:             envIntOr("OFFERPAGE_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("OFFERPAGE_LOG_LEVEL", "info"),
			Format: envOr("OFFERPAGE_LOG_FORMAT", "json"),
		},
	}
}

// BackendBase returns the scrape backend base URL the loader should use.
func (c *Config) BackendBase() string {
	if c.Backend.BaseURL != "" {
		return c.Backend.BaseURL
	}
	return c.Server.LocalURL()
}

func hostOf(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	return []string{u.Hostname()}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
