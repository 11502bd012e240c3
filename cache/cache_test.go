package cache

import (
	"testing"
	"time"

	"github.com/use-agent/offerpage/models"
)

func TestCache_SetGet(t *testing.T) {
	c := newCache(10, time.Minute)
	p := &models.RawOfferPayload{Title: "T"}

	c.Set(Key(" https://a.test/x "), p)
	got, ok := c.Get("https://a.test/x")
	if !ok || got != p {
		t.Fatalf("expected hit for stored payload, got %v %v", got, ok)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := newCache(10, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", &models.RawOfferPayload{})
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should miss")
	}
	c.evictExpired()
	if c.Len() != 0 {
		t.Errorf("Len = %d after eviction, want 0", c.Len())
	}
}

func TestCache_Capacity(t *testing.T) {
	c := newCache(2, time.Minute)
	c.Set("a", &models.RawOfferPayload{})
	c.Set("b", &models.RawOfferPayload{})
	c.Set("c", &models.RawOfferPayload{})

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newest entry should be present")
	}

	// Overwriting an existing key must not evict anything.
	c.Set("c", &models.RawOfferPayload{Title: "again"})
	if c.Len() != 2 {
		t.Errorf("Len = %d after overwrite, want 2", c.Len())
	}
}

func TestCache_DisabledWithZeroTTL(t *testing.T) {
	c := newCache(10, 0)
	c.Set("k", &models.RawOfferPayload{})
	if _, ok := c.Get("k"); ok {
		t.Error("zero TTL should disable caching")
	}
}
