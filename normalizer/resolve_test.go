package normalizer

import (
	"net/url"
	"testing"

	"github.com/use-agent/offerpage/models"
)

func TestResolveImages(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // empty means skipped
	}{
		{"root relative", "/img/a.png", "https://example.com/img/a.png"},
		{"path relative", "img/a.png", "https://example.com/offer/img/a.png"},
		{"parent relative", "../a.png", "https://example.com/a.png"},
		{"absolute passthrough", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"absolute http passthrough", "http://cdn.example.com/a.png?x=1", "http://cdn.example.com/a.png?x=1"},
		{"protocol relative", "//cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"http-prefixed relative", "http-banner.png", "https://example.com/offer/http-banner.png"},
		{"surrounding spaces", "  /a.png ", "https://example.com/a.png"},
		{"absolute with surrounding spaces", " https://cdn.example.com/a.png\n", "https://cdn.example.com/a.png"},
		{"absolute keeps inner text verbatim", "https://cdn.example.com/A%20b.png#frag", "https://cdn.example.com/A%20b.png#frag"},
		{"empty", "", ""},
		{"data uri", "data:image/png;base64,AAAA", ""},
		{"javascript", "javascript:alert(1)", ""},
		{"malformed escape", "/img/%zz.png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveImages([]models.Image{{Src: tt.src, Alt: "x"}}, testBase)
			if tt.want == "" {
				if len(got) != 0 {
					t.Errorf("expected %q to be skipped, got %+v", tt.src, got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("expected one image, got %+v", got)
			}
			if got[0].Src != tt.want {
				t.Errorf("src = %q, want %q", got[0].Src, tt.want)
			}
			if got[0].Alt != "x" {
				t.Errorf("alt = %q, want preserved %q", got[0].Alt, "x")
			}
		})
	}
}

func TestResolveImages_SkipKeepsOthers(t *testing.T) {
	in := []models.Image{
		{Src: "/a.png"},
		{Src: "/bad/%zz"},
		{Src: "https://cdn.example.com/c.png"},
	}
	got := ResolveImages(in, testBase)
	if len(got) != 2 {
		t.Fatalf("expected 2 images, got %d: %+v", len(got), got)
	}
	if got[0].Src != "https://example.com/a.png" || got[1].Src != "https://cdn.example.com/c.png" {
		t.Errorf("unexpected images: %+v", got)
	}
}

func TestResolveImages_AlwaysAbsolute(t *testing.T) {
	in := []models.Image{{Src: "a"}, {Src: "/b"}, {Src: "?c"}, {Src: "#d"}, {Src: "https://x.test/e"}}
	for _, img := range ResolveImages(in, testBase) {
		u, err := url.Parse(img.Src)
		if err != nil || !u.IsAbs() || u.Host == "" {
			t.Errorf("src %q is not an absolute URL", img.Src)
		}
	}
}

func TestResolveImages_UnusableBase(t *testing.T) {
	in := []models.Image{{Src: "/a.png"}, {Src: "https://cdn.example.com/b.png"}}
	got := ResolveImages(in, "not a url")
	if len(got) != 1 || got[0].Src != "https://cdn.example.com/b.png" {
		t.Errorf("expected only the absolute image, got %+v", got)
	}
}
