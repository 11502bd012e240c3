package normalizer

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/use-agent/offerpage/models"
)

// ResolveImages returns images with every src made absolute against
// baseURL. Entries whose src is empty or cannot be resolved to an http(s)
// URL are skipped so one bad entry never blanks the rest.
func ResolveImages(images []models.Image, baseURL string) []models.Image {
	out := make([]models.Image, 0, len(images))

	base, err := url.Parse(baseURL)
	if err != nil || !isWebURL(base) {
		base = nil
	}

	for _, img := range images {
		src, ok := resolveSrc(base, img.Src)
		if !ok {
			slog.Debug("normalizer: skipping unresolvable image", "src", img.Src)
			continue
		}
		out = append(out, models.Image{Src: src, Alt: img.Alt})
	}
	return out
}

// resolveSrc applies the offer page's rule: a src starting with "http" is
// already absolute and kept verbatim apart from surrounding whitespace,
// which browsers strip from URL attributes anyway; anything else is a
// reference relative to base. base may be nil, in which case only absolute
// sources resolve.
func resolveSrc(base *url.URL, src string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", false
	}

	if strings.HasPrefix(src, "http") {
		if u, err := url.Parse(src); err == nil && isWebURL(u) {
			return src, true
		}
		// "http-banner.png" and friends are relative paths after all.
	}

	if base == nil {
		return "", false
	}
	ref, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if !isWebURL(resolved) {
		return "", false
	}
	return resolved.String(), true
}

// isWebURL reports whether u is an absolute http or https URL with a host.
func isWebURL(u *url.URL) bool {
	if u == nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
