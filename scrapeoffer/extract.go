package scrapeoffer

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	readability "github.com/go-shiori/go-readability"

	"github.com/use-agent/offerpage/models"
)

// Per-field caps on what a single page contributes to the payload.
const (
	maxHeadings   = 10
	maxParagraphs = 20
	maxBullets    = 30
	maxImages     = 20
)

var (
	headingSel   = cascadia.MustCompile("h1, h2, h3")
	paragraphSel = cascadia.MustCompile("p")
	bulletSel    = cascadia.MustCompile("li")
	imageSel     = cascadia.MustCompile("img")
	// Page chrome whose text is never offer content.
	chromeSel = cascadia.MustCompile("script, style, noscript, template, nav, footer, form")
)

// Extract builds a RawOfferPayload from a rendered offer page. Image
// sources are resolved against sourceURL; text fields are whitespace
// collapsed, deduplicated and capped.
func Extract(rawHTML string, sourceURL string) *models.RawOfferPayload {
	payload := &models.RawOfferPayload{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		slog.Warn("scrapeoffer: parse failed", "url", sourceURL, "error", err)
		return payload
	}

	payload.Title = firstNonEmpty(
		cleanText(doc.Find("head title").First().Text()),
		metaContent(doc, `meta[property="og:title"]`),
	)
	payload.Description = firstNonEmpty(
		metaContent(doc, `meta[name="description"]`),
		metaContent(doc, `meta[property="og:description"]`),
	)
	if payload.Description == "" {
		payload.Description = excerpt(rawHTML, sourceURL)
	}

	// Images are collected before chrome removal: a footer logo is still
	// a usable preview.
	payload.Images = extractImages(doc, sourceURL)

	doc.FindMatcher(chromeSel).Remove()

	payload.Headings = collectText(doc.FindMatcher(headingSel), maxHeadings)
	payload.Paragraphs = collectText(doc.FindMatcher(paragraphSel), maxParagraphs)
	payload.Bullets = collectText(doc.FindMatcher(bulletSel), maxBullets)

	return payload
}

// collectText returns the distinct non-empty texts of sel, in document order.
func collectText(sel *goquery.Selection, limit int) []string {
	var out []string
	seen := make(map[string]struct{})
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := cleanText(s.Text())
		if text == "" {
			return true
		}
		if _, dup := seen[text]; dup {
			return true
		}
		seen[text] = struct{}{}
		out = append(out, text)
		return len(out) < limit
	})
	return out
}

// extractImages returns images with absolute URLs. Lazy-loaded images
// whose src is a data URI placeholder use data-src instead.
func extractImages(doc *goquery.Document, sourceURL string) []models.Image {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil
	}

	var images []models.Image
	seen := make(map[string]struct{})
	doc.FindMatcher(imageSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			src = strings.TrimSpace(s.AttrOr("data-src", ""))
		}
		if src == "" || strings.HasPrefix(src, "data:") {
			return true
		}

		resolved, err := base.Parse(src)
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return true
		}

		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return true
		}
		seen[abs] = struct{}{}

		images = append(images, models.Image{
			Src: abs,
			Alt: cleanText(s.AttrOr("alt", "")),
		})
		return len(images) < maxImages
	})
	return images
}

// excerpt runs readability over the page and returns its excerpt, or ""
// when readability cannot make sense of the page.
func excerpt(rawHTML, sourceURL string) string {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Debug("scrapeoffer: readability failed", "url", sourceURL, "error", err)
		return ""
	}
	return cleanText(article.Excerpt)
}

func metaContent(doc *goquery.Document, selector string) string {
	return cleanText(doc.Find(selector).First().AttrOr("content", ""))
}

// cleanText collapses runs of whitespace into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}
