package scrapeoffer

import (
	"reflect"
	"testing"

	"github.com/use-agent/offerpage/models"
)

const offerHTML = `<!DOCTYPE html>
<html>
<head>
  <title>  DevOps Bootcamp | Offer </title>
  <meta name="description" content="Learn   DevOps by doing.">
  <meta property="og:title" content="OG title">
</head>
<body>
  <nav><ul><li>Home</li><li>Courses</li></ul></nav>
  <h1>DevOps Bootcamp</h1>
  <h2>What's inside</h2>
  <p>Build real pipelines.</p>
  <p>Build real pipelines.</p>
  <p>   </p>
  <p>Deploy to Kubernetes.</p>
  <ul>
    <li>Live sessions</li>
    <li>Hands-on labs</li>
    <li>0</li>
  </ul>
  <img src="/img/hero.png" alt=" Hero ">
  <img src="https://cdn.example.com/a.png">
  <img src="data:image/gif;base64,R0lGOD" data-src="lazy/b.png">
  <img src="data:image/gif;base64,R0lGOD">
  <img src="/img/hero.png">
  <script>var li = "<li>not a bullet</li>";</script>
  <footer><p>Copyright</p><li>Footer link</li></footer>
</body>
</html>`

func TestExtract(t *testing.T) {
	got := Extract(offerHTML, "https://example.com/offer/xyz")

	want := &models.RawOfferPayload{
		Title:       "DevOps Bootcamp | Offer",
		Headings:    []string{"DevOps Bootcamp", "What's inside"},
		Description: "Learn DevOps by doing.",
		Paragraphs:  []string{"Build real pipelines.", "Deploy to Kubernetes."},
		Bullets:     []string{"Live sessions", "Hands-on labs", "0"},
		Images: []models.Image{
			{Src: "https://example.com/img/hero.png", Alt: "Hero"},
			{Src: "https://cdn.example.com/a.png"},
			{Src: "https://example.com/offer/lazy/b.png"},
		},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract mismatch:\n got  %+v\n want %+v", got, want)
	}
}

func TestExtract_MetaFallbacks(t *testing.T) {
	html := `<html><head>
		<meta property="og:title" content="OG title">
		<meta property="og:description" content="OG description">
	</head><body><p>x</p></body></html>`

	got := Extract(html, "https://example.com/")
	if got.Title != "OG title" {
		t.Errorf("title = %q, want og:title", got.Title)
	}
	if got.Description != "OG description" {
		t.Errorf("description = %q, want og:description", got.Description)
	}
}

func TestExtract_Caps(t *testing.T) {
	html := "<html><body><ul>"
	for i := 0; i < maxBullets+10; i++ {
		html += "<li>item " + string(rune('a'+i%26)) + string(rune('a'+i/26)) + "</li>"
	}
	html += "</ul></body></html>"

	got := Extract(html, "https://example.com/")
	if len(got.Bullets) != maxBullets {
		t.Errorf("bullets = %d, want cap %d", len(got.Bullets), maxBullets)
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	got := Extract("", "https://example.com/")
	if got == nil {
		t.Fatal("Extract must never return nil")
	}
	if len(got.Headings)+len(got.Paragraphs)+len(got.Bullets)+len(got.Images) != 0 {
		t.Errorf("expected empty payload, got %+v", got)
	}
}
