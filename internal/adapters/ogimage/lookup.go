package ogimage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"

	"sheeets/internal/adapters/httpx"
	"sheeets/internal/domain"
)

const maxPage = 2 << 20

// imageSelectors are tried in order.
var imageSelectors = []string{
	`meta[property="og:image"]`,
	`meta[property="og:image:url"]`,
	`meta[name="twitter:image"]`,
	`meta[name="twitter:image:src"]`,
	`link[rel="image_src"]`,
}

// Lookup finds the preview image an event page advertises through
// OpenGraph or Twitter card meta tags.
type Lookup struct {
	client *retryablehttp.Client
}

// NewLookup builds a Lookup on the given client.
func NewLookup(client *retryablehttp.Client) *Lookup {
	return &Lookup{client: client}
}

var _ domain.ImageLookup = (*Lookup)(nil)

// Lookup fetches pageURL and returns its absolute preview image URL.
// Pages without one are ok=false.
func (l *Lookup) Lookup(ctx context.Context, pageURL string) (string, bool, error) {
	base, err := url.Parse(pageURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return "", false, nil
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", httpx.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("page returned status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPage))
	if err != nil {
		return "", false, fmt.Errorf("failed to parse page: %w", err)
	}
	img := FindImage(doc)
	if img == "" {
		return "", false, nil
	}
	ref, err := url.Parse(img)
	if err != nil {
		return "", false, nil
	}
	// Redirects may have moved the page; resolve against the final URL.
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}
	return base.ResolveReference(ref).String(), true, nil
}

// FindImage returns the first non-empty preview image reference in doc.
func FindImage(doc *goquery.Document) string {
	for _, sel := range imageSelectors {
		attr := "content"
		if strings.HasPrefix(sel, "link") {
			attr = "href"
		}
		var found string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
				found = v
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}
