package watch

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/proteowatch-hq/pride-archive-watcher/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
)

// Enricher fetches the public project landing page and extracts a
// description from its OG tags. The web service itself stays JSON-only; this
// only decorates published events.
type Enricher struct {
	client  httpclient.Client
	baseURL string
}

// NewEnricher constructs an enricher rooted at the archive's project page URL.
func NewEnricher(client httpclient.Client, baseURL string) *Enricher {
	return &Enricher{
		client:  client,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

// Describe fetches the landing page of the given project and returns its
// meta description, falling back to the page title.
func (e *Enricher) Describe(ctx context.Context, accession string) (string, error) {
	if e == nil || e.client == nil {
		return "", fmt.Errorf("enricher is not initialized")
	}

	url := e.baseURL + "/" + accession
	resp, err := e.client.Get(ctx, url, map[string]string{"Accept": "text/html"})
	if err != nil {
		return "", fmt.Errorf("fetch project page: %w", err)
	}

	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return "", fmt.Errorf("project page status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	return parseDescription(body)
}

func parseDescription(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return firstNonEmpty(
		extract(`meta[property="og:description"]`),
		extract(`meta[name="description"]`),
		extract(`meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
	), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
