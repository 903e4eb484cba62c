package watch

import (
	"context"
	"testing"

	"github.com/proteowatch-hq/pride-archive-watcher/pkg/httpclient"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>PXD000001 - PRIDE Archive</title>
  <meta property="og:title" content="TMT spikes" />
  <meta property="og:description" content="Quantitative benchmark dataset." />
</head>
<body></body>
</html>`

type mockHTTPClient struct {
	t         *testing.T
	expectURL string
	status    int
	body      string
}

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte    { return r.body }
func (r mockResponse) StatusCode() int { return r.statusCode }

func (m mockHTTPClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	if m.expectURL != "" && url != m.expectURL {
		m.t.Fatalf("expected url %q, got %q", m.expectURL, url)
	}
	status := m.status
	if status == 0 {
		status = 200
	}
	return mockResponse{body: []byte(m.body), statusCode: status}, nil
}

func TestEnricherExtractsOGDescription(t *testing.T) {
	client := mockHTTPClient{
		t:         t,
		expectURL: "https://www.ebi.ac.uk/pride/archive/projects/PXD000001",
		body:      samplePage,
	}

	enricher := NewEnricher(client, "https://www.ebi.ac.uk/pride/archive/projects/")
	description, err := enricher.Describe(context.Background(), "PXD000001")
	if err != nil {
		t.Fatalf("Describe returned error: %v", err)
	}
	if description != "Quantitative benchmark dataset." {
		t.Fatalf("unexpected description: %q", description)
	}
}

func TestEnricherFallsBackToTitle(t *testing.T) {
	client := mockHTTPClient{t: t, body: `<html><head><title>Plain title</title></head></html>`}

	enricher := NewEnricher(client, "https://example.com/projects")
	description, err := enricher.Describe(context.Background(), "PXD000002")
	if err != nil {
		t.Fatalf("Describe returned error: %v", err)
	}
	if description != "Plain title" {
		t.Fatalf("unexpected fallback: %q", description)
	}
}

func TestEnricherErrorsOnNon200(t *testing.T) {
	client := mockHTTPClient{t: t, status: 404, body: "not found"}

	enricher := NewEnricher(client, "https://example.com/projects")
	if _, err := enricher.Describe(context.Background(), "PXD000404"); err == nil {
		t.Fatalf("expected error for 404 page")
	}
}
