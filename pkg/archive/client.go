package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/proteowatch-hq/pride-archive-watcher/pkg/httpclient"
)

const (
	// DefaultBaseURL is the public PRIDE Archive web-service root.
	DefaultBaseURL = "https://www.ebi.ac.uk/pride/ws/archive"

	// DefaultQueryParam names the search-term parameter of the project list
	// and count endpoints. Some deployments use "q" instead, so it is
	// configurable via WithQueryParam.
	DefaultQueryParam = "query"

	defaultTimeout = 15 * time.Second
)

// Valid project accessions for file lookups start with one of these:
// "PRD" for legacy PRIDE datasets, "PXD" for ProteomeXchange datasets.
var projectFilePrefixes = []string{"PRD", "PXD"}

// Client is a read-only client for the PRIDE Archive web service. It is
// stateless across calls; a single instance may be shared by any number of
// goroutines.
type Client struct {
	http       httpclient.Client
	baseURL    string
	queryParam string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the web-service root URL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithQueryParam overrides the search-term query parameter name.
func WithQueryParam(name string) Option {
	return func(c *Client) {
		if name = strings.TrimSpace(name); name != "" {
			c.queryParam = name
		}
	}
}

// New builds a Client on top of the given HTTP client. A nil client falls
// back to a resty transport with a default timeout.
func New(hc httpclient.Client, opts ...Option) *Client {
	if hc == nil {
		hc = httpclient.NewRestyClient(defaultTimeout)
	}
	c := &Client{
		http:       hc,
		baseURL:    DefaultBaseURL,
		queryParam: DefaultQueryParam,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProjectDetails retrieves the full record for one project.
func (c *Client) ProjectDetails(ctx context.Context, accession string) (*ProjectDetail, error) {
	u := c.baseURL + "/project/" + url.PathEscape(accession)
	var detail ProjectDetail
	if err := c.getJSON(ctx, u, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// AssayDetails retrieves the record for one assay.
func (c *Client) AssayDetails(ctx context.Context, accession string) (*AssayDetail, error) {
	u := c.baseURL + "/assay/" + url.PathEscape(accession)
	var detail AssayDetail
	if err := c.getJSON(ctx, u, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// AssayDetailsForProject retrieves all assays belonging to a project.
func (c *Client) AssayDetailsForProject(ctx context.Context, projectAccession string) (*AssayDetailList, error) {
	u := c.baseURL + "/assay/list/project/" + url.PathEscape(projectAccession)
	var list AssayDetailList
	if err := c.getJSON(ctx, u, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// FilesForAssay retrieves the file list of one assay.
func (c *Client) FilesForAssay(ctx context.Context, assayAccession string) (*FileDetailList, error) {
	u := c.baseURL + "/file/list/assay/" + url.PathEscape(assayAccession)
	var list FileDetailList
	if err := c.getJSON(ctx, u, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// FilesForProject retrieves the file list of one project. Accessions outside
// the PRD/PXD namespaces have no file listing; for those the call returns
// ok=false with a nil error and issues no request, distinguishing a
// nonsensical ask from a service failure.
func (c *Client) FilesForProject(ctx context.Context, projectAccession string) (list *FileDetailList, ok bool, err error) {
	if !ValidProjectFileAccession(projectAccession) {
		return nil, false, nil
	}
	u := c.baseURL + "/file/list/project/" + url.PathEscape(projectAccession)
	var l FileDetailList
	if err := c.getJSON(ctx, u, &l); err != nil {
		return nil, false, err
	}
	return &l, true, nil
}

// QueryForProjects searches projects by keyword. page and show are emitted
// only when non-nil; a nil value means "use the service default". The join
// order of keywords follows the slice; the service does not guarantee that
// result ordering relates to term ordering.
func (c *Client) QueryForProjects(ctx context.Context, keywords []string, page, show *int) (*ProjectSummaryList, error) {
	u := c.baseURL + "/project/list" + c.searchQuery(keywords, page, show)
	var list ProjectSummaryList
	if err := c.getJSON(ctx, u, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CountProjects returns the approximate number of projects matching the
// keywords. Unlike every other endpoint the count endpoint answers with a
// bare integer literal, not a JSON document.
func (c *Client) CountProjects(ctx context.Context, keywords []string) (int64, error) {
	u := c.baseURL + "/project/count" + c.searchQuery(keywords, nil, nil)
	body, err := c.fetch(ctx, u)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, &ParseError{URL: u, Err: fmt.Errorf("expected integer body: %w", err)}
	}
	return n, nil
}

// ValidProjectFileAccession reports whether a project accession belongs to a
// namespace that supports file listings.
func ValidProjectFileAccession(accession string) bool {
	for _, prefix := range projectFilePrefixes {
		if strings.HasPrefix(accession, prefix) {
			return true
		}
	}
	return false
}

// searchQuery builds "?query=k1%20k2[&page=N][&show=M]". Keywords are joined
// with the encoded space the service expects between terms.
func (c *Client) searchQuery(keywords []string, page, show *int) string {
	var sb strings.Builder
	sb.WriteString("?")
	sb.WriteString(c.queryParam)
	sb.WriteString("=")
	first := true
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if !first {
			sb.WriteString("%20")
		}
		sb.WriteString(url.QueryEscape(kw))
		first = false
	}
	if page != nil {
		fmt.Fprintf(&sb, "&page=%d", *page)
	}
	if show != nil {
		fmt.Fprintf(&sb, "&show=%d", *show)
	}
	return sb.String()
}

// getJSON performs one GET and decodes the JSON body into target.
func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	body, err := c.fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &ParseError{URL: url, Err: err}
	}
	return nil
}

// fetch performs exactly one GET with a JSON Accept header and returns the
// raw body of a 200 response.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.Get(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode()}
	}
	return resp.Body(), nil
}

// Int returns a pointer to v, a convenience for the optional paging
// parameters of QueryForProjects.
func Int(v int) *int { return &v }
