package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"
)

// pageUserAgent identifies scrape requests against the web frontend. The REST
// client sets its own agent via go-github.
const pageUserAgent = "stnl-ghmetadata"

// maxPageBody bounds how much of a rendered page the scraper will read.
const maxPageBody = 4 << 20

// Client bundles everything one run needs to talk to GitHub: the REST API
// client and a plain HTTP client for the rendered web pages the contributor
// scrape reads. It is constructed once and shared read-only by all workers.
type Client struct {
	API  *github.Client
	HTTP *http.Client

	pages    *http.Client
	pageBase string
}

type options struct {
	verbose  bool
	pageBase string
	// writer controls where verbose HTTP logs are written (typically stderr) so
	// structured output on stdout stays clean and tests can capture logs.
	writer io.Writer
}

type Option func(*options)

func WithVerbose(enabled bool, writer io.Writer) Option {
	return func(o *options) {
		o.verbose = enabled
		o.writer = writer
	}
}

// WithPageBase overrides the web frontend base URL ("https://github.com").
// Tests point it at an httptest server.
func WithPageBase(base string) Option {
	return func(o *options) {
		o.pageBase = base
	}
}

// loggingRoundTripper wraps an underlying transport and emits one line per
// request and response (including latency) when verbose logging is enabled.
type loggingRoundTripper struct {
	base http.RoundTripper
	w    io.Writer
}

func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	if t.w != nil {
		_, _ = fmt.Fprintf(t.w, "[verbose] github: %s %s\n", req.Method, req.URL.String())
	}
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start)
	if t.w != nil {
		if err != nil {
			_, _ = fmt.Fprintf(t.w, "[verbose] github: error after %s: %v\n", dur.Truncate(time.Millisecond), err)
		} else {
			_, _ = fmt.Fprintf(t.w, "[verbose] github: %d %s (%s)\n", resp.StatusCode, http.StatusText(resp.StatusCode), dur.Truncate(time.Millisecond))
		}
	}
	return resp, err
}

func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("github client: ctx is nil")
	}

	o := &options{pageBase: "https://github.com"}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}
	if o.verbose && o.writer == nil {
		o.writer = os.Stderr
	}

	transport := http.DefaultTransport
	if o.verbose {
		transport = &loggingRoundTripper{base: transport, w: o.writer}
	}

	// The page client never carries the token: the scrape reads public pages
	// from the web frontend, and the token must not leak outside the API host.
	pages := &http.Client{Transport: transport, Timeout: 30 * time.Second}

	apiTransport := transport
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		apiTransport = &oauth2.Transport{Source: ts, Base: transport}
	}
	// Always provide an http.Client so verbose logging works even without a token.
	tc := &http.Client{Transport: apiTransport}

	return &Client{
		API:      github.NewClient(tc),
		HTTP:     tc,
		pages:    pages,
		pageBase: strings.TrimRight(o.pageBase, "/"),
	}, nil
}

// GetRepoPage fetches the rendered repository page from the web frontend and
// returns its markup. Non-2xx responses come back as an error; the *Response
// is returned in either case so callers can inspect the status.
func (c *Client) GetRepoPage(ctx context.Context, owner, name string) (string, *http.Response, error) {
	if ctx == nil {
		return "", nil, fmt.Errorf("GetRepoPage: nil context")
	}
	if c == nil || c.pages == nil {
		return "", nil, fmt.Errorf("GetRepoPage: client not initialized (use NewClient)")
	}
	if owner == "" || name == "" {
		return "", nil, fmt.Errorf("GetRepoPage: owner/name is required")
	}

	url := fmt.Sprintf("%s/%s/%s", c.pageBase, owner, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("User-Agent", pageUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.pages.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBody))
	if err != nil {
		return "", resp, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp, fmt.Errorf("page %s/%s: status %d", owner, name, resp.StatusCode)
	}
	return string(body), resp, nil
}
