package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	_ "github.com/aisepucrio/stnl-ghmetadata/internal/fetcher/providers"
	gh "github.com/aisepucrio/stnl-ghmetadata/internal/github"
)

// newTestClient builds a client whose REST base and web page base both point
// at the given mux.
func newTestClient(t *testing.T, mux *http.ServeMux) *gh.Client {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := gh.NewClient(context.Background(), "dummy-token", gh.WithPageBase(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	baseURL, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	client.API.BaseURL = baseURL
	client.API.UploadURL = baseURL
	return client
}

func newTestFetcher(t *testing.T, mux *http.ServeMux) *fetcher.Fetcher {
	t.Helper()
	return fetcher.NewFetcher(newTestClient(t, mux), fetcher.NewRequestBudget())
}

// scrapePage renders the fragment of the repository page the contributor
// scrape parses.
func scrapePage(owner, name, counter string) string {
	return fmt.Sprintf(`<html><body>
		<a href="/%s/%s/graphs/contributors">
			Contributors
			<span class="Counter ml-1" title="%s">%s</span>
		</a>
	</body></html>`, owner, name, counter, counter)
}

func contributorsJSON(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"login":"u%d"}`, i)
	}
	return "[" + strings.Join(items, ",") + "]"
}

// registerHappyRepo wires every endpoint one repository needs for a clean
// collection: metadata, the scrape page, languages, readme, topics and the
// three count listings.
func registerHappyRepo(mux *http.ServeMux, owner, name string, stars, contributors int) {
	registerHappyRepoWithout(mux, owner, name, stars, contributors)
}

// registerHappyRepoWithout registers the happy-path endpoints except the
// given patterns, which the test supplies itself (typically with a failure).
func registerHappyRepoWithout(mux *http.ServeMux, owner, name string, stars, contributors int, skip ...string) {
	skipped := make(map[string]bool, len(skip))
	for _, pattern := range skip {
		skipped[pattern] = true
	}
	handle := func(pattern string, h http.HandlerFunc) {
		if skipped[pattern] {
			return
		}
		mux.HandleFunc(pattern, h)
	}

	base := "/repos/" + owner + "/" + name

	handle(base, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"name": %q, "owner": {"login": %q},
			"html_url": "https://github.com/%s/%s",
			"default_branch": "main",
			"stargazers_count": %d, "watchers_count": %d,
			"forks_count": 3, "open_issues_count": 2,
			"description": "a %s for everyone"
		}`, name, owner, owner, name, stars, stars, name)
	})
	handle("/"+owner+"/"+name, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, scrapePage(owner, name, fmt.Sprintf("%d", contributors)))
	})
	handle(base+"/languages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Go": 900, "Makefile": 100}`)
	})
	handle(base+"/readme", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"name": "README.md", "encoding": "", "content": "# %s\n"}`, name)
	})
	handle(base+"/topics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"names": ["cli", "golang"]}`)
	})
	for _, listing := range []string{"/labels", "/commits", "/pulls"} {
		handle(base+listing, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"id": 1}]`)
		})
	}
}
