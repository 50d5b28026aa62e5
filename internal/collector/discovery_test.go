package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/aisepucrio/stnl-ghmetadata/internal/config"
	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
)

func searchConfig() *config.Config {
	cfg := config.New()
	cfg.Search.Language = "go"
	cfg.Search.Stars = ">=10"
	return cfg
}

// searchItems renders a search result page with sequentially named repos.
func searchItems(owner string, start, n, total int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"name": "repo%d", "owner": {"login": %q}}`, start+i, owner)
	}
	return fmt.Sprintf(`{"total_count": %d, "incomplete_results": false, "items": [%s]}`,
		total, strings.Join(items, ","))
}

func TestDiscover_PagesUntilMaxResults(t *testing.T) {
	cfg := searchConfig()
	cfg.Search.PerPage = 2
	cfg.Search.MaxResults = 4

	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("q"); got != "language:go stars:>=10" {
			t.Errorf("unexpected query %q", got)
		}
		if got := q.Get("sort"); got != "stars" {
			t.Errorf("unexpected sort %q", got)
		}
		if got := q.Get("order"); got != "desc" {
			t.Errorf("unexpected order %q", got)
		}
		switch q.Get("page") {
		case "", "1":
			w.Header().Set("Link", `</search/repositories?page=2>; rel="next"`)
			fmt.Fprint(w, searchItems("acme", 1, 2, 4))
		case "2":
			fmt.Fprint(w, searchItems("acme", 3, 2, 4))
		default:
			t.Errorf("unexpected page %q", q.Get("page"))
			http.Error(w, "no such page", http.StatusNotFound)
		}
	})

	client := newTestClient(t, mux)
	repos, err := Discover(context.Background(), client, fetcher.NewRequestBudget(), cfg)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(repos) != 4 {
		t.Fatalf("expected 4 repos, got %d", len(repos))
	}
	for i, repo := range repos {
		want := RepoID{Owner: "acme", Name: fmt.Sprintf("repo%d", i+1)}
		if repo != want {
			t.Errorf("repos[%d] = %+v, want %+v", i, repo, want)
		}
	}
}

func TestDiscover_TruncatesMidPageAtMaxResults(t *testing.T) {
	cfg := searchConfig()
	cfg.Search.PerPage = 2
	cfg.Search.MaxResults = 3

	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		switch page := r.URL.Query().Get("page"); page {
		case "", "1":
			w.Header().Set("Link", `</search/repositories?page=2>; rel="next"`)
			fmt.Fprint(w, searchItems("acme", 1, 2, 40))
		case "2":
			// More pages exist; the cap must stop the walk here.
			w.Header().Set("Link", `</search/repositories?page=3>; rel="next"`)
			fmt.Fprint(w, searchItems("acme", 3, 2, 40))
		default:
			t.Errorf("fetched page %q past the max-results cap", page)
			http.Error(w, "no such page", http.StatusNotFound)
		}
	})

	client := newTestClient(t, mux)
	repos, err := Discover(context.Background(), client, fetcher.NewRequestBudget(), cfg)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(repos) != 3 {
		t.Fatalf("expected 3 repos, got %d", len(repos))
	}
	if repos[2].Name != "repo3" {
		t.Fatalf("expected the cap to keep the first results, got %+v", repos[2])
	}
}

func TestDiscover_EmptyQueryFailsBeforeAnyRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	client := newTestClient(t, mux)
	_, err := Discover(context.Background(), client, fetcher.NewRequestBudget(), config.New())
	if err == nil {
		t.Fatalf("expected an error for an empty query")
	}
	if !strings.Contains(err.Error(), "search query is empty") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDiscover_BestMatchOmitsSortParameter(t *testing.T) {
	cfg := searchConfig()
	cfg.Search.Sort = "best-match"

	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sort"); got != "" {
			t.Errorf("best-match must not send a sort parameter, got %q", got)
		}
		fmt.Fprint(w, searchItems("acme", 1, 1, 1))
	})

	client := newTestClient(t, mux)
	repos, err := Discover(context.Background(), client, fetcher.NewRequestBudget(), cfg)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(repos) != 1 {
		t.Fatalf("expected 1 repo, got %d", len(repos))
	}
}

func TestDiscover_SearchErrorIsWrapped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "boom"}`, http.StatusInternalServerError)
	})

	client := newTestClient(t, mux)
	_, err := Discover(context.Background(), client, fetcher.NewRequestBudget(), searchConfig())
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "search repositories") {
		t.Fatalf("unexpected error: %v", err)
	}
}
