package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v81/github"

	"github.com/aisepucrio/stnl-ghmetadata/internal/config"
	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	gh "github.com/aisepucrio/stnl-ghmetadata/internal/github"
)

// Discover runs the configured search against the search API and returns the
// candidate repository identifiers, paging until max_results is reached or
// the results are exhausted.
//
// An empty query is an error: collecting "everything on GitHub" is never what
// the caller meant, and the search API rejects it anyway.
func Discover(ctx context.Context, client *gh.Client, budget *fetcher.RequestBudget, cfg *config.Config) ([]RepoID, error) {
	if ctx == nil {
		return nil, errors.New("Discover: nil context")
	}
	if client == nil || client.API == nil {
		return nil, errors.New("Discover: client not initialized (use NewClient)")
	}
	if budget == nil {
		return nil, errors.New("Discover: request budget is nil")
	}
	if cfg == nil {
		return nil, errors.New("Discover: config is nil")
	}

	query := cfg.Query()
	if query == "" {
		return nil, errors.New("search query is empty; set at least one search filter")
	}

	// "best-match" is the API default and has no sort parameter of its own.
	sort := cfg.Search.Sort
	if sort == "best-match" {
		sort = ""
	}

	opts := &github.SearchOptions{
		Sort:        sort,
		Order:       cfg.Search.Order,
		ListOptions: github.ListOptions{PerPage: cfg.Search.PerPage},
	}

	repos := make([]RepoID, 0, min(cfg.Search.MaxResults, cfg.Search.PerPage))
	for {
		if err := budget.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("search repositories: %w", err)
		}
		result, resp, err := client.API.Search.Repositories(ctx, query, opts)
		if resp != nil {
			budget.UpdateFromResponse(resp.Response)
		}
		if err != nil {
			return nil, fmt.Errorf("search repositories: %w", err)
		}

		for _, repo := range result.Repositories {
			if len(repos) >= cfg.Search.MaxResults {
				break
			}
			repos = append(repos, RepoID{
				Owner: repo.GetOwner().GetLogin(),
				Name:  repo.GetName(),
			})
		}
		if len(repos) >= cfg.Search.MaxResults {
			break
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return repos, nil
}
