package providers

import (
	"context"

	"github.com/google/go-github/v81/github"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

type commitCountFetcher struct{}

func (c *commitCountFetcher) Kind() resource.Kind { return resource.KindCommitsCount }

// Fetch counts commits on the default branch. GitHub answers 409 for an
// empty repository, which surfaces as an unavailable count.
func (c *commitCountFetcher) Fetch(ctx context.Context, repo resource.Repo, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	if err := f.Budget().Acquire(ctx, 1); err != nil {
		return nil, err
	}

	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	}
	commits, resp, err := f.Client().API.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
	if resp != nil {
		f.Budget().UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, err
	}
	return lastPageCount(resp, len(commits)), nil
}

func init() {
	fetcher.Register(&commitCountFetcher{})
}
