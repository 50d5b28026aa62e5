package providers

import (
	"context"

	"github.com/google/go-github/v81/github"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

type pullCountFetcher struct{}

func (p *pullCountFetcher) Kind() resource.Kind { return resource.KindPullsCount }

func (p *pullCountFetcher) Fetch(ctx context.Context, repo resource.Repo, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	if err := f.Budget().Acquire(ctx, 1); err != nil {
		return nil, err
	}

	opts := &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 1},
	}
	pulls, resp, err := f.Client().API.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
	if resp != nil {
		f.Budget().UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, err
	}
	return lastPageCount(resp, len(pulls)), nil
}

func init() {
	fetcher.Register(&pullCountFetcher{})
}
