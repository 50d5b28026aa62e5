package providers

import (
	"context"

	"github.com/google/go-github/v81/github"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

type labelCountFetcher struct{}

func (l *labelCountFetcher) Kind() resource.Kind { return resource.KindLabelsCount }

func (l *labelCountFetcher) Fetch(ctx context.Context, repo resource.Repo, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	if err := f.Budget().Acquire(ctx, 1); err != nil {
		return nil, err
	}

	labels, resp, err := f.Client().API.Issues.ListLabels(ctx, repo.Owner, repo.Name, &github.ListOptions{PerPage: 1})
	if resp != nil {
		f.Budget().UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, err
	}
	return lastPageCount(resp, len(labels)), nil
}

func init() {
	fetcher.Register(&labelCountFetcher{})
}
