package providers

import (
	"context"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

type repoMetadataFetcher struct{}

func (r *repoMetadataFetcher) Kind() resource.Kind { return resource.KindMetadata }

func (r *repoMetadataFetcher) Fetch(ctx context.Context, repo resource.Repo, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	if err := f.Budget().Acquire(ctx, 1); err != nil {
		return nil, err
	}

	result, resp, err := f.Client().API.Repositories.Get(ctx, repo.Owner, repo.Name)
	if resp != nil {
		f.Budget().UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func init() {
	fetcher.Register(&repoMetadataFetcher{})
}
