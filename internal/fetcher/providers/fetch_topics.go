package providers

import (
	"context"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

type topicsFetcher struct{}

func (t *topicsFetcher) Kind() resource.Kind { return resource.KindTopics }

func (t *topicsFetcher) Fetch(ctx context.Context, repo resource.Repo, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	if err := f.Budget().Acquire(ctx, 1); err != nil {
		return nil, err
	}

	topics, resp, err := f.Client().API.Repositories.ListAllTopics(ctx, repo.Owner, repo.Name)
	if resp != nil {
		f.Budget().UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, err
	}
	return topics, nil
}

func init() {
	fetcher.Register(&topicsFetcher{})
}
