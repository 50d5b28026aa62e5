package providers

import (
	"context"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

type languagesFetcher struct{}

func (l *languagesFetcher) Kind() resource.Kind { return resource.KindLanguages }

// Fetch returns the byte counts per language as reported by the languages
// endpoint. A repository with no detected code yields an empty map.
func (l *languagesFetcher) Fetch(ctx context.Context, repo resource.Repo, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	if err := f.Budget().Acquire(ctx, 1); err != nil {
		return nil, err
	}

	languages, resp, err := f.Client().API.Repositories.ListLanguages(ctx, repo.Owner, repo.Name)
	if resp != nil {
		f.Budget().UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, err
	}
	return languages, nil
}

func init() {
	fetcher.Register(&languagesFetcher{})
}
