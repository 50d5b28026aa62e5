package providers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/go-github/v81/github"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

// contributorPageSize is the page size used when walking the contributors
// listing. Anonymous contributors are included so the walk counts every
// distinct commit author, matching what the estimation is after.
const contributorPageSize = 100

type contributorPageFetcher struct{}

func (c *contributorPageFetcher) Kind() resource.Kind { return resource.KindContributorsPage }

func (c *contributorPageFetcher) Fetch(ctx context.Context, repo resource.Repo, params map[string]string, f *fetcher.Fetcher) (any, error) {
	page, err := strconv.Atoi(params["page"])
	if err != nil || page < 1 {
		return nil, fmt.Errorf("contributor page fetch requires a positive page param, got %q", params["page"])
	}

	if err := f.Budget().Acquire(ctx, 1); err != nil {
		return nil, err
	}

	opts := &github.ListContributorsOptions{
		Anon: "true",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: contributorPageSize,
		},
	}
	contributors, resp, err := f.Client().API.Repositories.ListContributors(ctx, repo.Owner, repo.Name, opts)
	if resp != nil {
		f.Budget().UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, err
	}

	result := resource.ContributorPage{Count: len(contributors)}
	if resp != nil {
		result.NextPage = resp.NextPage
	}
	return result, nil
}

func init() {
	fetcher.Register(&contributorPageFetcher{})
}
