package providers

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

type readmeFetcher struct{}

func (r *readmeFetcher) Kind() resource.Kind { return resource.KindReadme }

// Fetch returns the decoded README text from the default branch. A repository
// without a README answers 404, which surfaces as an error here: absence and
// unreachability are reported the same way, as an unavailable value.
func (r *readmeFetcher) Fetch(ctx context.Context, repo resource.Repo, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	val, err := f.Fetch(ctx, repo, resource.KindMetadata, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default branch: %w", err)
	}
	meta, ok := val.(*github.Repository)
	if !ok {
		return nil, fmt.Errorf("failed to resolve default branch: unexpected type %T for %s", val, resource.KindMetadata)
	}

	var opts *github.RepositoryContentGetOptions
	if branch := meta.GetDefaultBranch(); branch != "" {
		opts = &github.RepositoryContentGetOptions{Ref: branch}
	}

	if err := f.Budget().Acquire(ctx, 1); err != nil {
		return nil, err
	}

	content, resp, err := f.Client().API.Repositories.GetReadme(ctx, repo.Owner, repo.Name, opts)
	if resp != nil {
		f.Budget().UpdateFromResponse(resp.Response)
	}
	if err != nil {
		return nil, err
	}

	text, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode readme: %w", err)
	}
	return text, nil
}

func init() {
	fetcher.Register(&readmeFetcher{})
}
