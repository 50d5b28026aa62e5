package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v81/github"
	"golang.org/x/sync/errgroup"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/record"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

// siblingKinds are the sub-resources fetched concurrently once metadata is
// in. The contributor estimate runs alongside them but goes through the
// estimator, not a single kind.
var siblingKinds = []resource.Kind{
	resource.KindLanguages,
	resource.KindReadme,
	resource.KindTopics,
	resource.KindLabelsCount,
	resource.KindCommitsCount,
	resource.KindPullsCount,
}

// Processor runs the full collection of one repository: metadata first, the
// sibling sub-resources concurrently, the contributor filter, and finally the
// record shaping. Every failure path resolves to an unavailable field, an
// exclusion or a failed Outcome; nothing panics past it.
type Processor struct {
	fetcher         *fetcher.Fetcher
	estimator       *Estimator
	minContributors int
}

func NewProcessor(f *fetcher.Fetcher, minContributors int) (*Processor, error) {
	if f == nil {
		return nil, errors.New("fetcher is nil")
	}
	if minContributors < 0 {
		return nil, fmt.Errorf("min contributors must be >= 0, got %d", minContributors)
	}
	return &Processor{
		fetcher:         f,
		estimator:       NewEstimator(f),
		minContributors: minContributors,
	}, nil
}

func (p *Processor) Process(ctx context.Context, repo RepoID) Outcome {
	logger := log.FromContext(ctx)

	// Metadata is the one sub-resource the record cannot exist without.
	meta, err := p.fetchMetadata(ctx, repo)
	if err != nil {
		return Outcome{Repo: repo, Err: fmt.Errorf("repository metadata unavailable: %w", err)}
	}

	results := make(map[resource.Kind]any, len(siblingKinds))
	failures := make(map[resource.Kind]error)
	var mu sync.Mutex

	var g errgroup.Group
	for _, kind := range siblingKinds {
		g.Go(func() error {
			v, err := p.fetcher.Fetch(ctx, repo, kind, nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[kind] = err
				return nil
			}
			results[kind] = v
			return nil
		})
	}

	var contributors record.ContributorCount
	var contributorsErr error
	g.Go(func() error {
		contributors, contributorsErr = p.estimator.Estimate(ctx, repo)
		return nil
	})
	_ = g.Wait()

	for _, kind := range sortedKinds(failures) {
		logger.Warn("sub-resource unavailable", "repo", repo.FullName(), "kind", string(kind), "err", failures[kind])
	}
	if contributorsErr != nil {
		logger.Warn("sub-resource unavailable", "repo", repo.FullName(), "kind", "contributors", "err", contributorsErr)
	}

	if contributorsErr != nil {
		return Outcome{
			Repo:     repo,
			Excluded: true,
			Reason:   "contributor count unavailable",
		}
	}
	if p.minContributors > 0 && contributors.Count < p.minContributors {
		observed := fmt.Sprintf("%d", contributors.Count)
		if contributors.Estimated {
			observed = "~" + observed
		}
		return Outcome{
			Repo:      repo,
			Excluded:  true,
			Reason:    fmt.Sprintf("%s contributors below minimum %d", observed, p.minContributors),
			Count:     contributors.Count,
			Threshold: p.minContributors,
		}
	}

	rec := shapeRecord(meta, contributors, resource.NewMapContext(results))
	return Outcome{Repo: repo, Record: rec}
}

func (p *Processor) fetchMetadata(ctx context.Context, repo RepoID) (*github.Repository, error) {
	v, err := p.fetcher.Fetch(ctx, repo, resource.KindMetadata, nil)
	if err != nil {
		return nil, err
	}
	return v.(*github.Repository), nil
}

// shapeRecord builds the output record from the fetched sub-resources. Every
// field whose fetch failed gets its placeholder; nothing is left absent.
func shapeRecord(meta *github.Repository, contributors record.ContributorCount, dc resource.Context) *record.Record {
	rec := &record.Record{
		Name:          meta.GetName(),
		Owner:         meta.GetOwner().GetLogin(),
		URL:           meta.GetHTMLURL(),
		DefaultBranch: meta.GetDefaultBranch(),
		Stars:         meta.GetStargazersCount(),
		Watchers:      meta.GetWatchersCount(),
		Forks:         meta.GetForksCount(),
		OpenIssues:    meta.GetOpenIssuesCount(),
		Contributors:  contributors,
		Commits:       intOr(dc, resource.KindCommitsCount, record.CommitsUnavailable),
		Pulls:         intOr(dc, resource.KindPullsCount, record.PullsUnavailable),
		LabelsCount:   intOr(dc, resource.KindLabelsCount, record.LabelsUnavailable),
	}

	// GitHub reports a missing description as empty, and the record keeps the
	// explicit placeholder for that too.
	if desc := meta.GetDescription(); desc != "" {
		rec.Description = desc
	} else {
		rec.Description = record.DescriptionUnavailable
	}

	if v, ok := dc.Get(resource.KindLanguages); ok {
		rec.LanguagesInfo = record.FormatLanguages(v.(map[string]int))
	} else {
		rec.LanguagesInfo = record.LanguagesUnavailable
	}

	if v, ok := dc.Get(resource.KindReadme); ok {
		rec.Readme = v.(string)
	} else {
		rec.Readme = record.ReadmeUnavailable
	}

	if v, ok := dc.Get(resource.KindTopics); ok {
		topics := v.([]string)
		if topics == nil {
			topics = []string{}
		}
		rec.Keywords = topics
	} else {
		rec.Keywords = record.KeywordsUnavailable
	}

	return rec
}

func intOr(dc resource.Context, kind resource.Kind, placeholder string) any {
	if v, ok := dc.Get(kind); ok {
		return v.(int)
	}
	return placeholder
}

func sortedKinds(m map[resource.Kind]error) []resource.Kind {
	kinds := make([]resource.Kind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
