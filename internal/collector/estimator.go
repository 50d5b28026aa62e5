package collector

import (
	"context"
	"errors"
	"strconv"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/record"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

const (
	// maxContributorPages caps how many contributor pages the estimator will
	// walk before extrapolating.
	maxContributorPages = 10

	// estimationThreshold is the running total above which exact enumeration
	// is abandoned in favor of extrapolation.
	estimationThreshold = 1000
)

// Estimator derives a contributor count for one repository. It prefers the
// counter rendered on the repository page (one cheap request, no API budget)
// and falls back to walking the REST contributors listing with bounded
// pagination.
type Estimator struct {
	fetcher *fetcher.Fetcher
}

func NewEstimator(f *fetcher.Fetcher) *Estimator {
	return &Estimator{fetcher: f}
}

// Estimate resolves the contributor count.
//
// When the page walk trips either cap (page count or running total), the
// count is extrapolated from the average per-page density across the pages
// fetched so far; the result can exceed the threshold and is marked
// estimated. A rate-limit signal aborts immediately with no partial value;
// the caller treats the count as unavailable for the rest of the run.
func (e *Estimator) Estimate(ctx context.Context, repo RepoID) (record.ContributorCount, error) {
	if e == nil || e.fetcher == nil {
		return record.ContributorCount{}, errors.New("Estimate: estimator not initialized (use NewEstimator)")
	}

	// The scraped counter is exact except on very large repositories, where
	// the frontend rounds down and renders a trailing "+"; that comes back as
	// a lower bound. Any scrape trouble falls through to the REST walk.
	if v, err := e.fetcher.Fetch(ctx, repo, resource.KindContributorsScrape, nil); err == nil {
		scraped := v.(resource.ScrapedContributors)
		return record.ContributorCount{Count: scraped.Count, Estimated: scraped.Approximate}, nil
	}

	total := 0
	page := 1
	for {
		v, err := e.fetcher.Fetch(ctx, repo, resource.KindContributorsPage, map[string]string{
			"page": strconv.Itoa(page),
		})
		if err != nil {
			return record.ContributorCount{}, err
		}
		cp := v.(resource.ContributorPage)
		total += cp.Count

		if cp.NextPage == 0 {
			// Fully enumerated; exact even when it happened on page 1.
			return record.ContributorCount{Count: total, Estimated: false}, nil
		}

		page++
		if page > maxContributorPages || total >= estimationThreshold {
			// A cap tripped after fetching page-1 full pages with a further
			// page pending, so page >= 2 here and the division is safe.
			return record.ContributorCount{Count: total / (page - 1) * page, Estimated: true}, nil
		}
	}
}
