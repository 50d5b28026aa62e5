package providers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

// contributorCounterRe matches the counter badge next to the Contributors
// heading on a rendered repository page. Its title attribute carries the
// count, comma-grouped, with a trailing "+" when GitHub itself shows only a
// lower bound (e.g. "5,000+").
var contributorCounterRe = regexp.MustCompile(`(?s)href="[^"]*/graphs/contributors".*?class="Counter[^"]*"[^>]*title="([0-9,]+\+?)"`)

type contributorOverviewFetcher struct{}

func (c *contributorOverviewFetcher) Kind() resource.Kind { return resource.KindContributorsScrape }

// Fetch reads the contributor counter from the rendered repository page on
// github.com. This costs no API budget, but the page markup is not a stable
// contract; callers fall back to the contributors listing when it fails.
func (c *contributorOverviewFetcher) Fetch(ctx context.Context, repo resource.Repo, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	body, _, err := f.Client().GetRepoPage(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, err
	}
	return parseContributorCounter(body)
}

func parseContributorCounter(body string) (resource.ScrapedContributors, error) {
	m := contributorCounterRe.FindStringSubmatch(body)
	if m == nil {
		return resource.ScrapedContributors{}, errors.New("contributor counter not found on repository page")
	}

	raw := m[1]
	approximate := strings.HasSuffix(raw, "+")
	digits := strings.ReplaceAll(strings.TrimSuffix(raw, "+"), ",", "")
	count, err := strconv.Atoi(digits)
	if err != nil {
		return resource.ScrapedContributors{}, fmt.Errorf("parse contributor counter %q: %w", raw, err)
	}

	return resource.ScrapedContributors{Count: count, Approximate: approximate}, nil
}

func init() {
	fetcher.Register(&contributorOverviewFetcher{})
}
