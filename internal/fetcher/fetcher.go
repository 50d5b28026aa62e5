package fetcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	gh "github.com/aisepucrio/stnl-ghmetadata/internal/github"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

// Fetcher executes resource requests against GitHub with result caching,
// in-flight deduplication, and request-budget accounting. One Fetcher is
// shared by all workers of a run, so a sub-resource fetched for a repository
// is never fetched twice.
type Fetcher struct {
	client *gh.Client
	budget *RequestBudget
	group  singleflight.Group
	cache  sync.Map
}

type fetchChainKey struct{}

func NewFetcher(client *gh.Client, budget *RequestBudget) *Fetcher {
	return &Fetcher{
		client: client,
		budget: budget,
	}
}

func (f *Fetcher) Budget() *RequestBudget {
	return f.budget
}

func (f *Fetcher) Client() *gh.Client {
	return f.client
}

// Fetch resolves the provider registered for kind and returns its value for
// repo. Successful results are cached for the lifetime of the Fetcher;
// concurrent identical requests share a single provider call. Providers may
// call back into Fetch for the resources they depend on; a recursion onto a
// key already being fetched on the same call path is reported as a cycle.
func (f *Fetcher) Fetch(ctx context.Context, repo resource.Repo, kind resource.Kind, params map[string]string) (any, error) {
	if ctx == nil {
		return nil, fmt.Errorf("Fetch: nil context")
	}
	if f == nil {
		return nil, fmt.Errorf("Fetch: nil Fetcher")
	}
	if f.client == nil || f.client.API == nil {
		return nil, fmt.Errorf("Fetch: nil GitHub client (use NewFetcher)")
	}
	if f.budget == nil {
		return nil, fmt.Errorf("Fetch: nil request budget (use NewFetcher)")
	}
	if kind == "" {
		return nil, fmt.Errorf("Fetch: empty resource kind")
	}
	if repo.Owner == "" || repo.Name == "" {
		return nil, fmt.Errorf("Fetch: repo owner/name is required")
	}

	provider, ok := Resolve(kind)
	if !ok {
		return nil, fmt.Errorf("unsupported resource kind: %s", kind)
	}

	// Cache key (must be deterministic)
	flightKey := repo.Key() + ":" + string(kind) + ":" + stableParamsKey(params)

	ctx, err := withFetchChain(ctx, flightKey)
	if err != nil {
		return nil, err
	}

	if val, ok := f.cache.Load(flightKey); ok {
		return val, nil
	}

	val, err, _ := f.group.Do(flightKey, func() (interface{}, error) {
		return provider.Fetch(ctx, repo, params, f)
	})

	if err == nil {
		f.cache.Store(flightKey, val)
	}

	return val, err
}

func withFetchChain(ctx context.Context, flightKey string) (context.Context, error) {
	chain := getFetchChain(ctx)
	for _, existing := range chain {
		if existing == flightKey {
			return nil, fmt.Errorf("Fetch: resource cycle detected: %s -> %s", strings.Join(chain, " -> "), flightKey)
		}
	}

	updated := make([]string, 0, len(chain)+1)
	updated = append(updated, chain...)
	updated = append(updated, flightKey)
	return context.WithValue(ctx, fetchChainKey{}, updated), nil
}

func getFetchChain(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	chain, ok := ctx.Value(fetchChainKey{}).([]string)
	if !ok {
		return nil
	}
	return chain
}

func stableParamsKey(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return strings.Join(parts, "&")
}
