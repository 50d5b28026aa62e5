package fetcher

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

// ResourceFetcher fetches one kind of repository sub-resource. Implementations
// register themselves at init time and are looked up by kind.
type ResourceFetcher interface {
	Kind() resource.Kind
	Fetch(ctx context.Context, repo resource.Repo, params map[string]string, f *Fetcher) (any, error)
}

var (
	registry   = make(map[resource.Kind]ResourceFetcher)
	registryMu sync.RWMutex
)

func Register(rf ResourceFetcher) {
	if rf == nil {
		panic("resource fetcher is nil")
	}
	k := rf.Kind()
	if k == "" {
		panic("resource fetcher kind is empty")
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[k]; exists {
		panic(fmt.Sprintf("resource fetcher %s already registered", k))
	}
	registry[k] = rf
}

func Resolve(kind resource.Kind) (ResourceFetcher, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	rf, ok := registry[kind]
	return rf, ok
}

func List() []ResourceFetcher {
	registryMu.RLock()
	defer registryMu.RUnlock()

	all := make([]ResourceFetcher, 0, len(registry))
	for _, rf := range registry {
		all = append(all, rf)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Kind() < all[j].Kind()
	})
	return all
}
