package resource

import "strings"

// Repo identifies a repository by its owner login and name. It is the unit
// the fetcher and collector operate on; full metadata is itself a fetched
// resource (KindMetadata).
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// Key is the lowercased owner/name pair used for cache and in-flight
// deduplication.
func (r Repo) Key() string {
	return strings.ToLower(r.Owner) + "/" + strings.ToLower(r.Name)
}
