package resource

// Kind uniquely identifies one sub-resource of a repository that can be
// fetched independently (metadata, languages, one contributors page, ...).
type Kind string

// Request represents a request for a specific sub-resource with optional
// parameters (e.g. the page index for a contributors page).
type Request struct {
	Kind   Kind
	Params map[string]string
}

const (
	// KindMetadata is the repository object itself: name, owner, counters,
	// default branch, description, URL. Everything else keys off it.
	KindMetadata Kind = "repo.metadata"

	// KindLanguages is the byte count per language used in the repository.
	KindLanguages Kind = "repo.languages"

	// KindContributorsPage is one page of the contributors listing. It takes a
	// "page" param; the estimator drives it page by page.
	KindContributorsPage Kind = "repo.contributors_page"

	// KindContributorsScrape is the contributor counter scraped from the
	// rendered repository page on github.com. It is served by the web frontend
	// rather than the REST API and comes back as HTML markup.
	KindContributorsScrape Kind = "repo.contributors_scrape"

	// KindReadme is the decoded README content from the default branch.
	KindReadme Kind = "repo.readme"

	// KindTopics is the list of topics assigned to the repository.
	KindTopics Kind = "repo.topics"

	// KindLabelsCount is the number of issue labels defined on the repository.
	KindLabelsCount Kind = "repo.labels_count"

	// KindCommitsCount is the number of commits on the default branch.
	KindCommitsCount Kind = "repo.commits_count"

	// KindPullsCount is the number of pull requests (all states).
	KindPullsCount Kind = "repo.pulls_count"
)

// Describe returns a one-line human description of a resource kind, used by
// the resources listing command.
func Describe(kind Kind) string {
	switch kind {
	case KindMetadata:
		return "Repository object: name, owner, URL, counters, default branch, description"
	case KindLanguages:
		return "Bytes of code per language"
	case KindContributorsPage:
		return "One page of the contributors listing (REST, drives the estimator fallback)"
	case KindContributorsScrape:
		return "Contributor counter scraped from the rendered repository page"
	case KindReadme:
		return "Decoded README content from the default branch"
	case KindTopics:
		return "Topics assigned to the repository"
	case KindLabelsCount:
		return "Number of issue labels defined on the repository"
	case KindCommitsCount:
		return "Number of commits on the default branch"
	case KindPullsCount:
		return "Number of pull requests across all states"
	default:
		return "Unknown resource kind"
	}
}

// Priority returns the fetch priority for a resource kind (lower is higher
// priority). Metadata goes first because sibling fetches resolve the default
// branch from it.
func Priority(kind Kind) int {
	switch kind {
	case KindMetadata:
		return 0
	case KindContributorsScrape, KindContributorsPage:
		return 1
	default:
		return 2
	}
}
