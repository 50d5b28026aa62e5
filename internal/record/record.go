package record

// Placeholders written in place of fields whose fetch failed. Downstream
// consumers of the output file never have to branch on field presence: a
// failed fetch is an explicit string, not a missing key.
const (
	DescriptionUnavailable = "description not available"
	ReadmeUnavailable      = "README not available"
	KeywordsUnavailable    = "keywords not available"
	CommitsUnavailable     = "commit count not available"
	PullsUnavailable       = "pull request count not available"
	LabelsUnavailable      = "label count not available"
	LanguagesUnavailable   = "language data not available"
)

// Record is the final per-repository shape persisted to the output collection.
//
// The metadata-derived fields (name through open_issues) are always populated:
// a repository whose metadata fetch failed never produces a Record at all. The
// remaining fields carry either their value or the matching placeholder, which
// is why the counters and keywords are typed any.
type Record struct {
	Name          string `json:"name"`
	Owner         string `json:"owner"`
	URL           string `json:"url"`
	DefaultBranch string `json:"default_branch"`

	Stars      int `json:"stars"`
	Watchers   int `json:"watchers"`
	Forks      int `json:"forks"`
	OpenIssues int `json:"open_issues"`

	// Commits, Pulls and LabelsCount hold an int on success and the matching
	// placeholder string when the underlying fetch failed.
	Commits     any `json:"commits"`
	Pulls       any `json:"pulls"`
	LabelsCount any `json:"labels_count"`

	Contributors ContributorCount `json:"contributors"`

	// LanguagesInfo holds a *LanguageBreakdown, nil for a repository with no
	// language bytes at all, or the placeholder string on fetch failure.
	LanguagesInfo any `json:"languages_info"`

	Description string `json:"description"`
	Readme      string `json:"readme"`

	// Keywords holds a []string on success and the placeholder on failure.
	Keywords any `json:"keywords"`
}

// FullName returns the owner/name form used in log lines and events.
func (r *Record) FullName() string {
	if r == nil {
		return ""
	}
	return r.Owner + "/" + r.Name
}
