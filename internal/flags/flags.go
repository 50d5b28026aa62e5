package flags

// Package flags defines canonical CLI flag names shared across the CLI and the
// collector. Keeping these as constants helps avoid drift between Cobra flag
// wiring and other code paths that need to reference flags (e.g. error messages
// about config precedence).
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Search.Language, flags.FlagLanguage, "", "...")
//	arg := "--" + flags.FlagLanguage
const (
	// Search
	FlagLanguage   = "language"
	FlagStars      = "stars"
	FlagFork       = "fork"
	FlagCreated    = "created"
	FlagPushed     = "pushed"
	FlagSize       = "size"
	FlagUser       = "user"
	FlagOrg        = "org"
	FlagKeywords   = "keywords"
	FlagSort       = "sort"
	FlagOrder      = "order"
	FlagPerPage    = "per-page"
	FlagMaxResults = "max-results"

	// Filter
	FlagMinContributors = "min-contributors"

	// Output
	FlagOut           = "out"
	FlagOutFormat     = "out-format"
	FlagSummary       = "summary"
	FlagConsoleFormat = "console-format"
	FlagNoConsole     = "no-console"

	// Runtime
	FlagConfig      = "config"
	FlagToken       = "token"
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagVerbose     = "verbose"
)
