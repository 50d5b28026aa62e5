package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aisepucrio/stnl-ghmetadata/internal/collector"
	"github.com/aisepucrio/stnl-ghmetadata/internal/config"
	"github.com/aisepucrio/stnl-ghmetadata/internal/flags"
	gh "github.com/aisepucrio/stnl-ghmetadata/internal/github"
)

// cfg receives the flag values. The configuration file is loaded separately
// in runCollect; flags the user actually set win over file values
// (defaults < configs.json < flags).
var cfg = config.New()

// configPath is the --config flag. Empty means ./configs.json when present.
var configPath string

const collectHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	ghmetadata works without credentials, but unauthenticated search and API
	rate limits are very low. A token raises them substantially.

	Token sources (in order):
	1) --token flag
	2) GITHUB_TOKEN environment variable
	3) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

	The token is never read from the configuration file and is never printed.

  Examples:
    # macOS/Linux
    export GITHUB_TOKEN="<your_token>"
    ghmetadata collect --language go

    # GitHub CLI auth
    gh auth login
    ghmetadata collect --language go

    # Windows PowerShell
    $env:GITHUB_TOKEN = "<your_token>"
    ghmetadata collect --language go

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasHelpSubCommands}}Additional help topics:
{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Search GitHub and collect one metadata record per repository",
	Long: `Search GitHub for repositories matching the configured filters and collect a
metadata record for each match.

Collection is read-only. For every repository it gathers the repository
object, languages, README, topics, commit/pull/label counters and a
contributor count (scraped from the public repository page, with a paginated
API fallback). Repositories below --min-contributors are excluded, not
failed.

Configuration:
	Filters can come from a configs.json file in the working directory (or
	--config), from flags, or both. Flags win over the file. The token is never
	read from the file.

Output:
	Console output is controlled by --console-format (default: text).
	Collected records are written to --out (default: output.json) as an
	aggregate JSON array or an NDJSON stream; --summary adds a Markdown run
	digest. Use --no-console with --out for machine output.

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events
	with a "type" field (run.started, repo.collected, repo.excluded,
	repo.failed, run.finished); repo.collected carries the record under
	"record".

Exit codes:
	0 = run completed (exclusions alone do not fail a run)
	2 = partial failure (some repositories failed or never settled)
	3 = fatal error (collection did not run; no output file is created)

Examples:
  # Token via environment variable
  export GITHUB_TOKEN="<your_token>"
  ghmetadata collect --language go --stars ">=1000" --max-results 50

  # Everything from configs.json
  ghmetadata collect --config configs.json

  # AI Agent: stream machine-readable events to stdout
  ghmetadata collect --language go --no-console --console-format ndjson
`,
	Run: func(cmd *cobra.Command, args []string) {
		// A bare "collect" with no flags and no config file would only fail
		// validation on an empty query; print help instead.
		if len(args) == 0 && cmd.Flags().NFlag() == 0 && !defaultConfigPresent() {
			_ = cmd.Help()
			return
		}
		os.Exit(runCollect(cmd))
	},
}

func defaultConfigPresent() bool {
	_, err := os.Stat(config.DefaultFile)
	return err == nil
}

// runCollect returns the process exit code.
func runCollect(cmd *cobra.Command) int {
	loaded, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}
	applyFlagOverrides(cmd, loaded)

	if err := loaded.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	level := log.InfoLevel
	if loaded.Runtime.Verbose {
		level = log.DebugLevel
	}
	logger := newLogger(os.Stderr, level)

	ctx, cancel := context.WithTimeout(context.Background(), loaded.Runtime.Timeout)
	defer cancel()
	ctx = log.WithContext(ctx, logger)

	token, source, err := gh.ResolveToken(ctx, loaded.Runtime.Token)
	if err != nil {
		logger.Error("cannot resolve GitHub token", "err", err)
		return 3
	}
	if token == "" {
		logger.Warn("no GitHub token found; collecting unauthenticated with low rate limits (set GITHUB_TOKEN or run 'gh auth login')")
	} else {
		logger.Debug("GitHub token resolved", "source", string(source))
	}

	client, err := gh.NewClient(ctx, token, gh.WithVerbose(loaded.Runtime.Verbose, nil))
	if err != nil {
		logger.Error("cannot create GitHub client", "err", err)
		return 3
	}

	return collector.Run(ctx, loaded, client)
}

// applyFlagOverrides copies every flag the user set on the command line over
// the file-loaded configuration.
func applyFlagOverrides(cmd *cobra.Command, dst *config.Config) {
	overrides := map[string]func(){
		flags.FlagLanguage:        func() { dst.Search.Language = cfg.Search.Language },
		flags.FlagStars:           func() { dst.Search.Stars = cfg.Search.Stars },
		flags.FlagFork:            func() { dst.Search.Fork = cfg.Search.Fork },
		flags.FlagCreated:         func() { dst.Search.Created = cfg.Search.Created },
		flags.FlagPushed:          func() { dst.Search.Pushed = cfg.Search.Pushed },
		flags.FlagSize:            func() { dst.Search.Size = cfg.Search.Size },
		flags.FlagUser:            func() { dst.Search.User = cfg.Search.User },
		flags.FlagOrg:             func() { dst.Search.Org = cfg.Search.Org },
		flags.FlagKeywords:        func() { dst.Search.Keywords = cfg.Search.Keywords },
		flags.FlagSort:            func() { dst.Search.Sort = cfg.Search.Sort },
		flags.FlagOrder:           func() { dst.Search.Order = cfg.Search.Order },
		flags.FlagPerPage:         func() { dst.Search.PerPage = cfg.Search.PerPage },
		flags.FlagMaxResults:      func() { dst.Search.MaxResults = cfg.Search.MaxResults },
		flags.FlagMinContributors: func() { dst.Filter.MinContributors = cfg.Filter.MinContributors },
		flags.FlagOut:             func() { dst.Output.Path = cfg.Output.Path },
		flags.FlagOutFormat:       func() { dst.Output.Format = cfg.Output.Format },
		flags.FlagSummary:         func() { dst.Output.Summary = cfg.Output.Summary },
		flags.FlagConsoleFormat:   func() { dst.Output.ConsoleFormat = cfg.Output.ConsoleFormat },
		flags.FlagNoConsole:       func() { dst.Output.NoConsole = cfg.Output.NoConsole },
		flags.FlagConcurrency:     func() { dst.Runtime.Concurrency = cfg.Runtime.Concurrency },
		flags.FlagTimeout:         func() { dst.Runtime.Timeout = cfg.Runtime.Timeout },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	// Credentials and verbosity never come from the file; the flag values are
	// authoritative.
	dst.Runtime.Token = cfg.Runtime.Token
	dst.Runtime.Verbose = cfg.Runtime.Verbose
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.SetHelpTemplate(collectHelpTemplate)

	// MAINTAINER NOTE: If you add/change/remove any flags here, keep the
	// config struct and the file key mapping in sync:
	// internal/config/config.go, internal/config/load.go.

	// Search
	collectCmd.Flags().StringVar(&cfg.Search.Language, flags.FlagLanguage, "", "Restrict the search to this main language (search qualifier language:)")
	collectCmd.Flags().StringVar(&cfg.Search.Stars, flags.FlagStars, "", "Star-count expression, e.g. \">=500\" or \"100..200\" (stars:)")
	collectCmd.Flags().StringVar(&cfg.Search.Fork, flags.FlagFork, "", "Fork policy: true|false|only (empty = API default, forks excluded)")
	collectCmd.Flags().StringVar(&cfg.Search.Created, flags.FlagCreated, "", "Creation-date expression, e.g. \">=2023-01-01\" (created:)")
	collectCmd.Flags().StringVar(&cfg.Search.Pushed, flags.FlagPushed, "", "Last-push-date expression (pushed:)")
	collectCmd.Flags().StringVar(&cfg.Search.Size, flags.FlagSize, "", "Repository-size expression in KB (size:)")
	collectCmd.Flags().StringVar(&cfg.Search.User, flags.FlagUser, "", "Limit the search to repositories owned by this user (user:)")
	collectCmd.Flags().StringVar(&cfg.Search.Org, flags.FlagOrg, "", "Limit the search to repositories owned by this organization (org:)")
	collectCmd.Flags().StringSliceVar(&cfg.Search.Keywords, flags.FlagKeywords, nil, "Free-text search terms (repeatable; comma-separated accepted)")
	collectCmd.Flags().StringVar(&cfg.Search.Sort, flags.FlagSort, cfg.Search.Sort, "Search ordering: stars|forks|help-wanted-issues|updated|best-match")
	collectCmd.Flags().StringVar(&cfg.Search.Order, flags.FlagOrder, cfg.Search.Order, "Sort direction: asc|desc")
	collectCmd.Flags().IntVar(&cfg.Search.PerPage, flags.FlagPerPage, cfg.Search.PerPage, "Search page size (1..100)")
	collectCmd.Flags().IntVar(&cfg.Search.MaxResults, flags.FlagMaxResults, cfg.Search.MaxResults, "Maximum repositories to collect (the search API caps results at 1000)")

	// Filter
	collectCmd.Flags().IntVar(&cfg.Filter.MinContributors, flags.FlagMinContributors, cfg.Filter.MinContributors, "Exclude repositories with fewer contributors (0 disables the comparison)")

	// Output
	collectCmd.Flags().StringVar(&cfg.Output.Path, flags.FlagOut, cfg.Output.Path, "Write collected records to this path")
	collectCmd.Flags().StringVar(&cfg.Output.Format, flags.FlagOutFormat, "", "Output file format: json|ndjson (default: inferred from file extension)")
	collectCmd.Flags().StringVar(&cfg.Output.Summary, flags.FlagSummary, "", "Write a Markdown run summary to this path")
	collectCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	collectCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out)")

	// Runtime
	collectCmd.Flags().StringVar(&configPath, flags.FlagConfig, "", "Configuration file (default: ./configs.json when present)")
	collectCmd.Flags().StringVar(&cfg.Runtime.Token, flags.FlagToken, "", "GitHub access token (overrides GITHUB_TOKEN and gh CLI auth)")
	collectCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Concurrent repository workers (default: half the CPUs)")
	collectCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout for the whole run")
}
