package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aisepucrio/stnl-ghmetadata/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ghmetadata",
	Short: "Collect metadata about GitHub repositories matching a search",
	Long: `ghmetadata searches GitHub for repositories and collects a metadata record
for each match: stars, forks, contributor count, languages, README, topics
and activity counters.

Collection is read-only: it calls the GitHub API (plus one public page per
repository for the contributor counter) and never mutates anything.

Examples:
	# Show available commands and global flags
	ghmetadata --help

	# Collect the top Go repositories by stars
	ghmetadata collect --language go --stars ">=1000"

	# List the sub-resources fetched per repository
	ghmetadata resources

	# Print build info
	ghmetadata version

Output:
	By default, collect prints progress to the console and writes the collected
	records to output.json. See "ghmetadata collect --help" for the file,
	summary and console format flags.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every GitHub request and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
