package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aisepucrio/stnl-ghmetadata/internal/fetcher"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

var resourcesQuiet bool

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the sub-resources collected for each repository",
	Long: `List the repository sub-resources this build knows how to fetch.

Every collected repository is assembled from these sub-resources. Each is
fetched independently, so one failing sub-resource degrades a single record
field instead of failing the repository.

Examples:
  ghmetadata resources
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, rf := range fetcher.List() {
			if resourcesQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), string(rf.Kind()))
				continue
			}
			printResource(cmd.OutOrStdout(), rf.Kind())
		}
		return nil
	},
}

func printResource(w io.Writer, kind resource.Kind) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "RESOURCE: %s\n", kind)
	fmt.Fprintf(w, "  %s\n", resource.Describe(kind))
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
	resourcesCmd.Flags().BoolVarP(&resourcesQuiet, "quiet", "q", false, "Only print resource kinds")
}
