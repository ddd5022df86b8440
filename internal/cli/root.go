package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the callstats command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "callstats",
		Short: "Dental office call log analytics",
		Long: `callstats loads the practice's call log (a CSV export URL or a local
.csv/.xlsx file), classifies every call and reports the same statistics as
the web dashboard.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(NewSummaryCmd())
	root.AddCommand(NewExportCmd())

	return root
}
