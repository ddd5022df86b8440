package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dental-calls-go/internal/dataset"
)

// NewExportCmd creates the 'export' command.
func NewExportCmd() *cobra.Command {
	var src sourceFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the selected calls to an Excel workbook",
		Example: `  callstats export --out march.xlsx --from 2024-03-01 --to 2024-03-31
  callstats export -f calls.csv --direction Inbound`,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, _, err := src.load(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := dataset.WriteXLSX(file, recs); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d calls to %s\n", len(recs), out)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "dental_calls.xlsx", "Workbook to write")

	return cmd
}
