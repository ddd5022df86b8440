package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"dental-calls-go/internal/actionable"
	"dental-calls-go/internal/aggregator"
	"dental-calls-go/internal/types"
)

type summaryOutput struct {
	Filter   aggregator.Filter       `json:"filter"`
	Summary  types.Summary           `json:"summary"`
	Insights []actionable.ActionCard `json:"insights"`
}

// NewSummaryCmd creates the 'summary' command.
func NewSummaryCmd() *cobra.Command {
	var src sourceFlags
	var text bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print call statistics for the selected calls",
		Long:  `Load the call log, apply the filters and print the dashboard statistics with business insights.`,
		Example: `  callstats summary
  callstats summary --from 2024-03-01 --to 2024-03-31 --category "Missed Call"
  callstats summary -f calls.xlsx --text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, f, err := src.load(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			s := aggregator.Aggregate(recs)
			out := summaryOutput{Filter: f, Summary: s, Insights: actionable.Generate(s)}
			if text {
				return printText(cmd.OutOrStdout(), out)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVarP(&text, "text", "t", false, "Human readable output instead of JSON")

	return cmd
}

func printText(w io.Writer, out summaryOutput) error {
	p := message.NewPrinter(language.English)
	s := out.Summary

	if out.Filter.From != "" || out.Filter.To != "" {
		p.Fprintf(w, "Period:            %s .. %s\n", out.Filter.From, out.Filter.To)
	}
	p.Fprintf(w, "Total calls:       %d\n", s.TotalCalls)
	p.Fprintf(w, "Answered:          %d\n", s.AnsweredCalls)
	p.Fprintf(w, "Missed:            %d (%.2f%%)\n", s.MissedCalls, s.MissedRate)
	p.Fprintf(w, "Bookings:          %d (%.2f%%)\n", s.AppointmentBookings, s.BookingRate)
	p.Fprintf(w, "New patients:      %d (%.1f%%)\n", s.NewPatientCalls, s.NewPatientPercent)
	p.Fprintf(w, "Avg conversation:  %.2fs\n", s.AvgConversation)

	if top := aggregator.TopCategories(s, len(s.ByCategory)); len(top) > 0 {
		fmt.Fprintln(w, "\nCategories:")
		for _, c := range top {
			p.Fprintf(w, "  %-26s %d\n", c.Category, c.Count)
		}
	}

	fmt.Fprintln(w, "\nInsights:")
	for _, c := range out.Insights {
		if _, err := fmt.Fprintf(w, "  [%s] %s\n    %s\n", c.Section, c.Insight, c.Action); err != nil {
			return err
		}
	}
	return nil
}
