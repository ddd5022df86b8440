package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dental-calls-go/internal/aggregator"
	"dental-calls-go/internal/classifier"
	"dental-calls-go/internal/config"
	"dental-calls-go/internal/dashboard"
	"dental-calls-go/internal/dataset"
	"dental-calls-go/internal/logger"
	"dental-calls-go/internal/types"
)

// sourceFlags are shared by every command that reads the call log.
type sourceFlags struct {
	url        string
	file       string
	from       string
	to         string
	directions []string
	categories []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "CSV export URL of the call log (default SOURCE_URL)")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Local .csv or .xlsx call log (default SOURCE_PATH)")
	cmd.Flags().StringVar(&f.from, "from", "", "First day to include, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "Last day to include, YYYY-MM-DD")
	cmd.Flags().StringSliceVar(&f.directions, "direction", nil, "Call directions to include (repeatable)")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "Categories to include (repeatable)")
}

// filter validates the selection flags.
func (f *sourceFlags) filter() (aggregator.Filter, error) {
	out := aggregator.Filter{From: f.from, To: f.to, Directions: f.directions}
	for name, v := range map[string]string{"from": f.from, "to": f.to} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return aggregator.Filter{}, fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", name, v)
		}
	}
	if f.from != "" && f.to != "" && f.from > f.to {
		return aggregator.Filter{}, fmt.Errorf("--from %s is after --to %s", f.from, f.to)
	}
	for _, s := range f.categories {
		c, ok := classifier.Parse(s)
		if !ok {
			return aggregator.Filter{}, fmt.Errorf("unknown category %q", s)
		}
		out.Categories = append(out.Categories, c)
	}
	return out, nil
}

// load reads the call log and returns the records selected by the flags,
// with the filter after defaults.
func (f *sourceFlags) load(ctx context.Context, cmd *cobra.Command) ([]types.CallRecord, aggregator.Filter, error) {
	filter, err := f.filter()
	if err != nil {
		return nil, aggregator.Filter{}, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, aggregator.Filter{}, err
	}
	log := logger.New(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel, Output: cmd.ErrOrStderr()})

	url, path := cfg.SourceURL, cfg.SourcePath
	if f.url != "" {
		url, path = f.url, ""
	}
	if f.file != "" {
		path = f.file
	}

	store := dashboard.NewStore(dataset.NewSource(url, path, cfg.FetchTimeout, cfg.FetchMaxRetries, log), log, nil)
	recs, resolved, err := dashboard.NewService(store, nil).Filtered(ctx, filter)
	if err != nil {
		return nil, aggregator.Filter{}, fmt.Errorf("load call log: %w", err)
	}
	return recs, resolved, nil
}
