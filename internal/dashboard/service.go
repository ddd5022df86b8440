package dashboard

import (
	"context"
	"slices"
	"time"

	"dental-calls-go/internal/actionable"
	"dental-calls-go/internal/aggregator"
	"dental-calls-go/internal/classifier"
	"dental-calls-go/internal/dataset"
	"dental-calls-go/internal/metrics"
	"dental-calls-go/internal/types"
)

// Data explorer limits.
const (
	MinRows     = 10
	MaxRows     = 100
	DefaultRows = 20

	topCategoryBars = 8
	durationBars    = 10
)

// TableColumns are the columns the data explorer can show, in display order.
var TableColumns = []string{
	dataset.ColCallTime,
	dataset.ColCallDirection,
	dataset.ColCallStatus,
	dataset.ColContactType,
	dataset.ColCategory,
	dataset.ColConversation,
}

// DefaultColumns are shown when the caller picks none.
var DefaultColumns = []string{
	dataset.ColCallTime,
	dataset.ColCallStatus,
	dataset.ColCategory,
	dataset.ColConversation,
}

// Query is one dashboard request.
type Query struct {
	Filter  aggregator.Filter
	Columns []string
	Rows    int
}

// Options are the selectable filter values of the loaded data.
type Options struct {
	Directions []string              `json:"directions"`
	Categories []classifier.Category `json:"categories"`
	MinDate    string                `json:"min_date"`
	MaxDate    string                `json:"max_date"`
}

// TableView is a sorted slice of the filtered records.
type TableView struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Shown   int        `json:"shown"`
	Total   int        `json:"total"`
}

// View is everything the dashboard renders for one query.
type View struct {
	Filter            aggregator.Filter        `json:"filter"`
	DatasetCalls      int                      `json:"dataset_calls"`
	Summary           types.Summary            `json:"summary"`
	TopCategories     []types.CategoryCount    `json:"top_categories"`
	LongestCategories []types.CategoryDuration `json:"longest_categories"`
	Insights          []actionable.ActionCard  `json:"insights"`
	Table             TableView                `json:"table"`
	Options           Options                  `json:"options"`
	LoadError         string                   `json:"load_error,omitempty"`
}

type Service struct {
	records RecordProvider
	metrics *metrics.Metrics
}

func NewService(records RecordProvider, m *metrics.Metrics) *Service {
	return &Service{records: records, metrics: m}
}

// Options lists directions in first-seen order, present categories in
// priority order and the date bounds of the data.
func (s *Service) Options(ctx context.Context) (Options, error) {
	recs, err := s.records.Records(ctx)
	return optionsOf(recs), err
}

func optionsOf(recs []types.CallRecord) Options {
	opts := Options{Directions: []string{}, Categories: []classifier.Category{}}
	seenDir := map[string]bool{}
	seenCat := map[classifier.Category]bool{}
	for _, r := range recs {
		if !seenDir[r.CallDirection] {
			seenDir[r.CallDirection] = true
			opts.Directions = append(opts.Directions, r.CallDirection)
		}
		seenCat[r.Category] = true
		if r.HasDate() {
			if opts.MinDate == "" || r.Date < opts.MinDate {
				opts.MinDate = r.Date
			}
			if r.Date > opts.MaxDate {
				opts.MaxDate = r.Date
			}
		}
	}
	for _, c := range classifier.All() {
		if seenCat[c] {
			opts.Categories = append(opts.Categories, c)
		}
	}
	return opts
}

// Resolve fills the unset parts of f with the dashboard defaults: the full
// date range of the data and every direction and category present.
func (o Options) Resolve(f aggregator.Filter) aggregator.Filter {
	if f.From == "" {
		f.From = o.MinDate
	}
	if f.To == "" {
		f.To = o.MaxDate
	}
	if len(f.Directions) == 0 {
		f.Directions = slices.Clone(o.Directions)
	}
	if len(f.Categories) == 0 {
		f.Categories = slices.Clone(o.Categories)
	}
	return f
}

// Filtered returns the records selected by f after defaults are applied,
// together with the resolved filter.
func (s *Service) Filtered(ctx context.Context, f aggregator.Filter) ([]types.CallRecord, aggregator.Filter, error) {
	recs, err := s.records.Records(ctx)
	resolved := optionsOf(recs).Resolve(f)
	return resolved.Select(recs), resolved, err
}

// View computes the full dashboard for q. A load error does not stop the
// computation; it is reported in View.LoadError over an empty data set.
func (s *Service) View(ctx context.Context, q Query) View {
	recs, err := s.records.Records(ctx)
	opts := optionsOf(recs)
	f := opts.Resolve(q.Filter)
	filtered := f.Select(recs)
	summary := aggregator.Aggregate(filtered)

	v := View{
		Filter:            f,
		DatasetCalls:      len(recs),
		Summary:           summary,
		TopCategories:     aggregator.TopCategories(summary, topCategoryBars),
		LongestCategories: aggregator.LongestCategories(summary, durationBars),
		Insights:          actionable.Generate(summary),
		Table:             BuildTable(filtered, q.Columns, q.Rows),
		Options:           opts,
	}
	if err != nil {
		v.LoadError = err.Error()
	}
	if s.metrics != nil {
		s.metrics.ViewsBuilt.Inc()
	}
	return v
}

// BuildTable sorts a copy of recs by call time, newest first with undated
// calls last, and renders the first rows records in the chosen columns.
// Unknown columns are dropped; no valid column means the defaults. rows is
// clamped to [MinRows, MaxRows], 0 means DefaultRows.
func BuildTable(recs []types.CallRecord, columns []string, rows int) TableView {
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		if slices.Contains(TableColumns, c) && !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		cols = slices.Clone(DefaultColumns)
	}
	rows = ClampRows(rows)

	sorted := slices.Clone(recs)
	slices.SortStableFunc(sorted, func(a, b types.CallRecord) int {
		switch {
		case a.CallTime == nil && b.CallTime == nil:
			return 0
		case a.CallTime == nil:
			return 1
		case b.CallTime == nil:
			return -1
		}
		return b.CallTime.Compare(*a.CallTime)
	})
	if len(sorted) > rows {
		sorted = sorted[:rows]
	}

	out := TableView{Columns: cols, Rows: make([][]string, 0, len(sorted)), Shown: len(sorted), Total: len(recs)}
	for _, r := range sorted {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = cellValue(r, c)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// ClampRows applies the data explorer row limits.
func ClampRows(rows int) int {
	switch {
	case rows == 0:
		return DefaultRows
	case rows < MinRows:
		return MinRows
	case rows > MaxRows:
		return MaxRows
	}
	return rows
}

func cellValue(r types.CallRecord, column string) string {
	switch column {
	case dataset.ColCallTime:
		if r.CallTime == nil {
			return ""
		}
		return r.CallTime.Format(time.DateTime)
	case dataset.ColCallDirection:
		return r.CallDirection
	case dataset.ColCallStatus:
		return r.CallStatus
	case dataset.ColContactType:
		return r.ContactType
	case dataset.ColCategory:
		return string(r.Category)
	case dataset.ColConversation:
		return dataset.FormatNumber(r.ConversationDuration)
	}
	return ""
}
