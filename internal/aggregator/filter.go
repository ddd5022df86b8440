package aggregator

import (
	"dental-calls-go/internal/classifier"
	"dental-calls-go/internal/types"
)

// Predicate decides whether a record stays in the filtered view.
type Predicate func(types.CallRecord) bool

// Filter is the user's selection. Empty fields select everything. Date bounds
// are inclusive YYYY-MM-DD strings; once either bound is set, records without
// a date are excluded.
type Filter struct {
	From       string                `json:"from,omitempty"`
	To         string                `json:"to,omitempty"`
	Directions []string              `json:"directions,omitempty"`
	Categories []classifier.Category `json:"categories,omitempty"`
}

// ByDateRange keeps records dated within [from, to]. An empty bound is open.
func ByDateRange(from, to string) Predicate {
	if from == "" && to == "" {
		return nil
	}
	return func(r types.CallRecord) bool {
		if !r.HasDate() {
			return false
		}
		if from != "" && r.Date < from {
			return false
		}
		if to != "" && r.Date > to {
			return false
		}
		return true
	}
}

// ByDirection keeps records whose direction is selected.
func ByDirection(directions []string) Predicate {
	if len(directions) == 0 {
		return nil
	}
	set := make(map[string]bool, len(directions))
	for _, d := range directions {
		set[d] = true
	}
	return func(r types.CallRecord) bool { return set[r.CallDirection] }
}

// ByCategory keeps records whose category is selected.
func ByCategory(categories []classifier.Category) Predicate {
	if len(categories) == 0 {
		return nil
	}
	set := make(map[classifier.Category]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return func(r types.CallRecord) bool { return set[r.Category] }
}

// Predicates returns the active predicates of f; inactive ones are omitted.
func (f Filter) Predicates() []Predicate {
	var out []Predicate
	for _, p := range []Predicate{
		ByDateRange(f.From, f.To),
		ByDirection(f.Directions),
		ByCategory(f.Categories),
	} {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Apply returns the records matching every predicate, in input order. The
// input slice is never modified.
func Apply(records []types.CallRecord, preds ...Predicate) []types.CallRecord {
	out := make([]types.CallRecord, 0, len(records))
next:
	for _, r := range records {
		for _, p := range preds {
			if p != nil && !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// Select is Apply with the predicates of f.
func (f Filter) Select(records []types.CallRecord) []types.CallRecord {
	return Apply(records, f.Predicates()...)
}
