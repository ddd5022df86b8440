package dataset

import "strings"

// Table is a raw snapshot of the call log: one header row and string cells.
// Rows may be shorter than the header; missing cells are absent values.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// NormalizeColumn trims a header and replaces spaces with underscores.
func NormalizeColumn(h string) string {
	return strings.ReplaceAll(strings.TrimSpace(h), " ", "_")
}

// columnIndex maps lowercased normalized header names to the first column
// carrying that name.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(NormalizeColumn(h))
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
