package web

import (
	"cmp"
	"embed"
	"fmt"
	"html/template"
	"io"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"dental-calls-go/internal/classifier"
	"dental-calls-go/internal/dashboard"
	"dental-calls-go/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.English)

var funcs = template.FuncMap{
	"num": func(n int) string { return printer.Sprintf("%d", n) },
	"pct": func(v float64) string { return printer.Sprintf("%.2f%%", v) },
	"has": slices.Contains[[]string, string],
	"hasCategory": func(cs []classifier.Category, c classifier.Category) bool {
		return slices.Contains(cs, c)
	},
}

var page = template.Must(template.New("dashboard.html").Funcs(funcs).ParseFS(templateFS, "templates/dashboard.html"))

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value string
	Width float64 // percent of the longest bar
}

type pageData struct {
	dashboard.View
	AllColumns    []string
	Rows          int
	CategoryBars  []Bar
	DurationBars  []Bar
	DailyBars     []Bar
	HourlyBars    []Bar
	StatusBars    []Bar
	PeakDay       string
	PeakHour      string
	QuietHour     string
	DailyAverage  string
	PeriodTotal   string
	AvgCall       string
	NewPatientPct string
}

// Render writes the HTML dashboard for v. rows is the requested data
// explorer size and only fills the form.
func Render(w io.Writer, v dashboard.View, rows int) error {
	d := pageData{
		View:       v,
		AllColumns: dashboard.TableColumns,
		Rows:       dashboard.ClampRows(rows),
	}

	counts := make([]float64, len(v.TopCategories))
	for i, c := range v.TopCategories {
		counts[i] = float64(c.Count)
	}
	for i, c := range v.TopCategories {
		d.CategoryBars = append(d.CategoryBars, Bar{Label: string(c.Category), Value: printer.Sprintf("%d", c.Count), Width: width(counts, i)})
	}

	secs := make([]float64, len(v.LongestCategories))
	for i, c := range v.LongestCategories {
		secs[i] = c.Seconds
	}
	for i, c := range v.LongestCategories {
		d.DurationBars = append(d.DurationBars, Bar{Label: string(c.Category), Value: printer.Sprintf("%.1fs", c.Seconds), Width: width(secs, i)})
	}

	daily := make([]float64, len(v.Summary.Daily.Buckets))
	for i, b := range v.Summary.Daily.Buckets {
		daily[i] = float64(b.Count)
	}
	for i, b := range v.Summary.Daily.Buckets {
		d.DailyBars = append(d.DailyBars, Bar{Label: b.Key, Value: printer.Sprintf("%d", b.Count), Width: width(daily, i)})
	}

	hourly := make([]float64, len(v.Summary.Hourly.Buckets))
	for i, b := range v.Summary.Hourly.Buckets {
		hourly[i] = float64(b.Count)
	}
	for i, b := range v.Summary.Hourly.Buckets {
		d.HourlyBars = append(d.HourlyBars, Bar{Label: fmt.Sprintf("%02d:00", b.Key), Value: printer.Sprintf("%d", b.Count), Width: width(hourly, i)})
	}

	statuses := make([]types.Bucket[string], 0, len(v.Summary.ByStatus))
	for status, n := range v.Summary.ByStatus {
		statuses = append(statuses, types.Bucket[string]{Key: status, Count: n})
	}
	slices.SortFunc(statuses, func(a, b types.Bucket[string]) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Key, b.Key)
	})
	byStatus := make([]float64, len(statuses))
	for i, b := range statuses {
		byStatus[i] = float64(b.Count)
	}
	for i, b := range statuses {
		label := b.Key
		if label == "" {
			label = "(none)"
		}
		d.StatusBars = append(d.StatusBars, Bar{Label: label, Value: printer.Sprintf("%d", b.Count), Width: width(byStatus, i)})
	}

	if p := v.Summary.Daily.Peak; p != nil {
		d.PeakDay = printer.Sprintf("%s (%d calls)", p.Key, p.Count)
	}
	if p := v.Summary.Hourly.Peak; p != nil {
		d.PeakHour = printer.Sprintf("%02d:00 (%d calls)", p.Key, p.Count)
	}
	if q := v.Summary.Hourly.Min; q != nil {
		d.QuietHour = printer.Sprintf("%02d:00 (%d calls)", q.Key, q.Count)
	}
	if len(v.Summary.Daily.Buckets) > 0 {
		d.DailyAverage = printer.Sprintf("%.1f calls", v.Summary.Daily.Mean)
		d.PeriodTotal = printer.Sprintf("%d calls over %d days", v.Summary.Daily.Total, len(v.Summary.Daily.Buckets))
	}
	d.AvgCall = printer.Sprintf("%.1fs", v.Summary.AvgConversation)
	d.NewPatientPct = printer.Sprintf("%.1f%%", v.Summary.NewPatientPercent)

	return page.Execute(w, d)
}

func width(values []float64, i int) float64 {
	top := slices.Max(values)
	if top <= 0 {
		return 0
	}
	return values[i] / top * 100
}
