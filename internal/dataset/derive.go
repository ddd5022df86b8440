package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"dental-calls-go/internal/classifier"
	"dental-calls-go/internal/types"
)

// Normalized names of the columns the dashboard understands.
const (
	ColCallTime      = "Call_Time"
	ColCallDirection = "Call_Direction"
	ColCallStatus    = "Call_Status"
	ColContactType   = "Contact_Type"
	ColTranscript    = "transcript"
	ColRing          = "Ring_Duration"
	ColConversation  = "Conversation_Duration"
	ColVoicemail     = "Voicemail_Duration"
	ColTotal         = "Total_Duration"
	ColDate          = "Date"
	ColHour          = "Hour"
	ColDayOfWeek     = "Day_Of_Week"
	ColCategory      = "Category"
)

var baseColumns = []string{
	ColCallTime, ColCallDirection, ColCallStatus, ColContactType, ColTranscript,
	ColRing, ColConversation, ColVoicemail, ColTotal,
}

var derivedColumns = []string{ColDate, ColHour, ColDayOfWeek, ColCategory}

// timeLayouts are tried in order; the first successful parse wins.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"1/2/06 15:04",
	"1/2/06 3:04 PM",
	"1/2/06",
	"02-Jan-2006 15:04:05",
	"02-Jan-2006",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"Mon, 02 Jan 2006 15:04:05 -0700",
}

// ParseTime parses a call timestamp. Anything it cannot read yields nil.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseNumber coerces a duration cell. Non-numeric, NaN and infinite values
// yield nil.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Derive turns a raw table into classified call records. Every row produces
// exactly one record; parse problems become absent values.
func Derive(t Table) []types.CallRecord {
	header := make([]string, len(t.Header))
	for i, h := range t.Header {
		header[i] = NormalizeColumn(h)
	}
	idx := columnIndex(header)
	col := func(name string) int {
		if i, ok := idx[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}

	known := map[int]bool{}
	for _, name := range append(append([]string{}, baseColumns...), derivedColumns...) {
		if i := col(name); i >= 0 {
			known[i] = true
		}
	}
	var extras []int
	for i, h := range header {
		if !known[i] && h != "" && idx[strings.ToLower(h)] == i {
			extras = append(extras, i)
		}
	}

	var (
		timeIdx = col(ColCallTime)
		dirIdx  = col(ColCallDirection)
		statIdx = col(ColCallStatus)
		ctIdx   = col(ColContactType)
		trIdx   = col(ColTranscript)
		ringIdx = col(ColRing)
		convIdx = col(ColConversation)
		vmIdx   = col(ColVoicemail)
		totIdx  = col(ColTotal)
	)

	out := make([]types.CallRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := types.CallRecord{
			CallTime:             ParseTime(cell(row, timeIdx)),
			CallDirection:        cell(row, dirIdx),
			CallStatus:           cell(row, statIdx),
			ContactType:          cell(row, ctIdx),
			Transcript:           cell(row, trIdx),
			RingDuration:         ParseNumber(cell(row, ringIdx)),
			ConversationDuration: ParseNumber(cell(row, convIdx)),
			VoicemailDuration:    ParseNumber(cell(row, vmIdx)),
			TotalDuration:        ParseNumber(cell(row, totIdx)),
		}
		if rec.CallTime != nil {
			ct := *rec.CallTime
			hour := ct.Hour()
			rec.Date = ct.Format(time.DateOnly)
			rec.Hour = &hour
			rec.DayOfWeek = ct.Weekday().String()
		}
		if len(extras) > 0 {
			rec.Extra = make(map[string]string, len(extras))
			for _, i := range extras {
				rec.Extra[header[i]] = cell(row, i)
			}
		}
		rec.Category = classifier.Classify(rec.Transcript, rec.CallStatus)
		out = append(out, rec)
	}
	return out
}

// ToTable renders records back into normalized columns, derived fields
// included. Deriving the result again reproduces the same records.
func ToTable(records []types.CallRecord) Table {
	extraSet := map[string]bool{}
	for _, r := range records {
		for k := range r.Extra {
			extraSet[k] = true
		}
	}
	extras := make([]string, 0, len(extraSet))
	for k := range extraSet {
		extras = append(extras, k)
	}
	sort.Strings(extras)

	header := append(append(append([]string{}, baseColumns...), derivedColumns...), extras...)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{
			FormatTime(r.CallTime),
			r.CallDirection,
			r.CallStatus,
			r.ContactType,
			r.Transcript,
			FormatNumber(r.RingDuration),
			FormatNumber(r.ConversationDuration),
			FormatNumber(r.VoicemailDuration),
			FormatNumber(r.TotalDuration),
			r.Date,
			formatHour(r.Hour),
			r.DayOfWeek,
			string(r.Category),
		}
		for _, k := range extras {
			row = append(row, r.Extra[k])
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}
}

// FormatTime renders a call time losslessly; nil renders as "".
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// FormatNumber renders a duration with the shortest exact representation.
func FormatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatHour(h *int) string {
	if h == nil {
		return ""
	}
	return strconv.Itoa(*h)
}
