package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dental-calls-go/internal/classifier"
	"dental-calls-go/internal/dashboard"
	"dental-calls-go/internal/logger"
	"dental-calls-go/internal/metrics"
	"dental-calls-go/internal/types"
)

type fakeRecords struct {
	recs []types.CallRecord
	err  error
}

func (f fakeRecords) Records(context.Context) ([]types.CallRecord, error) { return f.recs, f.err }

func call(day, hour int, direction, status string, cat classifier.Category) types.CallRecord {
	ts := time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
	h := ts.Hour()
	conv := 90.0
	return types.CallRecord{
		CallTime: &ts, Date: ts.Format(time.DateOnly), Hour: &h, DayOfWeek: ts.Weekday().String(),
		CallDirection: direction, CallStatus: status, Category: cat, ConversationDuration: &conv,
	}
}

func testRouter(t *testing.T, provider dashboard.RecordProvider) (http.Handler, *metrics.Metrics) {
	t.Helper()
	log := logger.New(logger.Options{Output: &bytes.Buffer{}})
	m := metrics.New()
	h := NewHandler(dashboard.NewService(provider, m), log, m)
	return NewRouter(h, log, m, []string{"*"}), m
}

func fixture() fakeRecords {
	return fakeRecords{recs: []types.CallRecord{
		call(1, 9, "Inbound", "Answered", classifier.AppointmentBooking),
		call(1, 10, "Inbound", "Missed", classifier.MissedCall),
		call(2, 11, "Outbound", "Answered", classifier.InsuranceInquiry),
		call(3, 9, "Inbound", "Answered", classifier.AppointmentBooking),
	}}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := testRouter(t, fixture())
	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSummary(t *testing.T) {
	h, m := testRouter(t, fixture())
	rec := get(t, h, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Summary.TotalCalls)
	assert.Equal(t, 1, body.Summary.MissedCalls)
	assert.Equal(t, 25.0, body.Summary.MissedRate)
	assert.Equal(t, 50.0, body.Summary.BookingRate)
	assert.Equal(t, "2024-03-01", body.Filter.From)
	assert.Equal(t, "2024-03-03", body.Filter.To)
	assert.NotEmpty(t, body.Insights)
	assert.Empty(t, body.LoadError)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ViewsBuilt))
}

func TestSummaryFilters(t *testing.T) {
	h, _ := testRouter(t, fixture())
	rec := get(t, h, "/api/summary?from=2024-03-02&direction=Inbound&direction=Outbound&category=insurance+inquiry")
	require.Equal(t, http.StatusOK, rec.Code)

	var body summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Summary.TotalCalls)
	assert.Equal(t, 1, body.Summary.InsuranceCalls)
	assert.Equal(t, []classifier.Category{classifier.InsuranceInquiry}, body.Filter.Categories)
}

func TestValidationErrors(t *testing.T) {
	h, _ := testRouter(t, fixture())

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"bad from", "/api/summary?from=03/01/2024", "from"},
		{"inverted range", "/api/summary?from=2024-03-05&to=2024-03-01", "from must not be after to"},
		{"unknown category", "/api/summary?category=Gossip", "categories"},
		{"unknown column", "/api/calls?columns=Transcript", "columns"},
		{"rows not a number", "/api/calls?rows=many", "rows"},
		{"rows out of range", "/api/calls?rows=500", "rows"},
		{"export bad date", "/api/export.xlsx?to=yesterday", "to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "validation_error", body.Error)
			assert.Contains(t, body.Message, tt.want)
		})
	}
}

func TestCalls(t *testing.T) {
	h, _ := testRouter(t, fixture())
	rec := get(t, h, "/api/calls?columns=Call_Time&columns=Category&rows=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var body callsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Call_Time", "Category"}, body.Table.Columns)
	assert.Equal(t, 4, body.Table.Total)
	require.Len(t, body.Table.Rows, 4)
	assert.Equal(t, []string{"2024-03-03 09:00:00", "Appointment Booking"}, body.Table.Rows[0])
}

func TestOptions(t *testing.T) {
	h, _ := testRouter(t, fixture())
	rec := get(t, h, "/api/options")
	require.Equal(t, http.StatusOK, rec.Code)

	var body optionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Inbound", "Outbound"}, body.Directions)
	assert.Equal(t, []classifier.Category{
		classifier.MissedCall, classifier.AppointmentBooking, classifier.InsuranceInquiry,
	}, body.Categories)
	assert.Equal(t, "2024-03-01", body.MinDate)
	assert.Equal(t, "2024-03-03", body.MaxDate)
}

func TestLoadErrorIsSurfaced(t *testing.T) {
	h, _ := testRouter(t, fakeRecords{recs: []types.CallRecord{}, err: errors.New("fetch call log: status 503")})

	rec := get(t, h, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var body summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fetch call log: status 503", body.LoadError)
	assert.Equal(t, 0, body.Summary.TotalCalls)
	assert.Equal(t, 0.0, body.Summary.MissedRate)

	rec = get(t, h, "/api/options")
	assert.Contains(t, rec.Body.String(), `"load_error": "fetch call log: status 503"`)

	rec = get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not load the call log")
}

func TestExport(t *testing.T) {
	h, m := testRouter(t, fixture())
	rec := get(t, h, "/api/export.xlsx?category=Appointment+Booking")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="dental_calls_2024-03-01_2024-03-03.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Calls")
	require.NoError(t, err)
	assert.Len(t, rows, 3) // header + two bookings
}

func TestPage(t *testing.T) {
	h, _ := testRouter(t, fixture())
	rec := get(t, h, "/?rows=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "Dental Office Call Analytics")

	rec = get(t, h, "/?from=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := testRouter(t, fixture())
	get(t, h, "/healthz")

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}

func TestCORS(t *testing.T) {
	h, _ := testRouter(t, fixture())
	req := httptest.NewRequest(http.MethodGet, "/api/options", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDirectionIsMatchedVerbatim(t *testing.T) {
	recs := fixture()
	recs.recs = append(recs.recs,
		call(2, 12, " Inbound ", "Answered", classifier.GeneralInquiry),
		call(3, 13, "", "Answered", classifier.GeneralInquiry),
	)
	h, _ := testRouter(t, recs)

	rec := get(t, h, "/api/options")
	var opts optionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Inbound", "Outbound", " Inbound ", ""}, opts.Directions)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"padded value", "/api/summary?direction=%20Inbound%20", 1},
		{"plain value", "/api/summary?direction=Inbound", 3},
		{"absent direction", "/api/summary?direction=", 1},
		{"no parameter", "/api/summary", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			var body summaryResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Summary.TotalCalls)
		})
	}
}

func TestPageClampsRows(t *testing.T) {
	h, _ := testRouter(t, fixture())

	rec := get(t, h, "/?rows=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="rows" min="10" max="100" step="10" value="10"`)

	rec = get(t, h, "/?rows=500")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="100"`)

	// the JSON API keeps rejecting out of range values
	rec = get(t, h, "/api/calls?rows=5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoryValidation(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Var("missed call", "category"))
	assert.Error(t, v.Var("Gossip", "category"))
}
