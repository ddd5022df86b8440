package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"dental-calls-go/internal/actionable"
	"dental-calls-go/internal/aggregator"
	"dental-calls-go/internal/dashboard"
	"dental-calls-go/internal/dataset"
	"dental-calls-go/internal/logger"
	"dental-calls-go/internal/metrics"
	"dental-calls-go/internal/types"
	"dental-calls-go/internal/web"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrorResponse is the JSON body of every 4xx/5xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handler serves the dashboard endpoints.
type Handler struct {
	svc      *dashboard.Service
	log      *logger.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func NewHandler(svc *dashboard.Service, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		svc:      svc,
		log:      log.Component("api"),
		metrics:  m,
		validate: newValidator(),
	}
}

type summaryResponse struct {
	Filter            aggregator.Filter        `json:"filter"`
	DatasetCalls      int                      `json:"dataset_calls"`
	Summary           types.Summary            `json:"summary"`
	TopCategories     []types.CategoryCount    `json:"top_categories"`
	LongestCategories []types.CategoryDuration `json:"longest_categories"`
	Insights          []actionable.ActionCard  `json:"insights"`
	LoadError         string                   `json:"load_error,omitempty"`
}

type callsResponse struct {
	Filter    aggregator.Filter   `json:"filter"`
	Table     dashboard.TableView `json:"table"`
	LoadError string              `json:"load_error,omitempty"`
}

type optionsResponse struct {
	dashboard.Options
	LoadError string `json:"load_error,omitempty"`
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}

// Summary handles GET /api/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	v := h.svc.View(r.Context(), q)
	h.writeJSON(w, r, http.StatusOK, summaryResponse{
		Filter:            v.Filter,
		DatasetCalls:      v.DatasetCalls,
		Summary:           v.Summary,
		TopCategories:     v.TopCategories,
		LongestCategories: v.LongestCategories,
		Insights:          v.Insights,
		LoadError:         v.LoadError,
	})
}

// Calls handles GET /api/calls
func (h *Handler) Calls(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	v := h.svc.View(r.Context(), q)
	h.writeJSON(w, r, http.StatusOK, callsResponse{Filter: v.Filter, Table: v.Table, LoadError: v.LoadError})
}

// Options handles GET /api/options
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options(r.Context())
	resp := optionsResponse{Options: opts}
	if err != nil {
		resp.LoadError = err.Error()
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// Export handles GET /api/export.xlsx
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	recs, f, err := h.svc.Filtered(r.Context(), q.Filter)
	if err != nil {
		h.log.WithRequest(r).WithField("error", err.Error()).Warn("exporting without call log")
	}

	var buf bytes.Buffer
	if err := dataset.WriteXLSX(&buf, recs); err != nil {
		h.log.WithRequest(r).WithField("error", err.Error()).Error("failed to build workbook")
		h.writeError(w, r, http.StatusInternalServerError, "export_failed", "could not build the workbook")
		return
	}
	if h.metrics != nil {
		h.metrics.Exports.Inc()
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="dental_calls_%s_%s.xlsx"`, orAll(f.From), orAll(f.To)))
	if _, err := buf.WriteTo(w); err != nil {
		h.log.WithRequest(r).WithField("error", err.Error()).Error("failed to write workbook")
	}
}

// Page handles GET / with the HTML dashboard.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(h.validate, r, true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v := h.svc.View(r.Context(), q)

	var buf bytes.Buffer
	if err := web.Render(&buf, v, q.Rows); err != nil {
		h.log.WithRequest(r).WithField("error", err.Error()).Error("failed to render dashboard")
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.log.WithRequest(r).WithField("error", err.Error()).Error("failed to write dashboard")
	}
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request) (dashboard.Query, bool) {
	q, err := parseQuery(h.validate, r, false)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return dashboard.Query{}, false
	}
	return q, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		h.log.WithRequest(r).WithField("error", err.Error()).Error("failed to write response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	h.writeJSON(w, r, status, ErrorResponse{Error: code, Message: msg})
}

func orAll(date string) string {
	if date == "" {
		return "all"
	}
	return date
}
