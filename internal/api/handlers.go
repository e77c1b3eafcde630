package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/paystats/reporter/internal/domain"
	"github.com/paystats/reporter/internal/logger"
	"github.com/paystats/reporter/internal/report"
)

// multipartOverhead is the body allowance on top of the file size limit
// for boundaries, part headers and the small form fields.
const multipartOverhead = 64 << 10

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	svc *report.Service
	db  Pinger
	log zerolog.Logger
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

type errorResponse struct {
	Error      string             `json:"error"`
	Violations []domain.Violation `json:"violations,omitempty"`
	Rows       []domain.RowError  `json:"rows,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors to status codes. Anything it does
// not recognise is logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *domain.ValidationError
		perr *domain.ParseError
		mbe  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr):
		RequestErrors.WithLabelValues("validation").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Violations: verr.Violations})
	case errors.As(err, &perr):
		RequestErrors.WithLabelValues("parse").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: perr.Error(), Rows: perr.Rows})
	case errors.Is(err, domain.ErrPayloadTooLarge), errors.As(err, &mbe):
		RequestErrors.WithLabelValues("too_large").Inc()
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, context.Canceled):
		RequestErrors.WithLabelValues("canceled").Inc()
		writeError(w, http.StatusServiceUnavailable, "request canceled")
	default:
		RequestErrors.WithLabelValues("internal").Inc()
		l := logger.FromContext(r.Context())
		l.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// paramParser collects every malformed parameter so one response can
// report them all.
type paramParser struct {
	violations []domain.Violation
}

func (p *paramParser) fail(field, msg string) {
	p.violations = append(p.violations, domain.Violation{Field: field, Message: msg})
}

func (p *paramParser) flag(field, raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return false
	case "1", "true", "t", "yes", "on":
		return true
	case "0", "false", "f", "no", "off":
		return false
	}
	p.fail(field, "must be a boolean, got "+strconv.Quote(raw))
	return false
}

func (p *paramParser) positiveInt(field, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		p.fail(field, "must be a positive integer, got "+strconv.Quote(raw))
		return 0
	}
	return n
}

func (p *paramParser) err() error {
	if len(p.violations) == 0 {
		return nil
	}
	return &domain.ValidationError{Violations: p.violations}
}

// --- GetReport ---

func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var pp paramParser
	params := domain.ReportFilterParams{
		StartDate:         q.Get("start_date"),
		EndDate:           q.Get("end_date"),
		Status:            q.Get("status"),
		Type:              q.Get("type"),
		IncludeTotal:      pp.flag("include_total", q.Get("include_total")),
		IncludeAvg:        pp.flag("include_avg", q.Get("include_avg")),
		IncludeMin:        pp.flag("include_min", q.Get("include_min")),
		IncludeMax:        pp.flag("include_max", q.Get("include_max")),
		IncludeDailyShift: pp.flag("include_daily_shift", q.Get("include_daily_shift")),
	}
	if err := pp.err(); err != nil {
		writeServiceError(w, r, err)
		return
	}

	filter, err := domain.NewReportFilter(params, h.svc.Today())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	rep, err := h.svc.GetReport(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newReportResponse(rep))
}

// --- GetCountryStats ---

func (h *Handlers) GetCountryStats(w http.ResponseWriter, r *http.Request) {
	limit := int64(h.svc.MaxPayloadBytes())
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(limit); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeServiceError(w, r, err)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	var pp paramParser
	topN := pp.positiveInt("top_n", r.FormValue("top_n"))
	order, err := domain.ParseCountrySort(r.FormValue("sort_by"), r.FormValue("order"))
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		pp.violations = append(pp.violations, verr.Violations...)
	}
	if err := pp.err(); err != nil {
		writeServiceError(w, r, err)
		return
	}

	file, header, err := r.FormFile("countries_file")
	if err != nil {
		writeServiceError(w, r, domain.NewValidationError("countries_file", "a CSV file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	stats, err := h.svc.CountryStats(r.Context(), header.Filename, data, domain.CountryStatsOptions{
		Sort: order,
		TopN: topN,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	UploadBytes.Observe(float64(len(data)))

	writeJSON(w, http.StatusOK, newCountryStatsResponse(stats))
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		l := logger.FromContext(r.Context())
		l.Warn().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
