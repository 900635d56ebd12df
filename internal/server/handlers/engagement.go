// internal/server/handlers/engagement.go

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"curator/internal/domain/engagement"
	"curator/internal/service/curation"
	"curator/internal/service/feedback"
)

// Analyzer is the analysis surface exposed over HTTP
type Analyzer interface {
	Report(ctx context.Context, req curation.ReportRequest) (engagement.TrendReport, error)
	Hourly(ctx context.Context, period *engagement.Period) (curation.HourlyResult, error)
	Forecast(ctx context.Context, horizon int) ([]engagement.ForecastPoint, error)
	Summary(ctx context.Context) (engagement.Summary, error)
	Feedback(ctx context.Context) ([]feedback.Feedback, error)
	Suggestion(ctx context.Context) (feedback.Suggestion, error)
	Classify(ctx context.Context, texts []string) ([]feedback.Result, error)
}

// EngagementHandler handles engagement analysis requests
type EngagementHandler struct {
	analyzer Analyzer
	loc      *time.Location
	logger   *log.Logger
}

// NewEngagementHandler creates a new engagement handler. Date-only query
// parameters are interpreted in loc.
func NewEngagementHandler(analyzer Analyzer, loc *time.Location, logger *log.Logger) *EngagementHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &EngagementHandler{
		analyzer: analyzer,
		loc:      loc,
		logger:   logger,
	}
}

// GetReport returns the full trend report
func (h *EngagementHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	period, err := h.parsePeriod(r)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	horizon, err := parseHorizon(r)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	report, err := h.analyzer.Report(r.Context(), curation.ReportRequest{Period: period, Horizon: horizon})
	if err != nil {
		respondWithAnalysisError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// GetHourly returns hourly trends and the best posting hour
func (h *EngagementHandler) GetHourly(w http.ResponseWriter, r *http.Request) {
	period, err := h.parsePeriod(r)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.analyzer.Hourly(r.Context(), period)
	if err != nil {
		respondWithAnalysisError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetForecast returns the engagement forecast
func (h *EngagementHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	horizon, err := parseHorizon(r)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	points, err := h.analyzer.Forecast(r.Context(), horizon)
	if err != nil {
		respondWithAnalysisError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, points)
}

// GetSummary returns descriptive engagement statistics
func (h *EngagementHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analyzer.Summary(r.Context())
	if err != nil {
		respondWithAnalysisError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

func (h *EngagementHandler) parsePeriod(r *http.Request) (*engagement.Period, error) {
	return engagement.ParsePeriod(r.URL.Query().Get("from"), r.URL.Query().Get("to"), h.loc)
}

func parseHorizon(r *http.Request) (int, error) {
	horizonStr := r.URL.Query().Get("horizon")
	if horizonStr == "" {
		return 0, nil
	}

	horizon, err := strconv.Atoi(horizonStr)
	if err != nil || horizon <= 0 {
		return 0, ErrInvalidHorizon
	}
	return horizon, nil
}

// ErrInvalidHorizon is returned for a non-numeric or non-positive horizon parameter
var ErrInvalidHorizon = errors.New("invalid horizon: must be a positive integer")
