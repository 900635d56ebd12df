// internal/service/curation/service.go

package curation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"curator/internal/adapter/events"
	"curator/internal/domain/engagement"
	"curator/internal/metrics"
	"curator/internal/service/analysis"
	"curator/internal/service/feedback"
)

// ReportPublisher publishes built reports
type ReportPublisher interface {
	PublishReport(event events.ReportEvent) error
}

// Config contains configuration for the curation service
type Config struct {
	SourceName     string
	DefaultHorizon int
}

// Service runs analyses against the configured record store
type Service struct {
	store      engagement.Store
	classifier engagement.Classifier
	publisher  ReportPublisher
	logger     *log.Logger
	config     Config
}

// ReportRequest selects the window and horizon of a report
type ReportRequest struct {
	Period  *engagement.Period
	Horizon int
}

// HourlyResult is the hourly trend and best hour without a forecast
type HourlyResult struct {
	Hourly   []engagement.HourlyBucket `json:"hourly"`
	BestHour int                       `json:"best_hour"`
}

// NewService creates a new curation service. classifier and publisher may be nil.
func NewService(
	store engagement.Store,
	classifier engagement.Classifier,
	publisher ReportPublisher,
	logger *log.Logger,
	config Config,
) *Service {
	if config.DefaultHorizon <= 0 {
		config.DefaultHorizon = analysis.DefaultHorizon
	}
	if config.SourceName == "" {
		config.SourceName = "default"
	}

	return &Service{
		store:      store,
		classifier: classifier,
		publisher:  publisher,
		logger:     logger,
		config:     config,
	}
}

// Report fetches records, applies the optional period and builds a trend report
func (s *Service) Report(ctx context.Context, req ReportRequest) (report engagement.TrendReport, err error) {
	defer s.observe("report", time.Now(), &err)

	horizon := req.Horizon
	if horizon == 0 {
		horizon = s.config.DefaultHorizon
	}

	records, err := s.fetch(ctx, req.Period)
	if err != nil {
		return engagement.TrendReport{}, err
	}

	report, err = analysis.BuildReport(records, horizon)
	if err != nil {
		return engagement.TrendReport{}, err
	}

	if report.ForecastOmitted != "" {
		s.logger.Warn("Forecast omitted", "reason", report.ForecastOmitted, "records", len(records))
	}

	event := events.ReportEvent{
		Source:  s.config.SourceName,
		Records: len(records),
		Report:  report,
	}
	if req.Period != nil {
		event.From, event.To = &req.Period.Start, &req.Period.End
	}
	if s.publisher != nil {
		// Event delivery does not affect the report
		if perr := s.publisher.PublishReport(event); perr != nil {
			s.logger.Error("Failed to publish report event", "err", perr)
		}
	}

	s.logger.Info("Report built", "records", len(records), "best_hour", report.BestHour, "forecast", len(report.Forecast))
	return report, nil
}

// Hourly returns the hourly trend and best hour for the optional period
func (s *Service) Hourly(ctx context.Context, period *engagement.Period) (result HourlyResult, err error) {
	defer s.observe("hourly", time.Now(), &err)

	records, err := s.fetch(ctx, period)
	if err != nil {
		return HourlyResult{}, err
	}

	hourly, err := analysis.AggregateHourly(records)
	if err != nil {
		return HourlyResult{}, noData(err)
	}
	best, err := analysis.SelectBest(hourly)
	if err != nil {
		return HourlyResult{}, noData(err)
	}

	return HourlyResult{Hourly: hourly, BestHour: best}, nil
}

// Forecast returns the forecast over all records
func (s *Service) Forecast(ctx context.Context, horizon int) (points []engagement.ForecastPoint, err error) {
	defer s.observe("forecast", time.Now(), &err)

	if horizon == 0 {
		horizon = s.config.DefaultHorizon
	}

	records, err := s.fetch(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, noData(engagement.ErrEmptyInput)
	}
	return analysis.FitAndPredict(records, horizon)
}

// Summary returns descriptive statistics over all records
func (s *Service) Summary(ctx context.Context) (summary engagement.Summary, err error) {
	defer s.observe("summary", time.Now(), &err)

	records, err := s.fetch(ctx, nil)
	if err != nil {
		return engagement.Summary{}, err
	}

	summary, err = analysis.Summarize(records)
	if err != nil {
		return engagement.Summary{}, noData(err)
	}
	return summary, nil
}

// Feedback generates and classifies tone feedback for every record
func (s *Service) Feedback(ctx context.Context) (results []feedback.Feedback, err error) {
	defer s.observe("feedback", time.Now(), &err)

	if s.classifier == nil {
		return nil, ErrNoClassifier
	}

	records, err := s.fetch(ctx, nil)
	if err != nil {
		return nil, err
	}

	results, err = feedback.NewAnalyzer(s.classifier).Analyze(ctx, records)
	if err != nil {
		metrics.RecordClassification("error")
		return nil, err
	}
	metrics.RecordClassification("ok")
	return results, nil
}

// Suggestion compares engagement of positively and negatively labelled records
func (s *Service) Suggestion(ctx context.Context) (suggestion feedback.Suggestion, err error) {
	defer s.observe("suggestion", time.Now(), &err)

	labeled, ok := s.store.(engagement.LabeledStore)
	if !ok {
		return feedback.Suggestion{}, fmt.Errorf("%w: source %s has no sentiment labels",
			engagement.ErrSchemaMismatch, s.config.SourceName)
	}

	records, err := labeled.FetchLabeled(ctx)
	if err != nil {
		return feedback.Suggestion{}, err
	}
	metrics.RecordFetch(s.config.SourceName, len(records))

	return feedback.Suggest(records)
}

// Classify classifies a batch of texts
func (s *Service) Classify(ctx context.Context, texts []string) ([]feedback.Result, error) {
	if s.classifier == nil {
		return nil, ErrNoClassifier
	}

	results, err := feedback.ClassifyBatch(ctx, s.classifier, texts)
	if err != nil {
		metrics.RecordClassification("error")
		return nil, err
	}
	metrics.RecordClassification("ok")
	return results, nil
}

// ErrNoClassifier is returned when a sentiment operation runs without a classifier
var ErrNoClassifier = errors.New("no sentiment classifier configured")

func (s *Service) fetch(ctx context.Context, period *engagement.Period) ([]engagement.Record, error) {
	var start, end time.Time
	if period != nil {
		// Reject a bad range before touching the store
		if period.Start.After(period.End) {
			return analysis.FilterPeriod(nil, period.Start, period.End)
		}
		start, end = period.Start, period.End
	}

	records, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching records: %w", err)
	}
	metrics.RecordFetch(s.config.SourceName, len(records))

	if period == nil {
		return records, nil
	}
	return analysis.FilterPeriod(records, start, end)
}

func (s *Service) observe(kind string, started time.Time, errp *error) {
	outcome := "ok"
	if err := *errp; err != nil {
		outcome = outcomeOf(err)
		if engagement.Recoverable(err) {
			s.logger.Info("Nothing to analyze", "kind", kind, "reason", engagement.Reason(err))
		} else {
			s.logger.Error("Analysis failed", "kind", kind, "err", err)
		}
	}
	metrics.RecordReport(kind, outcome, time.Since(started).Seconds())
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, engagement.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, engagement.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, engagement.ErrInvalidRange), errors.Is(err, engagement.ErrInvalidHorizon):
		return "invalid_request"
	case engagement.Recoverable(err):
		return "no_data"
	default:
		return "error"
	}
}

func noData(err error) error {
	if errors.Is(err, engagement.ErrEmptyInput) {
		return fmt.Errorf("%w: %v", engagement.ErrNoData, err)
	}
	return err
}
