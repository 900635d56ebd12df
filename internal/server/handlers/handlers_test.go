package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curator/internal/adapter/sentiment"
	"curator/internal/domain/engagement"
	"curator/internal/logging"
	"curator/internal/service/curation"
	"curator/internal/service/feedback"
)

// fakeAnalyzer records the last request and returns canned results
type fakeAnalyzer struct {
	err         error
	lastRequest curation.ReportRequest
	lastPeriod  *engagement.Period
	lastHorizon int
	lastTexts   []string
}

func (f *fakeAnalyzer) Report(ctx context.Context, req curation.ReportRequest) (engagement.TrendReport, error) {
	f.lastRequest = req
	if f.err != nil {
		return engagement.TrendReport{}, f.err
	}
	return engagement.TrendReport{
		Hourly:   []engagement.HourlyBucket{{Hour: 9, MeanTotalEngagement: 12, Count: 1}},
		BestHour: 9,
		Forecast: []engagement.ForecastPoint{},
	}, nil
}

func (f *fakeAnalyzer) Hourly(ctx context.Context, period *engagement.Period) (curation.HourlyResult, error) {
	f.lastPeriod = period
	return curation.HourlyResult{BestHour: 5}, f.err
}

func (f *fakeAnalyzer) Forecast(ctx context.Context, horizon int) ([]engagement.ForecastPoint, error) {
	f.lastHorizon = horizon
	return []engagement.ForecastPoint{{DayIndex: 3, PredictedEngagement: 30}}, f.err
}

func (f *fakeAnalyzer) Summary(ctx context.Context) (engagement.Summary, error) {
	return engagement.Summary{Count: 2}, f.err
}

func (f *fakeAnalyzer) Feedback(ctx context.Context) ([]feedback.Feedback, error) {
	return nil, f.err
}

func (f *fakeAnalyzer) Suggestion(ctx context.Context) (feedback.Suggestion, error) {
	return feedback.Suggestion{Tone: feedback.TonePositive}, f.err
}

func (f *fakeAnalyzer) Classify(ctx context.Context, texts []string) ([]feedback.Result, error) {
	f.lastTexts = texts
	return []feedback.Result{{Text: texts[0], Label: "POSITIVE", Confidence: 0.9}}, f.err
}

func serve(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestEngagementHandler_GetReport(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	h := NewEngagementHandler(analyzer, time.UTC, logging.Discard())

	rec := serve(h.GetReport, http.MethodGet, "/report?from=2024-12-01&to=2024-12-02&horizon=3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, 3, analyzer.lastRequest.Horizon)
	require.NotNil(t, analyzer.lastRequest.Period)
	assert.Equal(t, time.Date(2024, 12, 2, 23, 59, 59, 999999999, time.UTC), analyzer.lastRequest.Period.End)

	var report engagement.TrendReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 9, report.BestHour)
}

func TestEngagementHandler_BadRequests(t *testing.T) {
	h := NewEngagementHandler(&fakeAnalyzer{}, nil, logging.Discard())

	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"incomplete period", "/report?from=2024-12-01", engagement.ErrIncompletePeriod.Error()},
		{"bad from", "/report?from=nope&to=2024-12-01", engagement.ErrInvalidFrom.Error()},
		{"bad to", "/report?from=2024-12-01&to=nope", engagement.ErrInvalidTo.Error()},
		{"zero horizon", "/report?horizon=0", ErrInvalidHorizon.Error()},
		{"non-numeric horizon", "/report?horizon=week", ErrInvalidHorizon.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h.GetReport, http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec))
		})
	}
}

func TestEngagementHandler_AnalysisErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"invalid range", fmt.Errorf("filter: %w", engagement.ErrInvalidRange), http.StatusBadRequest, engagement.Reason(engagement.ErrInvalidRange)},
		{"invalid horizon", engagement.ErrInvalidHorizon, http.StatusBadRequest, engagement.Reason(engagement.ErrInvalidHorizon)},
		{"store unavailable", engagement.ErrStoreUnavailable, http.StatusServiceUnavailable, "data source unreachable"},
		{"schema mismatch", engagement.ErrSchemaMismatch, http.StatusBadGateway, "incompatible data source"},
		{"no data", engagement.ErrNoData, http.StatusUnprocessableEntity, "no data"},
		{"insufficient data", engagement.ErrInsufficientData, http.StatusUnprocessableEntity, "not enough history to forecast"},
		{"no classifier", curation.ErrNoClassifier, http.StatusServiceUnavailable, "sentiment classifier not configured"},
		{"classifier down", sentiment.ErrUnavailable, http.StatusBadGateway, "sentiment service unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEngagementHandler(&fakeAnalyzer{err: tt.err}, time.UTC, logging.Discard())
			rec := serve(h.GetReport, http.MethodGet, "/report", "")
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec))
		})
	}
}

func TestEngagementHandler_HourlyAndForecast(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	h := NewEngagementHandler(analyzer, time.UTC, logging.Discard())

	rec := serve(h.GetHourly, http.MethodGet, "/hourly", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, analyzer.lastPeriod)

	rec = serve(h.GetForecast, http.MethodGet, "/forecast", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, analyzer.lastHorizon)
	assert.JSONEq(t, `[{"day_index":3,"predicted_engagement":30}]`, rec.Body.String())
}

func TestFeedbackHandler_PostSentiment(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	h := NewFeedbackHandler(analyzer, logging.Discard())

	rec := serve(h.PostSentiment, http.MethodPost, "/sentiment", `{"texts":["love it"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"love it"}, analyzer.lastTexts)

	rec = serve(h.PostSentiment, http.MethodPost, "/sentiment", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	texts := make([]string, maxSentimentTexts+1)
	body, err := json.Marshal(ClassifyRequest{Texts: texts})
	require.NoError(t, err)
	rec = serve(h.PostSentiment, http.MethodPost, "/sentiment", string(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackHandler_GetSuggestion(t *testing.T) {
	h := NewFeedbackHandler(&fakeAnalyzer{}, logging.Discard())

	rec := serve(h.GetSuggestion, http.MethodGet, "/feedback/suggestion", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var suggestion feedback.Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &suggestion))
	assert.Equal(t, feedback.TonePositive, suggestion.Tone)
}

// captureSubscriber keeps the handler so tests can deliver messages
type captureSubscriber struct {
	mu      sync.Mutex
	subject string
	handler nats.MsgHandler
	ready   chan struct{}
}

func (s *captureSubscriber) Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error) {
	s.mu.Lock()
	s.subject = subj
	s.handler = cb
	s.mu.Unlock()
	close(s.ready)
	return nil, nil
}

func TestReportStreamHandler(t *testing.T) {
	subscriber := &captureSubscriber{ready: make(chan struct{})}
	srv := httptest.NewServer(ReportStreamHandler(subscriber, "engagement.report.built", logging.Discard()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var welcome map[string]interface{}
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "welcome", welcome["type"])
	assert.Equal(t, "engagement.report.built", welcome["subject"])

	<-subscriber.ready
	subscriber.mu.Lock()
	handler := subscriber.handler
	subscriber.mu.Unlock()
	handler(&nats.Msg{Data: []byte(`{"id":"evt-1"}`)})

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"evt-1"}`, string(data))
}

func TestReportStreamHandler_Disabled(t *testing.T) {
	rec := serve(ReportStreamHandler(nil, "engagement.report.built", logging.Discard()), http.MethodGet, "/ws/reports", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
