// internal/service/analysis/forecaster.go

package analysis

import (
	"fmt"
	"sort"
	"time"

	"curator/internal/domain/engagement"
)

const (
	// DefaultHorizon is the number of days forecast when the caller does not choose
	DefaultHorizon = 7

	// MaxHorizon caps how far ahead a forecast may reach
	MaxHorizon = 365

	secondsPerDay = 24 * 60 * 60
)

// LinearModel is an ordinary least squares fit of engagement against day index
type LinearModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the model for a day index
func (m LinearModel) At(day int) float64 {
	return m.Intercept + m.Slope*float64(day)
}

// Predict returns horizon points for the days following maxDay
func (m LinearModel) Predict(maxDay, horizon int) []engagement.ForecastPoint {
	points := make([]engagement.ForecastPoint, horizon)
	for i := range points {
		day := maxDay + i + 1
		points[i] = engagement.ForecastPoint{
			DayIndex:            day,
			PredictedEngagement: m.At(day),
		}
	}
	return points
}

// DayIndex returns the ordinal calendar day of t in its own location,
// counted from 1970-01-01
func DayIndex(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// DailyTotals sums record totals per calendar day, ascending by day
func DailyTotals(records []engagement.Record) []engagement.DailyTotal {
	sums := make(map[int]int64)
	for _, r := range records {
		sums[DayIndex(r.Timestamp)] += int64(r.Total())
	}

	days := make([]int, 0, len(sums))
	for d := range sums {
		days = append(days, d)
	}
	sort.Ints(days)

	daily := make([]engagement.DailyTotal, len(days))
	for i, d := range days {
		daily[i] = engagement.DailyTotal{Day: d, TotalEngagement: float64(sums[d])}
	}
	return daily
}

// FitDaily fits total engagement on day index. The series must hold at least
// two distinct days.
func FitDaily(daily []engagement.DailyTotal) (LinearModel, error) {
	if len(daily) < 2 {
		return LinearModel{}, fmt.Errorf("%w: %d distinct day(s), need 2", engagement.ErrInsufficientData, len(daily))
	}

	n := float64(len(daily))
	var sumX, sumY float64
	for _, d := range daily {
		sumX += float64(d.Day)
		sumY += d.TotalEngagement
	}
	meanX, meanY := sumX/n, sumY/n

	// Centered sums avoid cancellation with large ordinal day values
	var sxx, sxy float64
	for _, d := range daily {
		dx := float64(d.Day) - meanX
		sxx += dx * dx
		sxy += dx * (d.TotalEngagement - meanY)
	}

	if sxx == 0 {
		return LinearModel{}, engagement.ErrDegenerateFit
	}

	slope := sxy / sxx
	return LinearModel{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
	}, nil
}

// FitAndPredict forecasts daily engagement for horizon days after the last
// observed day. Predictions are neither rounded nor clamped.
func FitAndPredict(records []engagement.Record, horizon int) ([]engagement.ForecastPoint, error) {
	if horizon <= 0 || horizon > MaxHorizon {
		return nil, fmt.Errorf("%w: %d not in 1..%d", engagement.ErrInvalidHorizon, horizon, MaxHorizon)
	}

	daily := DailyTotals(records)
	model, err := FitDaily(daily)
	if err != nil {
		return nil, err
	}

	return model.Predict(daily[len(daily)-1].Day, horizon), nil
}
