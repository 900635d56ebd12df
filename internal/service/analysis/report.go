// internal/service/analysis/report.go

package analysis

import (
	"errors"
	"fmt"

	"curator/internal/domain/engagement"
)

// BuildReport runs hourly aggregation, best-slot selection and the forecast over
// the same records. Callers apply FilterPeriod beforehand for a custom window.
//
// Without records no report is produced and ErrNoData is returned. When only
// the forecast lacks history the report is returned with an empty forecast and
// ForecastOmitted set.
func BuildReport(records []engagement.Record, horizon int) (engagement.TrendReport, error) {
	if horizon <= 0 || horizon > MaxHorizon {
		return engagement.TrendReport{}, fmt.Errorf("%w: %d not in 1..%d", engagement.ErrInvalidHorizon, horizon, MaxHorizon)
	}

	hourly, err := AggregateHourly(records)
	if err != nil {
		return engagement.TrendReport{}, noData(err)
	}

	bestHour, err := SelectBest(hourly)
	if err != nil {
		return engagement.TrendReport{}, noData(err)
	}

	report := engagement.TrendReport{
		Hourly:   hourly,
		BestHour: bestHour,
		Forecast: []engagement.ForecastPoint{},
	}

	forecast, err := FitAndPredict(records, horizon)
	switch {
	case err == nil:
		report.Forecast = forecast
	case errors.Is(err, engagement.ErrInsufficientData), errors.Is(err, engagement.ErrDegenerateFit):
		report.ForecastOmitted = engagement.Reason(err)
	default:
		return engagement.TrendReport{}, fmt.Errorf("error forecasting: %w", err)
	}

	return report, nil
}

func noData(err error) error {
	if errors.Is(err, engagement.ErrEmptyInput) {
		return fmt.Errorf("%w: %v", engagement.ErrNoData, err)
	}
	return err
}
