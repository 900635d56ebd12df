// internal/domain/engagement/model.go

package engagement

import (
	"time"
)

// Record is a single timestamped engagement row
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	Shares    int       `json:"shares"`
	Comments  int       `json:"comments"`
}

// Total returns likes + shares + comments
func (r Record) Total() int {
	return r.Likes + r.Shares + r.Comments
}

// LabeledRecord is a record carrying the sentiment label stored alongside it
type LabeledRecord struct {
	Record
	Sentiment string `json:"sentiment"`
}

// HourlyBucket holds the mean engagement of all records posted in one hour of the day
type HourlyBucket struct {
	Hour                int     `json:"hour"`
	MeanTotalEngagement float64 `json:"mean_total_engagement"`
	Count               int     `json:"count"`
}

// DailyTotal is the summed engagement of one calendar day
type DailyTotal struct {
	Day             int     `json:"day"`
	TotalEngagement float64 `json:"total_engagement"`
}

// ForecastPoint is a predicted engagement total for a future day
type ForecastPoint struct {
	DayIndex            int     `json:"day_index"`
	PredictedEngagement float64 `json:"predicted_engagement"`
}

// TrendReport combines hourly trends, the best posting hour and the forecast.
// ForecastOmitted is set to the reason when the forecast could not be produced.
type TrendReport struct {
	Hourly          []HourlyBucket  `json:"hourly"`
	BestHour        int             `json:"best_hour"`
	Forecast        []ForecastPoint `json:"forecast"`
	ForecastOmitted string          `json:"forecast_omitted,omitempty"`
}

// Summary holds descriptive statistics over a record set
type Summary struct {
	Count             int     `json:"count"`
	AverageEngagement float64 `json:"average_engagement"`
	MaxEngagement     int     `json:"max_engagement"`
	MinEngagement     int     `json:"min_engagement"`
	MostEngaged       Record  `json:"most_engaged"`
}

// Period is an inclusive timestamp range
type Period struct {
	Start time.Time
	End   time.Time
}
