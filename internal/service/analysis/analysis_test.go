package analysis

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curator/internal/domain/engagement"
)

func rec(ts string, likes, shares, comments int) engagement.Record {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return engagement.Record{Timestamp: t, Likes: likes, Shares: shares, Comments: comments}
}

func sampleRecords() []engagement.Record {
	return []engagement.Record{
		rec("2024-12-01T09:15:00Z", 10, 2, 3),
		rec("2024-12-01T09:45:00Z", 20, 5, 5),
		rec("2024-12-01T18:00:00Z", 60, 10, 10),
		rec("2024-12-02T09:05:00Z", 5, 0, 1),
		rec("2024-12-02T21:30:00Z", 30, 3, 7),
		rec("2024-12-03T18:10:00Z", 40, 6, 4),
	}
}

func TestFilterPeriod(t *testing.T) {
	records := sampleRecords()

	t.Run("inclusive on both ends", func(t *testing.T) {
		start := records[1].Timestamp
		end := records[4].Timestamp

		got, err := FilterPeriod(records, start, end)
		require.NoError(t, err)
		assert.Equal(t, records[1:5], got)
	})

	t.Run("no records in range is not an error", func(t *testing.T) {
		start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		got, err := FilterPeriod(records, start, start.Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("start after end fails", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 100; i++ {
			end := time.Unix(rng.Int63n(4_000_000_000), 0)
			start := end.Add(time.Duration(rng.Int63n(int64(1000*time.Hour))) + time.Nanosecond)

			_, err := FilterPeriod(records, start, end)
			assert.ErrorIs(t, err, engagement.ErrInvalidRange)
		}
	})
}

func TestAggregateHourly(t *testing.T) {
	t.Run("means per hour ascending", func(t *testing.T) {
		got, err := AggregateHourly(sampleRecords())
		require.NoError(t, err)

		assert.Equal(t, []engagement.HourlyBucket{
			{Hour: 9, MeanTotalEngagement: (15.0 + 30 + 6) / 3, Count: 3},
			{Hour: 18, MeanTotalEngagement: (80.0 + 50) / 2, Count: 2},
			{Hour: 21, MeanTotalEngagement: 40, Count: 1},
		}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := AggregateHourly(nil)
		assert.ErrorIs(t, err, engagement.ErrEmptyInput)
	})

	t.Run("uses the timestamp's own location", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*60*60)
		r := engagement.Record{Timestamp: time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC).In(tokyo), Likes: 1}

		got, err := AggregateHourly([]engagement.Record{r})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 10, got[0].Hour)
	})
}

func TestAggregateHourly_MatchesManualGroupBy(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, n := range []int{1, 2, 17, 500, 10_000} {
		records := make([]engagement.Record, n)
		counts := make(map[int]int)
		var grand int64
		for i := range records {
			hour := rng.Intn(24)
			records[i] = engagement.Record{
				Timestamp: base.AddDate(0, 0, rng.Intn(30)).Add(time.Duration(hour)*time.Hour + time.Duration(rng.Intn(3600))*time.Second),
				Likes:     rng.Intn(500),
				Shares:    rng.Intn(100),
				Comments:  rng.Intn(100),
			}
			counts[hour]++
			grand += int64(records[i].Total())
		}

		buckets, err := AggregateHourly(records)
		require.NoError(t, err)
		require.Len(t, buckets, len(counts))

		var weighted float64
		seen := make(map[int]bool)
		for i, b := range buckets {
			if i > 0 {
				assert.Less(t, buckets[i-1].Hour, b.Hour)
			}
			assert.False(t, seen[b.Hour])
			seen[b.Hour] = true
			assert.Equal(t, counts[b.Hour], b.Count, "hour %d", b.Hour)
			weighted += b.MeanTotalEngagement * float64(b.Count)
		}

		overall := float64(grand) / float64(n)
		assert.InDelta(t, overall, weighted/float64(n), 1e-9*overall+1e-9)
	}
}

func TestSelectBest(t *testing.T) {
	t.Run("lowest hour wins a tie", func(t *testing.T) {
		hour, err := SelectBest([]engagement.HourlyBucket{
			{Hour: 0, MeanTotalEngagement: 10},
			{Hour: 5, MeanTotalEngagement: 30},
			{Hour: 12, MeanTotalEngagement: 30},
		})
		require.NoError(t, err)
		assert.Equal(t, 5, hour)
	})

	t.Run("tie resolved regardless of order", func(t *testing.T) {
		hour, err := SelectBest([]engagement.HourlyBucket{
			{Hour: 12, MeanTotalEngagement: 30},
			{Hour: 5, MeanTotalEngagement: 30},
		})
		require.NoError(t, err)
		assert.Equal(t, 5, hour)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := SelectBest(nil)
		assert.ErrorIs(t, err, engagement.ErrEmptyInput)
	})
}

func TestFitDaily(t *testing.T) {
	t.Run("two points", func(t *testing.T) {
		model, err := FitDaily([]engagement.DailyTotal{
			{Day: 1, TotalEngagement: 10},
			{Day: 2, TotalEngagement: 20},
		})
		require.NoError(t, err)
		assert.Equal(t, 10.0, model.Slope)
		assert.Equal(t, 0.0, model.Intercept)

		assert.Equal(t, []engagement.ForecastPoint{
			{DayIndex: 3, PredictedEngagement: 30},
			{DayIndex: 4, PredictedEngagement: 40},
			{DayIndex: 5, PredictedEngagement: 50},
		}, model.Predict(2, 3))
	})

	t.Run("single day", func(t *testing.T) {
		_, err := FitDaily([]engagement.DailyTotal{{Day: 4, TotalEngagement: 3}})
		assert.ErrorIs(t, err, engagement.ErrInsufficientData)
	})

	t.Run("repeated day has no variance", func(t *testing.T) {
		_, err := FitDaily([]engagement.DailyTotal{{Day: 4, TotalEngagement: 3}, {Day: 4, TotalEngagement: 5}})
		assert.ErrorIs(t, err, engagement.ErrDegenerateFit)
	})
}

func TestFitAndPredict(t *testing.T) {
	t.Run("extrapolates after the last observed day", func(t *testing.T) {
		records := []engagement.Record{
			rec("2024-12-01T10:00:00Z", 10, 0, 0),
			rec("2024-12-02T08:00:00Z", 15, 0, 0),
			rec("2024-12-02T20:00:00Z", 5, 0, 0),
		}

		points, err := FitAndPredict(records, 3)
		require.NoError(t, err)

		last := DayIndex(records[2].Timestamp)
		require.Len(t, points, 3)
		for i, p := range points {
			assert.Equal(t, last+i+1, p.DayIndex)
			assert.InDelta(t, float64(30+10*i), p.PredictedEngagement, 1e-6)
		}
	})

	t.Run("downward trend is not clamped", func(t *testing.T) {
		records := []engagement.Record{
			rec("2024-12-01T10:00:00Z", 100, 0, 0),
			rec("2024-12-02T10:00:00Z", 10, 0, 0),
		}

		points, err := FitAndPredict(records, 2)
		require.NoError(t, err)
		assert.InDelta(t, -80, points[0].PredictedEngagement, 1e-6)
		assert.InDelta(t, -170, points[1].PredictedEngagement, 1e-6)
	})

	t.Run("single distinct day", func(t *testing.T) {
		records := []engagement.Record{
			rec("2024-12-01T01:00:00Z", 1, 1, 1),
			rec("2024-12-01T23:00:00Z", 2, 2, 2),
		}
		_, err := FitAndPredict(records, DefaultHorizon)
		assert.ErrorIs(t, err, engagement.ErrInsufficientData)
	})

	t.Run("horizon bounds", func(t *testing.T) {
		_, err := FitAndPredict(sampleRecords(), 0)
		assert.ErrorIs(t, err, engagement.ErrInvalidHorizon)

		_, err = FitAndPredict(sampleRecords(), MaxHorizon+1)
		assert.ErrorIs(t, err, engagement.ErrInvalidHorizon)
	})
}

func TestDailyTotals_SpansMonths(t *testing.T) {
	daily := DailyTotals([]engagement.Record{
		rec("2024-02-01T10:00:00Z", 1, 0, 0),
		rec("2024-01-31T10:00:00Z", 2, 0, 0),
		rec("2024-01-01T10:00:00Z", 3, 0, 0),
	})

	require.Len(t, daily, 3)
	assert.Equal(t, daily[0].Day+30, daily[1].Day)
	assert.Equal(t, daily[1].Day+1, daily[2].Day)
	assert.Equal(t, 3.0, daily[0].TotalEngagement)
}

func TestBuildReport(t *testing.T) {
	t.Run("full report", func(t *testing.T) {
		report, err := BuildReport(sampleRecords(), DefaultHorizon)
		require.NoError(t, err)

		assert.Equal(t, 18, report.BestHour)
		assert.Len(t, report.Hourly, 3)
		assert.Len(t, report.Forecast, DefaultHorizon)
		assert.Empty(t, report.ForecastOmitted)

		last := DayIndex(sampleRecords()[5].Timestamp)
		for i, p := range report.Forecast {
			assert.Equal(t, last+i+1, p.DayIndex)
		}
	})

	t.Run("empty input yields no report", func(t *testing.T) {
		report, err := BuildReport(nil, DefaultHorizon)
		assert.ErrorIs(t, err, engagement.ErrNoData)
		assert.Equal(t, engagement.TrendReport{}, report)
	})

	t.Run("one day of history omits the forecast", func(t *testing.T) {
		report, err := BuildReport(sampleRecords()[:3], DefaultHorizon)
		require.NoError(t, err)

		assert.Equal(t, 18, report.BestHour)
		assert.Empty(t, report.Forecast)
		assert.Equal(t, "not enough history to forecast", report.ForecastOmitted)
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := BuildReport(sampleRecords(), DefaultHorizon)
		require.NoError(t, err)
		second, err := BuildReport(sampleRecords(), DefaultHorizon)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Count)
	assert.InDelta(t, (15.0+30+80+6+40+50)/6, summary.AverageEngagement, 1e-9)
	assert.Equal(t, 80, summary.MaxEngagement)
	assert.Equal(t, 6, summary.MinEngagement)
	assert.Equal(t, sampleRecords()[2], summary.MostEngaged)

	_, err = Summarize(nil)
	assert.ErrorIs(t, err, engagement.ErrEmptyInput)
}
