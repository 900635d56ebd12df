// internal/service/analysis/aggregator.go

package analysis

import (
	"curator/internal/domain/engagement"
)

const hoursPerDay = 24

// AggregateHourly groups records by hour of day and returns the mean total
// engagement per hour, ascending by hour. Hours without records are omitted.
func AggregateHourly(records []engagement.Record) ([]engagement.HourlyBucket, error) {
	if len(records) == 0 {
		return nil, engagement.ErrEmptyInput
	}

	// Integer sums keep the result independent of record order
	var sums [hoursPerDay]int64
	var counts [hoursPerDay]int

	for _, r := range records {
		h := r.Timestamp.Hour()
		sums[h] += int64(r.Total())
		counts[h]++
	}

	buckets := make([]engagement.HourlyBucket, 0, hoursPerDay)
	for h := 0; h < hoursPerDay; h++ {
		if counts[h] == 0 {
			continue
		}
		buckets = append(buckets, engagement.HourlyBucket{
			Hour:                h,
			MeanTotalEngagement: float64(sums[h]) / float64(counts[h]),
			Count:               counts[h],
		})
	}

	return buckets, nil
}
