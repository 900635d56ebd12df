// internal/service/analysis/selector.go

package analysis

import (
	"curator/internal/domain/engagement"
)

// SelectBest returns the hour with the highest mean engagement.
// Ties go to the lowest hour.
func SelectBest(buckets []engagement.HourlyBucket) (int, error) {
	if len(buckets) == 0 {
		return 0, engagement.ErrEmptyInput
	}

	best := buckets[0]
	for _, b := range buckets[1:] {
		if b.MeanTotalEngagement > best.MeanTotalEngagement ||
			(b.MeanTotalEngagement == best.MeanTotalEngagement && b.Hour < best.Hour) {
			best = b
		}
	}

	return best.Hour, nil
}
