// internal/service/analysis/summary.go

package analysis

import (
	"curator/internal/domain/engagement"
)

// Summarize computes average, maximum and minimum engagement and the most
// engaged record. The first record wins a tie for most engaged.
func Summarize(records []engagement.Record) (engagement.Summary, error) {
	if len(records) == 0 {
		return engagement.Summary{}, engagement.ErrEmptyInput
	}

	var sum int64
	most := records[0]
	minTotal := records[0].Total()

	for _, r := range records {
		total := r.Total()
		sum += int64(total)
		if total > most.Total() {
			most = r
		}
		if total < minTotal {
			minTotal = total
		}
	}

	return engagement.Summary{
		Count:             len(records),
		AverageEngagement: float64(sum) / float64(len(records)),
		MaxEngagement:     most.Total(),
		MinEngagement:     minTotal,
		MostEngaged:       most,
	}, nil
}
