// internal/service/analysis/filter.go

package analysis

import (
	"fmt"
	"time"

	"curator/internal/domain/engagement"
)

// FilterPeriod returns the records whose timestamp lies in [start, end].
// An empty result is not an error.
func FilterPeriod(records []engagement.Record, start, end time.Time) ([]engagement.Record, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s after %s", engagement.ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	filtered := make([]engagement.Record, 0, len(records))
	for _, r := range records {
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		filtered = append(filtered, r)
	}

	return filtered, nil
}
