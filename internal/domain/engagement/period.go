// internal/domain/engagement/period.go

package engagement

import (
	"errors"
	"time"
)

// Period parsing errors
var (
	ErrIncompletePeriod = errors.New("both from and to are required")
	ErrInvalidFrom      = errors.New("invalid from: use RFC3339 or YYYY-MM-DD")
	ErrInvalidTo        = errors.New("invalid to: use RFC3339 or YYYY-MM-DD")
)

// ParsePeriod reads a from/to pair given as RFC3339 instants or YYYY-MM-DD
// dates in loc. Both or neither must be set; neither yields a nil period.
// A date-only "to" covers the whole day.
func ParsePeriod(from, to string, loc *time.Location) (*Period, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, ErrIncompletePeriod
	}
	if loc == nil {
		loc = time.UTC
	}

	start, _, err := parseInstant(from, loc)
	if err != nil {
		return nil, ErrInvalidFrom
	}
	end, dateOnly, err := parseInstant(to, loc)
	if err != nil {
		return nil, ErrInvalidTo
	}
	if dateOnly {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return &Period{Start: start, End: end}, nil
}

func parseInstant(value string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	return t, true, err
}
