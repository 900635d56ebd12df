// internal/service/feedback/loop.go

package feedback

import (
	"fmt"

	"curator/internal/domain/engagement"
)

// Sentiment labels read from the store
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
)

// Tone is the recommended direction for future content
type Tone string

const (
	TonePositive Tone = "positive"
	ToneAdjust   Tone = "adjust"
)

// Means holds average counts for one sentiment class
type Means struct {
	Count    int     `json:"count"`
	Likes    float64 `json:"likes"`
	Shares   float64 `json:"shares"`
	Comments float64 `json:"comments"`
}

// Suggestion is the outcome of comparing positive and negative content
type Suggestion struct {
	Tone     Tone   `json:"tone"`
	Message  string `json:"message"`
	Positive Means  `json:"positive"`
	Negative Means  `json:"negative"`
}

// Suggest compares engagement of positively and negatively labelled records.
// Both classes must be present.
func Suggest(records []engagement.LabeledRecord) (Suggestion, error) {
	var pos, neg []engagement.Record
	for _, r := range records {
		switch r.Sentiment {
		case LabelPositive:
			pos = append(pos, r.Record)
		case LabelNegative:
			neg = append(neg, r.Record)
		}
	}

	if len(pos) == 0 || len(neg) == 0 {
		return Suggestion{}, fmt.Errorf("%w: %d positive and %d negative labelled records",
			engagement.ErrNoData, len(pos), len(neg))
	}

	s := Suggestion{
		Positive: means(pos),
		Negative: means(neg),
	}

	if s.Positive.Likes > s.Negative.Likes {
		s.Tone = TonePositive
		s.Message = "Consider creating more positive content."
	} else {
		s.Tone = ToneAdjust
		s.Message = "Consider adjusting the tone of negative content."
	}

	return s, nil
}

func means(records []engagement.Record) Means {
	var likes, shares, comments int64
	for _, r := range records {
		likes += int64(r.Likes)
		shares += int64(r.Shares)
		comments += int64(r.Comments)
	}

	n := float64(len(records))
	return Means{
		Count:    len(records),
		Likes:    float64(likes) / n,
		Shares:   float64(shares) / n,
		Comments: float64(comments) / n,
	}
}
