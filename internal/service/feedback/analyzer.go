// internal/service/feedback/analyzer.go

package feedback

import (
	"context"
	"fmt"
	"time"

	"curator/internal/domain/engagement"
)

const (
	// LikesThreshold separates well-received posts from the rest
	LikesThreshold = 50

	PraiseMessage = "Great job! Keep using this tone to engage your audience."
	AdjustMessage = "Consider adjusting the tone for better engagement."
)

// Feedback is the generated advice for one record and its sentiment
type Feedback struct {
	Timestamp time.Time `json:"timestamp"`
	Feedback  string    `json:"feedback"`
	Sentiment string    `json:"sentiment"`
	Score     float64   `json:"score"`
}

// Analyzer generates tone feedback per record and classifies it
type Analyzer struct {
	classifier engagement.Classifier
}

// NewAnalyzer creates a new feedback analyzer
func NewAnalyzer(classifier engagement.Classifier) *Analyzer {
	return &Analyzer{
		classifier: classifier,
	}
}

// MessageFor returns the feedback text for a record
func MessageFor(r engagement.Record) string {
	if r.Likes > LikesThreshold {
		return PraiseMessage
	}
	return AdjustMessage
}

// Analyze produces feedback for each record in order. Each distinct message is
// classified once.
func (a *Analyzer) Analyze(ctx context.Context, records []engagement.Record) ([]Feedback, error) {
	if len(records) == 0 {
		return nil, engagement.ErrNoData
	}

	type labelled struct {
		label string
		score float64
	}
	cache := make(map[string]labelled, 2)

	results := make([]Feedback, 0, len(records))
	for _, r := range records {
		msg := MessageFor(r)

		l, ok := cache[msg]
		if !ok {
			label, score, err := a.classifier.Classify(ctx, msg)
			if err != nil {
				return nil, fmt.Errorf("error classifying feedback: %w", err)
			}
			l = labelled{label: label, score: score}
			cache[msg] = l
		}

		results = append(results, Feedback{
			Timestamp: r.Timestamp,
			Feedback:  msg,
			Sentiment: l.label,
			Score:     l.score,
		})
	}

	return results, nil
}
