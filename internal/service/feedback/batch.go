// internal/service/feedback/batch.go

package feedback

import (
	"context"
	"fmt"
	"strings"

	"curator/internal/domain/engagement"
)

// Result is the classification of a single text
type Result struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ClassifyBatch classifies each non-blank text in order
func ClassifyBatch(ctx context.Context, classifier engagement.Classifier, texts []string) ([]Result, error) {
	results := make([]Result, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		label, confidence, err := classifier.Classify(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("error classifying %q: %w", text, err)
		}
		results = append(results, Result{Text: text, Label: label, Confidence: confidence})
	}

	if len(results) == 0 {
		return nil, engagement.ErrEmptyInput
	}
	return results, nil
}
