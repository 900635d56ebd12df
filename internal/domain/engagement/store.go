// internal/domain/engagement/store.go

package engagement

import (
	"context"
)

// Store defines read access to engagement rows
type Store interface {
	// FetchAll returns every engagement record. An empty store yields an empty
	// slice and a nil error.
	FetchAll(ctx context.Context) ([]Record, error)
}

// LabeledStore is a Store that can also return the sentiment label of each row
type LabeledStore interface {
	Store

	// FetchLabeled returns records whose sentiment column is set
	FetchLabeled(ctx context.Context) ([]LabeledRecord, error)
}

// Classifier labels a piece of text with a sentiment and a confidence in [0,1]
type Classifier interface {
	Classify(ctx context.Context, text string) (label string, confidence float64, err error)
}
