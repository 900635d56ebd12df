// internal/adapter/storage/engagement_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"curator/internal/domain/engagement"
)

// Querier is the subset of pgxpool.Pool used by EngagementStore
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// EngagementStore reads engagement rows from Postgres
type EngagementStore struct {
	db  Querier
	loc *time.Location
}

// NewEngagementStore creates a new engagement store. Timestamps are returned in loc.
func NewEngagementStore(db Querier, loc *time.Location) *EngagementStore {
	if loc == nil {
		loc = time.UTC
	}
	return &EngagementStore{
		db:  db,
		loc: loc,
	}
}

// FetchAll retrieves every engagement row ordered by timestamp
func (s *EngagementStore) FetchAll(ctx context.Context) ([]engagement.Record, error) {
	query := `
		SELECT timestamp, likes, shares, comments
		FROM engagement
		ORDER BY timestamp
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, classifyPgError(err)
	}
	defer rows.Close()

	records := []engagement.Record{}
	for rows.Next() {
		var r engagement.Record
		if err := rows.Scan(&r.Timestamp, &r.Likes, &r.Shares, &r.Comments); err != nil {
			return nil, fmt.Errorf("%w: error scanning engagement row: %v", engagement.ErrSchemaMismatch, err)
		}
		if err := validateCounts(r); err != nil {
			return nil, err
		}
		r.Timestamp = r.Timestamp.In(s.loc)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyPgError(err)
	}

	return records, nil
}

// FetchLabeled retrieves rows that carry a sentiment label
func (s *EngagementStore) FetchLabeled(ctx context.Context) ([]engagement.LabeledRecord, error) {
	query := `
		SELECT timestamp, likes, shares, comments, sentiment
		FROM engagement
		WHERE sentiment IS NOT NULL
		ORDER BY timestamp
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, classifyPgError(err)
	}
	defer rows.Close()

	records := []engagement.LabeledRecord{}
	for rows.Next() {
		var r engagement.LabeledRecord
		if err := rows.Scan(&r.Timestamp, &r.Likes, &r.Shares, &r.Comments, &r.Sentiment); err != nil {
			return nil, fmt.Errorf("%w: error scanning labeled row: %v", engagement.ErrSchemaMismatch, err)
		}
		if err := validateCounts(r.Record); err != nil {
			return nil, err
		}
		r.Timestamp = r.Timestamp.In(s.loc)
		r.Sentiment = strings.ToUpper(strings.TrimSpace(r.Sentiment))
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyPgError(err)
	}

	return records, nil
}

// classifyPgError separates missing tables/columns from connectivity failures
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42703", "42P01": // undefined_column, undefined_table
			return fmt.Errorf("%w: %s", engagement.ErrSchemaMismatch, pgErr.Message)
		}
	}
	return fmt.Errorf("%w: %v", engagement.ErrStoreUnavailable, err)
}

func validateCounts(r engagement.Record) error {
	if r.Likes < 0 || r.Shares < 0 || r.Comments < 0 {
		return fmt.Errorf("%w: negative engagement count at %s", engagement.ErrSchemaMismatch, r.Timestamp.Format(time.RFC3339))
	}
	return nil
}
