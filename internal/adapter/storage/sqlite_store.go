// internal/adapter/storage/sqlite_store.go

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"curator/internal/domain/engagement"
)

// timestampLayouts are tried in order on the stored timestamp text
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// SQLiteStore reads engagement rows from a SQLite database file.
// Safe for concurrent use.
type SQLiteStore struct {
	db  *sql.DB
	loc *time.Location
	mu  sync.RWMutex
}

// OpenSQLite opens the database at path. Timestamps stored without a zone
// are interpreted in loc, whatever the declared column type. The driver
// decodes DATETIME/TIMESTAMP columns as UTC, so queries read the stored
// text instead.
func OpenSQLite(path string, loc *time.Location) (*SQLiteStore, error) {
	if loc == nil {
		loc = time.UTC
	}

	connStr := "file:" + path + "?mode=ro"
	if path == ":memory:" {
		// Shared cache so every pooled connection sees the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", engagement.ErrStoreUnavailable, err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", engagement.ErrStoreUnavailable, err)
	}

	return &SQLiteStore{db: db, loc: loc}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// FetchAll retrieves every engagement row
func (s *SQLiteStore) FetchAll(ctx context.Context) ([]engagement.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(timestamp AS TEXT), likes, shares, comments
		FROM engagement
		ORDER BY engagement.timestamp`)
	if err != nil {
		return nil, classifySQLiteError(err)
	}
	defer rows.Close()

	records := []engagement.Record{}
	for rows.Next() {
		var ts sql.NullString
		var likes, shares, comments sql.NullInt64
		if err := rows.Scan(&ts, &likes, &shares, &comments); err != nil {
			return nil, fmt.Errorf("%w: scan engagement row: %v", engagement.ErrSchemaMismatch, err)
		}

		r, err := s.toRecord(ts, likes, shares, comments)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, classifySQLiteError(err)
	}

	return records, nil
}

// FetchLabeled retrieves rows that carry a sentiment label
func (s *SQLiteStore) FetchLabeled(ctx context.Context) ([]engagement.LabeledRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(timestamp AS TEXT), likes, shares, comments, sentiment
		FROM engagement
		WHERE sentiment IS NOT NULL AND sentiment != ''
		ORDER BY engagement.timestamp`)
	if err != nil {
		return nil, classifySQLiteError(err)
	}
	defer rows.Close()

	records := []engagement.LabeledRecord{}
	for rows.Next() {
		var ts, sentiment sql.NullString
		var likes, shares, comments sql.NullInt64
		if err := rows.Scan(&ts, &likes, &shares, &comments, &sentiment); err != nil {
			return nil, fmt.Errorf("%w: scan labeled row: %v", engagement.ErrSchemaMismatch, err)
		}

		r, err := s.toRecord(ts, likes, shares, comments)
		if err != nil {
			return nil, err
		}
		records = append(records, engagement.LabeledRecord{
			Record:    r,
			Sentiment: strings.ToUpper(strings.TrimSpace(sentiment.String)),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, classifySQLiteError(err)
	}

	return records, nil
}

func (s *SQLiteStore) toRecord(ts sql.NullString, likes, shares, comments sql.NullInt64) (engagement.Record, error) {
	if !ts.Valid || !likes.Valid || !shares.Valid || !comments.Valid {
		return engagement.Record{}, fmt.Errorf("%w: row with missing fields", engagement.ErrSchemaMismatch)
	}

	t, err := parseTimestamp(ts.String, s.loc)
	if err != nil {
		return engagement.Record{}, err
	}

	r := engagement.Record{
		Timestamp: t,
		Likes:     int(likes.Int64),
		Shares:    int(shares.Int64),
		Comments:  int(comments.Int64),
	}
	return r, validateCounts(r)
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", engagement.ErrSchemaMismatch, value)
}

func classifySQLiteError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "no such column") || strings.Contains(msg, "no such table") {
		return fmt.Errorf("%w: %s", engagement.ErrSchemaMismatch, msg)
	}
	return fmt.Errorf("%w: %v", engagement.ErrStoreUnavailable, err)
}
