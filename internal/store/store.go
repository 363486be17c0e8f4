// Package store is the warehouse client. It exposes the three primitives
// the pipeline needs - upsert by conflict key, lookup by key, and an
// append-only quarantine insert - over PostgreSQL via pgx.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skydeck/aeroload/internal/quarantine"
	"github.com/skydeck/aeroload/internal/standardize"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Store wraps a database handle with the warehouse operations.
type Store struct {
	db DBTX
}

// New returns a Store over db.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// identPattern restricts interpolated identifiers. Collections and columns
// come from the static signature registry, never from file content; this
// check is the belt to that suspender.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// sortedColumns returns the record's field names in a stable order.
func sortedColumns(rec standardize.Record) []string {
	cols := make([]string, 0, len(rec))
	for c := range rec {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// upsertSQL builds a multi-row upsert keyed on conflictKey. The RETURNING
// clause reports, per input row in order, whether the row was freshly
// inserted: xmax is zero for new tuples and non-zero for updated ones.
func upsertSQL(collection, conflictKey string, cols []string, rows int) (string, error) {
	if err := checkIdent(collection); err != nil {
		return "", err
	}
	if err := checkIdent(conflictKey); err != nil {
		return "", err
	}
	for _, c := range cols {
		if err := checkIdent(c); err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", collection, strings.Join(cols, ", "))

	arg := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range cols {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", arg)
			arg++
		}
		sb.WriteByte(')')
	}

	fmt.Fprintf(&sb, " ON CONFLICT (%s) DO UPDATE SET ", conflictKey)

	var sets []string
	for _, c := range cols {
		if c == conflictKey {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	if len(sets) == 0 {
		// Key-only record: touch the key so RETURNING still reports the row.
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", conflictKey, conflictKey))
	}
	sb.WriteString(strings.Join(sets, ", "))

	sb.WriteString(" RETURNING (xmax = 0)")
	return sb.String(), nil
}

// UpsertBatch writes recs to collection in one statement and returns, per
// record in input order, whether it was newly inserted.
func (s *Store) UpsertBatch(ctx context.Context, collection, conflictKey string, recs []standardize.Record) ([]bool, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	cols := sortedColumns(recs[0])
	sql, err := upsertSQL(collection, conflictKey, cols, len(recs))
	if err != nil {
		return nil, err
	}

	args := make([]any, 0, len(recs)*len(cols))
	for _, rec := range recs {
		for _, c := range cols {
			args = append(args, rec[c])
		}
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("batch upsert into %s: %w", collection, err)
	}
	defer rows.Close()

	inserted := make([]bool, 0, len(recs))
	for rows.Next() {
		var fresh bool
		if err := rows.Scan(&fresh); err != nil {
			return nil, fmt.Errorf("batch upsert into %s: %w", collection, err)
		}
		inserted = append(inserted, fresh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("batch upsert into %s: %w", collection, err)
	}

	return inserted, nil
}

// UpsertOne writes a single record and reports whether it was newly
// inserted.
func (s *Store) UpsertOne(ctx context.Context, collection, conflictKey string, rec standardize.Record) (bool, error) {
	cols := sortedColumns(rec)
	sql, err := upsertSQL(collection, conflictKey, cols, 1)
	if err != nil {
		return false, err
	}

	args := make([]any, 0, len(cols))
	for _, c := range cols {
		args = append(args, rec[c])
	}

	var fresh bool
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&fresh); err != nil {
		return false, fmt.Errorf("upsert into %s: %w", collection, err)
	}
	return fresh, nil
}

// Exists reports whether a row with keyColumn = value exists in collection.
func (s *Store) Exists(ctx context.Context, collection, keyColumn, value string) (bool, error) {
	if err := checkIdent(collection); err != nil {
		return false, err
	}
	if err := checkIdent(keyColumn); err != nil {
		return false, err
	}

	sql := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", collection, keyColumn)

	var exists bool
	if err := s.db.QueryRow(ctx, sql, value).Scan(&exists); err != nil {
		return false, fmt.Errorf("existence check on %s: %w", collection, err)
	}
	return exists, nil
}

// AirportExists reports whether the airport key is present in the warehouse.
func (s *Store) AirportExists(ctx context.Context, key string) (bool, error) {
	return s.Exists(ctx, "airports", "airport_key", key)
}

// CreateAirport inserts an airport record, typically a resolver placeholder.
// Upserting keeps the call idempotent if two runs race on the same key.
func (s *Store) CreateAirport(ctx context.Context, rec standardize.Record) error {
	_, err := s.UpsertOne(ctx, "airports", "airport_key", rec)
	return err
}

// InsertQuarantine appends one entry to the quarantine collection.
func (s *Store) InsertQuarantine(ctx context.Context, e quarantine.Entry) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("encode quarantine payload: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO quarantine_rows (entity_type, payload, reason, created_at) VALUES ($1, $2, $3, $4)`,
		e.Entity, payload, e.Reason, e.At,
	)
	if err != nil {
		return fmt.Errorf("insert quarantine row: %w", err)
	}
	return nil
}

// ListQuarantine returns the most recent quarantine entries, newest first.
func (s *Store) ListQuarantine(ctx context.Context, limit int) ([]quarantine.Entry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT entity_type, payload, reason, created_at FROM quarantine_rows ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list quarantine rows: %w", err)
	}
	defer rows.Close()

	var entries []quarantine.Entry
	for rows.Next() {
		var (
			e       quarantine.Entry
			payload []byte
		)
		if err := rows.Scan(&e.Entity, &payload, &e.Reason, &e.At); err != nil {
			return nil, fmt.Errorf("scan quarantine row: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, fmt.Errorf("decode quarantine payload: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quarantine rows: %w", err)
	}

	return entries, nil
}

// UpdateFlightDelay records a delay (in minutes) and the resulting insurance
// eligibility on a flight row. Returns the number of rows updated; zero
// means the flight is not in the warehouse yet.
func (s *Store) UpdateFlightDelay(ctx context.Context, flightKey string, delayMinutes int, insuranceEligible bool) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE flights SET delay_minutes = $2, insurance_eligible = $3 WHERE flight_key = $1`,
		flightKey, delayMinutes, insuranceEligible,
	)
	if err != nil {
		return 0, fmt.Errorf("update flight delay: %w", err)
	}
	return tag.RowsAffected(), nil
}
