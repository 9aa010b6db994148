// Package store persists analysis runs and saved scenarios in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const timeLayout = "2006-01-02T15:04:05.000000000Z"

type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Store reads and writes the analyses and scenarios tables.
type Store struct {
	db *sqlx.DB
	q  queryer

	// Now stamps created and updated rows. Defaults to time.Now.
	Now func() time.Time
}

// New returns a Store backed by db. The schema must already be migrated.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, q: db, Now: time.Now}
}

// Tx runs fn against a Store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) Tx(ctx context.Context, fn func(*Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&Store{db: s.db, q: tx, Now: s.Now}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) stamp() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("query %s: %w", what, err)
}
