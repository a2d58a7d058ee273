// Package source reads the relational side of the migration: ordered scans of
// the migrated tables, point lookups of related rows, and the follow graph.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Kind names one migrated entity stream.
type Kind string

const (
	KindNotes         Kind = "notes"
	KindReactions     Kind = "reactions"
	KindPollVotes     Kind = "poll_votes"
	KindNotifications Kind = "notifications"
)

// Kinds lists every stream in the order the run reports them.
var Kinds = []Kind{KindNotes, KindReactions, KindPollVotes, KindNotifications}

// ParseKind returns the Kind named name.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

var countQueries = map[Kind]string{
	KindNotes:         `SELECT count(*) FROM "note"`,
	KindReactions:     `SELECT count(*) FROM "note_reaction"`,
	KindPollVotes:     `SELECT count(*) FROM (SELECT DISTINCT "noteId", "userId" FROM "poll_vote") v`,
	KindNotifications: `SELECT count(*) FROM "notification"`,
}

// Querier is the part of *pgxpool.Pool the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads from the relational source.
type Store struct {
	db       Querier
	pageSize int
}

// New wraps db. pageSize is the keyset page fetched per round-trip while
// streaming; it is never visible to stream consumers.
func New(db Querier, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &Store{db: db, pageSize: pageSize}
}

// Count returns the number of rows the stream for kind will yield.
func (s *Store) Count(ctx context.Context, kind Kind) (int64, error) {
	q, ok := countQueries[kind]
	if !ok {
		return 0, fmt.Errorf("count: unknown kind %q", kind)
	}
	var n int64
	if err := s.db.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
