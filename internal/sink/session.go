package sink

import (
	"context"
	"fmt"

	"scylla-migration/internal/model"

	"github.com/gocql/gocql"
)

// Execer runs one prepared statement with positional parameters.
type Execer interface {
	Exec(ctx context.Context, stmt string, values ...any) error
}

// GocqlExecer adapts a gocql session. gocql prepares and caches each
// statement on first use.
type GocqlExecer struct {
	Session *gocql.Session
}

func (g GocqlExecer) Exec(ctx context.Context, stmt string, values ...any) error {
	return g.Session.Query(stmt, values...).WithContext(ctx).Exec()
}

// Writer upserts wide records into their tables.
type Writer struct {
	exec Execer
}

func NewWriter(exec Execer) *Writer {
	return &Writer{exec: exec}
}

// Upsert writes values into table t.
func (w *Writer) Upsert(ctx context.Context, t Table, values []any) error {
	stmt, ok := Statement(t)
	if !ok {
		return fmt.Errorf("upsert: unknown table %q", t)
	}
	if err := w.exec.Exec(ctx, stmt, values...); err != nil {
		return fmt.Errorf("upsert %s: %w", t, err)
	}
	return nil
}

func (w *Writer) WriteNote(ctx context.Context, r *model.PostRecord) error {
	return w.Upsert(ctx, TableNote, NoteValues(r))
}

func (w *Writer) WriteTimeline(ctx context.Context, e *model.TimelineEntry) error {
	return w.Upsert(ctx, TableHomeTimeline, TimelineValues(e))
}

func (w *Writer) WriteReaction(ctx context.Context, r *model.ReactionRecord) error {
	return w.Upsert(ctx, TableReaction, ReactionValues(r))
}

func (w *Writer) WritePollVote(ctx context.Context, v *model.PollVoteRecord) error {
	return w.Upsert(ctx, TablePollVote, PollVoteValues(v))
}

func (w *Writer) WriteNotification(ctx context.Context, n *model.NotificationRecord) error {
	return w.Upsert(ctx, TableNotification, NotificationValues(n))
}
