// Package cleanup removes the relational tables whose data now lives in
// Scylla. Run it only after a copy phase that finished without error.
package cleanup

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Execer is the part of *pgxpool.Pool cleanup needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ForeignKey is a constraint on a table that stays in Postgres but points at
// a table that is about to be dropped.
type ForeignKey struct {
	Table      string
	Constraint string
}

// ForeignKeys are dropped first so the tables below can go.
var ForeignKeys = []ForeignKey{
	{"channel_note_pining", "FK_10b19ef67d297ea9de325cd4502"},
	{"clip_note", "FK_a012eaf5c87c65da1deb5fdbfa3"},
	{"muted_note", "FK_70ab9786313d78e4201d81cdb89"},
	{"note_favorite", "FK_0e00498f180193423c992bc4370"},
	{"note_unread", "FK_e637cba4dc4410218c4251260e4"},
	{"note_watching", "FK_03e7028ab8388a3f5e3ce2a8619"},
	{"promo_note", "FK_e263909ca4fe5d57f8d4230dd5c"},
	{"promo_read", "FK_a46a1a603ecee695d7db26da5f4"},
	{"user_note_pining", "FK_68881008f7c3588ad7ecae471cf"},
}

// Tables are dropped in order; "note" goes last since the others reference it.
var Tables = []string{
	"note_reaction",
	"note_edit",
	"poll",
	"poll_vote",
	"notification",
	"note",
}

// Statements returns the teardown in execution order.
func Statements() []string {
	stmts := make([]string, 0, len(ForeignKeys)+len(Tables))
	for _, fk := range ForeignKeys {
		stmts = append(stmts, fmt.Sprintf(`ALTER TABLE %q DROP CONSTRAINT %q`, fk.Table, fk.Constraint))
	}
	for _, t := range Tables {
		stmts = append(stmts, fmt.Sprintf(`DROP TABLE %q`, t))
	}
	return stmts
}

// Run executes the teardown, stopping at the first failing statement.
func Run(ctx context.Context, db Execer, log *zap.Logger) error {
	for _, stmt := range Statements() {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("cleanup %q: %w", stmt, err)
		}
		log.Info("cleanup", zap.String("stmt", stmt))
	}
	return nil
}
