package migrate

import (
	"context"
	"fmt"

	"scylla-migration/internal/denorm"
	"scylla-migration/internal/model"
	"scylla-migration/internal/source"

	"golang.org/x/sync/errgroup"
)

// migrateNote is the unit of work for one note: resolve, build, write the
// canonical record, then copy it into every local follower's timeline.
func (m *Migrator) migrateNote(ctx context.Context, n model.Note) error {
	in, err := m.resolve(ctx, n)
	if err != nil {
		return unitErr(source.KindNotes, n.ID, err)
	}
	rec := denorm.Post(in)
	if err := m.write(ctx, func(ctx context.Context) error {
		return m.sink.WriteNote(ctx, &rec)
	}); err != nil {
		return unitErr(source.KindNotes, n.ID, err)
	}
	followers, err := m.src.LocalFollowers(ctx, rec.UserID)
	if err != nil {
		return unitErr(source.KindNotes, n.ID, fmt.Errorf("followers: %w", err))
	}
	if err := m.fanout(ctx, &rec, followers); err != nil {
		return unitErr(source.KindNotes, n.ID, fmt.Errorf("timeline: %w", err))
	}
	return nil
}

// fanout writes one timeline copy of rec per distinct follower. A write
// permit is taken before each copy is spawned, so the number of goroutines
// never exceeds the run-wide write limit. The errgroup joins them.
func (m *Migrator) fanout(ctx context.Context, rec *model.PostRecord, followers []string) error {
	if len(followers) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	seen := make(map[string]struct{}, len(followers))
	for _, id := range followers {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if err := m.writes.Acquire(gctx, 1); err != nil {
			break
		}
		entry := denorm.Timeline(*rec, id)
		g.Go(func() error {
			defer m.writes.Release(1)
			return m.sink.WriteTimeline(gctx, &entry)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
