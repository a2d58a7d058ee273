package migrate

import (
	"context"
	"fmt"

	"scylla-migration/internal/denorm"
	"scylla-migration/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// resolve runs the independent lookups of one note concurrently and returns
// the denormalizer input. Reads that fail fail the note; missing rows do not.
func (m *Migrator) resolve(ctx context.Context, n model.Note) (denorm.PostInput, error) {
	in := denorm.PostInput{
		Note:      n,
		Reactions: denorm.ReactionTally(n.Reactions),
	}
	g, gctx := errgroup.WithContext(ctx)
	if n.ReplyID != nil {
		g.Go(func() error {
			var err error
			in.Reply, in.ReplyFiles, err = m.target(gctx, *n.ReplyID)
			if err != nil {
				return fmt.Errorf("reply: %w", err)
			}
			return nil
		})
	}
	if n.RenoteID != nil {
		g.Go(func() error {
			var err error
			in.Renote, in.RenoteFiles, err = m.target(gctx, *n.RenoteID)
			if err != nil {
				return fmt.Errorf("renote: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		in.Files, err = m.src.Files(gctx, n.FileIDs)
		if err != nil {
			return fmt.Errorf("files: %w", err)
		}
		return nil
	})
	if n.HasPoll {
		g.Go(func() error {
			var err error
			in.Poll, err = m.src.Poll(gctx, n.ID)
			if err != nil {
				return fmt.Errorf("poll: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		in.Edits, err = m.editHistory(gctx, n.ID)
		if err != nil {
			return fmt.Errorf("edit history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return denorm.PostInput{}, err
	}
	return in, nil
}

// target fetches a reply or renote target and its attachments. A target
// that no longer exists yields nil without error.
func (m *Migrator) target(ctx context.Context, id string) (*model.Note, []model.DriveFile, error) {
	t, err := m.src.Note(ctx, id)
	if err != nil || t == nil {
		return nil, nil, err
	}
	files, err := m.src.Files(ctx, t.FileIDs)
	if err != nil {
		return nil, nil, err
	}
	return t, files, nil
}

// fetched is the outcome of one best-effort sub-fetch.
type fetched[T any] struct {
	val T
	err error
}

// editHistory resolves every revision of noteID with its attachments.
// Revisions whose attachments cannot be read are dropped with a warning
// instead of failing the note.
func (m *Migrator) editHistory(ctx context.Context, noteID string) ([]model.EditHistoryEntry, error) {
	edits, err := m.src.Edits(ctx, noteID)
	if err != nil {
		return nil, err
	}
	results := make([]fetched[model.EditHistoryEntry], len(edits))
	for i, e := range edits {
		files, err := m.src.Files(ctx, e.FileIDs)
		if err != nil {
			results[i].err = err
			continue
		}
		results[i].val = denorm.Edit(e, files)
	}
	// A cancelled run is not a per-entry failure.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	history := make([]model.EditHistoryEntry, 0, len(results))
	for i, r := range results {
		if r.err != nil {
			m.log.Warn("dropping edit history entry",
				zap.String("noteId", noteID),
				zap.String("editId", edits[i].ID),
				zap.Error(r.err),
			)
			continue
		}
		history = append(history, r.val)
	}
	return history, nil
}
