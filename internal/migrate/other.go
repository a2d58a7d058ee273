package migrate

import (
	"context"
	"fmt"

	"scylla-migration/internal/denorm"
	"scylla-migration/internal/model"
	"scylla-migration/internal/source"
)

func (m *Migrator) migrateReaction(ctx context.Context, r model.NoteReaction) error {
	var emoji *model.Emoji
	if name, host, ok := denorm.CustomEmoji(r.Reaction); ok {
		var err error
		emoji, err = m.emoji(ctx, name, host)
		if err != nil {
			return unitErr(source.KindReactions, r.ID, err)
		}
	}
	rec := denorm.Reaction(r, emoji)
	if err := m.write(ctx, func(ctx context.Context) error {
		return m.sink.WriteReaction(ctx, &rec)
	}); err != nil {
		return unitErr(source.KindReactions, r.ID, err)
	}
	return nil
}

// emoji memoizes custom emoji lookups for the run, misses included.
func (m *Migrator) emoji(ctx context.Context, name string, host *string) (*model.Emoji, error) {
	key := name + "@"
	if host != nil {
		key += *host
	}
	m.emojiMu.Lock()
	e, ok := m.emojis[key]
	m.emojiMu.Unlock()
	if ok {
		return e, nil
	}
	e, err := m.src.Emoji(ctx, name, host)
	if err != nil {
		return nil, fmt.Errorf("emoji: %w", err)
	}
	m.emojiMu.Lock()
	m.emojis[key] = e
	m.emojiMu.Unlock()
	return e, nil
}

func (m *Migrator) migratePollVote(ctx context.Context, v model.PollVote) error {
	rec := denorm.PollVote(v)
	if err := m.write(ctx, func(ctx context.Context) error {
		return m.sink.WritePollVote(ctx, &rec)
	}); err != nil {
		return unitErr(source.KindPollVotes, v.NoteID+"/"+v.UserID, err)
	}
	return nil
}

func (m *Migrator) migrateNotification(ctx context.Context, n model.Notification) error {
	rec := denorm.Notification(n)
	if err := m.write(ctx, func(ctx context.Context) error {
		return m.sink.WriteNotification(ctx, &rec)
	}); err != nil {
		return unitErr(source.KindNotifications, n.ID, err)
	}
	return nil
}
