package source

import (
	"context"
	"fmt"

	"scylla-migration/internal/model"

	"github.com/jackc/pgx/v5"
)

const noteColumns = `"id", "createdAt", "userId", "userHost", "visibility"::text, "text", "name", "cw",
	"localOnly", "renoteCount", "repliesCount", "uri", "url", "score", "fileIds", "visibleUserIds",
	"mentions", "mentionedRemoteUsers", "emojis", "tags", "hasPoll", "threadId", "channelId",
	"replyId", "replyUserId", "replyUserHost", "renoteId", "renoteUserId", "renoteUserHost",
	"reactions", "updatedAt"`

func scanNote(row pgx.Row) (model.Note, error) {
	var n model.Note
	err := row.Scan(&n.ID, &n.CreatedAt, &n.UserID, &n.UserHost, &n.Visibility, &n.Text, &n.Name, &n.CW,
		&n.LocalOnly, &n.RenoteCount, &n.RepliesCount, &n.URI, &n.URL, &n.Score, &n.FileIDs, &n.VisibleUserIDs,
		&n.Mentions, &n.MentionedRemoteUsers, &n.Emojis, &n.Tags, &n.HasPoll, &n.ThreadID, &n.ChannelID,
		&n.ReplyID, &n.ReplyUserID, &n.ReplyUserHost, &n.RenoteID, &n.RenoteUserID, &n.RenoteUserHost,
		&n.Reactions, &n.UpdatedAt)
	return n, err
}

// page describes one keyset-paginated scan. The query takes the cursor
// columns as its leading parameters and the page size as the last one.
type page[T any] struct {
	query  string
	cursor []any
	scan   func(pgx.Row) (T, error)
	key    func(T) []any
}

// scanPages yields every row of p in primary-key order. Each page is fully
// read and its connection released before fn sees its rows, so slow
// consumers never pin a source connection.
func scanPages[T any](ctx context.Context, s *Store, p page[T], fn func(T) error) error {
	cursor := p.cursor
	for {
		args := append(append([]any{}, cursor...), s.pageSize)
		rows, err := s.db.Query(ctx, p.query, args...)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
			return p.scan(row)
		})
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		for _, it := range items {
			if err := fn(it); err != nil {
				return err
			}
		}
		if len(items) < s.pageSize {
			return nil
		}
		cursor = p.key(items[len(items)-1])
	}
}

// StreamNotes calls fn for every note in ascending id order.
func (s *Store) StreamNotes(ctx context.Context, fn func(model.Note) error) error {
	return scanPages(ctx, s, page[model.Note]{
		query:  `SELECT ` + noteColumns + ` FROM "note" WHERE "id" > $1 ORDER BY "id" LIMIT $2`,
		cursor: []any{""},
		scan:   scanNote,
		key:    func(n model.Note) []any { return []any{n.ID} },
	}, fn)
}

// StreamReactions calls fn for every reaction in ascending id order.
func (s *Store) StreamReactions(ctx context.Context, fn func(model.NoteReaction) error) error {
	return scanPages(ctx, s, page[model.NoteReaction]{
		query: `SELECT "id", "createdAt", "userId", "noteId", "reaction"
		FROM "note_reaction" WHERE "id" > $1 ORDER BY "id" LIMIT $2`,
		cursor: []any{""},
		scan: func(row pgx.Row) (model.NoteReaction, error) {
			var r model.NoteReaction
			err := row.Scan(&r.ID, &r.CreatedAt, &r.UserID, &r.NoteID, &r.Reaction)
			return r, err
		},
		key: func(r model.NoteReaction) []any { return []any{r.ID} },
	}, fn)
}

// StreamPollVotes yields one aggregate per (note, voter), ordered by that pair.
func (s *Store) StreamPollVotes(ctx context.Context, fn func(model.PollVote) error) error {
	return scanPages(ctx, s, page[model.PollVote]{
		query: `SELECT v."noteId", v."userId", u."host", array_agg(v."choice" ORDER BY v."choice"), min(v."createdAt")
		FROM "poll_vote" v LEFT JOIN "user" u ON u."id" = v."userId"
		WHERE (v."noteId", v."userId") > ($1, $2)
		GROUP BY v."noteId", v."userId", u."host"
		ORDER BY v."noteId", v."userId" LIMIT $3`,
		cursor: []any{"", ""},
		scan: func(row pgx.Row) (model.PollVote, error) {
			var v model.PollVote
			err := row.Scan(&v.NoteID, &v.UserID, &v.UserHost, &v.Choices, &v.CreatedAt)
			return v, err
		},
		key: func(v model.PollVote) []any { return []any{v.NoteID, v.UserID} },
	}, fn)
}

// StreamNotifications calls fn for every notification in ascending id order.
func (s *Store) StreamNotifications(ctx context.Context, fn func(model.Notification) error) error {
	return scanPages(ctx, s, page[model.Notification]{
		query: `SELECT n."id", n."createdAt", n."notifieeId", n."notifierId", u."host", n."type"::text,
			n."noteId", n."followRequestId", n."userGroupInvitationId", n."reaction", n."choice",
			n."customBody", n."customHeader", n."customIcon"
		FROM "notification" n LEFT JOIN "user" u ON u."id" = n."notifierId"
		WHERE n."id" > $1 ORDER BY n."id" LIMIT $2`,
		cursor: []any{""},
		scan: func(row pgx.Row) (model.Notification, error) {
			var n model.Notification
			err := row.Scan(&n.ID, &n.CreatedAt, &n.NotifieeID, &n.NotifierID, &n.NotifierHost, &n.Type,
				&n.NoteID, &n.FollowRequestID, &n.UserGroupInvitationID, &n.Reaction, &n.Choice,
				&n.CustomBody, &n.CustomHeader, &n.CustomIcon)
			return n, err
		},
		key: func(n model.Notification) []any { return []any{n.ID} },
	}, fn)
}
