package timeline

import (
	"context"
	"fmt"
	"time"

	"scylla-migration/internal/model"

	"github.com/gocql/gocql"
)

// ScyllaPages reads home_timeline partitions with gocql.
type ScyllaPages struct {
	Session *gocql.Session
}

func (s ScyllaPages) Page(ctx context.Context, feedUserID string, day, until time.Time, limit int) ([]model.TimelineEntry, error) {
	const q = `SELECT "id", "createdAtDate", "createdAt", "userId", "userHost", "visibility",
		"content", "cw", "replyId", "renoteId", "hasPoll"
	FROM home_timeline
	WHERE "feedUserId" = ? AND "createdAtDate" = ? AND "createdAt" < ?
	LIMIT ?`
	iter := s.Session.Query(q, feedUserID, day, until, limit).WithContext(ctx).Iter()
	var res []model.TimelineEntry
	for {
		e := model.TimelineEntry{FeedUserID: feedUserID}
		if !iter.Scan(&e.ID, &e.CreatedAtDate, &e.CreatedAt, &e.UserID, &e.UserHost, &e.Visibility,
			&e.Content, &e.CW, &e.ReplyID, &e.RenoteID, &e.HasPoll) {
			break
		}
		res = append(res, e)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("query home_timeline: %w", err)
	}
	return res, nil
}
