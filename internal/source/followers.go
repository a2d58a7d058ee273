package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// LocalFollowers returns the ids of local accounts (null follower host)
// following userID. Remote followers get no home timeline copy.
func (s *Store) LocalFollowers(ctx context.Context, userID string) ([]string, error) {
	const q = `
	SELECT DISTINCT "followerId"
	FROM "following"
	WHERE "followeeId" = $1 AND "followerHost" IS NULL;
	`
	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query followers of %s: %w", userID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan followers of %s: %w", userID, err)
	}
	return ids, nil
}
