// Package timeline reads migrated home timelines back from Scylla, newest
// first, walking the day partitions backwards.
package timeline

import (
	"context"
	"fmt"
	"time"

	"scylla-migration/internal/denorm"
	"scylla-migration/internal/model"
)

// PageQuerier returns up to limit entries of one day partition of a home
// timeline with createdAt < until, newest first.
type PageQuerier interface {
	Page(ctx context.Context, feedUserID string, day, until time.Time, limit int) ([]model.TimelineEntry, error)
}

// Reader pages through a home timeline.
type Reader struct {
	Pages PageQuerier
	// PageSize is the per-query row limit (default 1000).
	PageSize int
	// MaxPartitions caps how many empty or exhausted days are scanned per
	// call (default 14).
	MaxPartitions int
}

// Feed returns up to limit entries of userID's home timeline created before
// until. A lower bound set with WithSince stops the walk early.
func (r *Reader) Feed(ctx context.Context, userID string, until time.Time, limit int) ([]model.TimelineEntry, error) {
	if r.Pages == nil {
		return nil, fmt.Errorf("reader not initialized")
	}
	pageSize := r.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	maxPartitions := r.MaxPartitions
	if maxPartitions <= 0 {
		maxPartitions = 14
	}

	since, _ := Since(ctx)
	day := denorm.Day(until)
	var found []model.TimelineEntry
	for scanned := 0; len(found) < limit && scanned < maxPartitions; {
		entries, err := r.Pages.Page(ctx, userID, day, until, pageSize)
		if err != nil {
			return nil, fmt.Errorf("timeline %s %s: %w", userID, day.Format(time.DateOnly), err)
		}
		for _, e := range entries {
			if !since.IsZero() && !e.CreatedAt.After(since) {
				return trim(found, limit), nil
			}
			found = append(found, e)
		}
		if len(entries) > 0 {
			// Assumes createdAt is unique within a feed; an entry tied with the
			// last one of a full page is skipped.
			until = entries[len(entries)-1].CreatedAt
		}
		if len(entries) < pageSize {
			// Partition exhausted; continue with the day before.
			scanned++
			until = day
			day = day.AddDate(0, 0, -1)
			if !since.IsZero() && until.Before(since) {
				break
			}
		}
	}
	return trim(found, limit), nil
}

func trim(entries []model.TimelineEntry, limit int) []model.TimelineEntry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
