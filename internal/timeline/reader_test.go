package timeline

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scylla-migration/internal/denorm"
	"scylla-migration/internal/model"
)

// memPages holds one feed, answering each partition query like the
// home_timeline clustering order (createdAt DESC).
type memPages struct {
	entries []model.TimelineEntry
	days    []time.Time
	err     error
}

func (m *memPages) Page(_ context.Context, _ string, day, until time.Time, limit int) ([]model.TimelineEntry, error) {
	m.days = append(m.days, day)
	if m.err != nil {
		return nil, m.err
	}
	var res []model.TimelineEntry
	for _, e := range m.entries {
		if e.CreatedAtDate.Equal(day) && e.CreatedAt.Before(until) {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func entry(id string, at time.Time) model.TimelineEntry {
	return model.TimelineEntry{
		FeedUserID: "f1",
		PostRecord: model.PostRecord{ID: id, CreatedAt: at, CreatedAtDate: denorm.Day(at)},
	}
}

func ids(entries []model.TimelineEntry) []string {
	res := make([]string, 0, len(entries))
	for _, e := range entries {
		res = append(res, e.ID)
	}
	return res
}

var now = time.Date(2023, 7, 10, 12, 0, 0, 0, time.UTC)

func TestFeedWalksDaysBackwards(t *testing.T) {
	pages := &memPages{entries: []model.TimelineEntry{
		entry("a", now.Add(-1*time.Hour)),
		entry("b", now.Add(-2*time.Hour)),
		entry("c", now.Add(-26*time.Hour)),
		entry("d", now.Add(-72*time.Hour)),
		entry("future", now.Add(time.Minute)),
	}}
	r := &Reader{Pages: pages, PageSize: 10}

	got, err := r.Feed(context.Background(), "f1", now, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got))
}

func TestFeedPagesWithinADay(t *testing.T) {
	var entries []model.TimelineEntry
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		entries = append(entries, entry(id, now.Add(-time.Duration(i+1)*time.Minute)))
	}
	pages := &memPages{entries: entries}
	r := &Reader{Pages: pages, PageSize: 2}

	got, err := r.Feed(context.Background(), "f1", now, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got))
	// Two full pages on the same day were enough.
	assert.Len(t, pages.days, 2)
}

func TestFeedStopsAtPartitionBudget(t *testing.T) {
	pages := &memPages{entries: []model.TimelineEntry{entry("old", now.AddDate(0, 0, -30))}}
	r := &Reader{Pages: pages, PageSize: 10, MaxPartitions: 7}

	got, err := r.Feed(context.Background(), "f1", now, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.Len(t, pages.days, 7)
	assert.Equal(t, denorm.Day(now), pages.days[0])
	assert.Equal(t, denorm.Day(now).AddDate(0, 0, -6), pages.days[6])
}

func TestFeedSince(t *testing.T) {
	pages := &memPages{entries: []model.TimelineEntry{
		entry("a", now.Add(-time.Hour)),
		entry("b", now.Add(-50*time.Hour)),
	}}
	r := &Reader{Pages: pages, PageSize: 10}
	ctx := WithSince(context.Background(), now.Add(-24*time.Hour))

	got, err := r.Feed(ctx, "f1", now, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(got))
	assert.LessOrEqual(t, len(pages.days), 2)
}

func TestFeedError(t *testing.T) {
	boom := errors.New("unavailable")
	r := &Reader{Pages: &memPages{err: boom}}

	_, err := r.Feed(context.Background(), "f1", now, 10)
	assert.ErrorIs(t, err, boom)
}

func TestSinceUnset(t *testing.T) {
	_, ok := Since(context.Background())
	assert.False(t, ok)
}
