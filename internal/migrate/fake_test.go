package migrate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"scylla-migration/internal/model"
	"scylla-migration/internal/source"
)

var errBoom = errors.New("boom")

// memSource is an in-memory Source. Streams yield rows in slice order.
type memSource struct {
	notes         []model.Note
	reactions     []model.NoteReaction
	votes         []model.PollVote
	notifications []model.Notification

	files     map[string]model.DriveFile
	polls     map[string]*model.Poll
	edits     map[string][]model.NoteEdit
	emojis    map[string]*model.Emoji
	followers map[string][]string

	// badFiles makes any Files call including one of these ids fail.
	badFiles map[string]bool

	mu         sync.Mutex
	fileCalls  [][]string
	pollCalls  []string
	emojiCalls int
}

func (s *memSource) Count(_ context.Context, kind source.Kind) (int64, error) {
	switch kind {
	case source.KindNotes:
		return int64(len(s.notes)), nil
	case source.KindReactions:
		return int64(len(s.reactions)), nil
	case source.KindPollVotes:
		return int64(len(s.votes)), nil
	case source.KindNotifications:
		return int64(len(s.notifications)), nil
	}
	return 0, errors.New("unknown kind")
}

func each[T any](ctx context.Context, rows []T, fn func(T) error) error {
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *memSource) StreamNotes(ctx context.Context, fn func(model.Note) error) error {
	return each(ctx, s.notes, fn)
}

func (s *memSource) StreamReactions(ctx context.Context, fn func(model.NoteReaction) error) error {
	return each(ctx, s.reactions, fn)
}

func (s *memSource) StreamPollVotes(ctx context.Context, fn func(model.PollVote) error) error {
	return each(ctx, s.votes, fn)
}

func (s *memSource) StreamNotifications(ctx context.Context, fn func(model.Notification) error) error {
	return each(ctx, s.notifications, fn)
}

func (s *memSource) Note(_ context.Context, id string) (*model.Note, error) {
	for _, n := range s.notes {
		if n.ID == id {
			n := n
			return &n, nil
		}
	}
	return nil, nil
}

func (s *memSource) Files(_ context.Context, ids []string) ([]model.DriveFile, error) {
	s.mu.Lock()
	s.fileCalls = append(s.fileCalls, ids)
	s.mu.Unlock()
	res := []model.DriveFile{}
	for _, id := range ids {
		if s.badFiles[id] {
			return nil, errBoom
		}
		if f, ok := s.files[id]; ok {
			res = append(res, f)
		}
	}
	return res, nil
}

func (s *memSource) Poll(_ context.Context, noteID string) (*model.Poll, error) {
	s.mu.Lock()
	s.pollCalls = append(s.pollCalls, noteID)
	s.mu.Unlock()
	return s.polls[noteID], nil
}

func (s *memSource) Edits(_ context.Context, noteID string) ([]model.NoteEdit, error) {
	return s.edits[noteID], nil
}

func (s *memSource) Emoji(_ context.Context, name string, host *string) (*model.Emoji, error) {
	s.mu.Lock()
	s.emojiCalls++
	s.mu.Unlock()
	key := name
	if host != nil {
		key += "@" + *host
	}
	return s.emojis[key], nil
}

func (s *memSource) LocalFollowers(_ context.Context, userID string) ([]string, error) {
	return s.followers[userID], nil
}

// memSink keeps the last write per primary key, like an upsert.
type memSink struct {
	mu            sync.Mutex
	notes         map[string]model.PostRecord
	timeline      map[[2]string]model.TimelineEntry
	reactions     map[string]model.ReactionRecord
	votes         map[[2]string]model.PollVoteRecord
	notifications map[string]model.NotificationRecord
	writes        int

	// failFeed makes timeline writes for this follower fail.
	failFeed string

	// delay slows every write down so concurrent writes overlap.
	delay    time.Duration
	inFlight atomic.Int64
	peak     atomic.Int64
}

// enter marks a write in flight until the returned func is called.
func (s *memSink) enter() func() {
	n := s.inFlight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return func() { s.inFlight.Add(-1) }
}

func newMemSink() *memSink {
	return &memSink{
		notes:         map[string]model.PostRecord{},
		timeline:      map[[2]string]model.TimelineEntry{},
		reactions:     map[string]model.ReactionRecord{},
		votes:         map[[2]string]model.PollVoteRecord{},
		notifications: map[string]model.NotificationRecord{},
	}
}

func (s *memSink) WriteNote(_ context.Context, r *model.PostRecord) error {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.notes[r.ID] = *r
	return nil
}

func (s *memSink) WriteTimeline(_ context.Context, e *model.TimelineEntry) error {
	defer s.enter()()
	if e.FeedUserID == s.failFeed {
		return errBoom
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.timeline[[2]string{e.FeedUserID, e.ID}] = *e
	return nil
}

func (s *memSink) WriteReaction(_ context.Context, r *model.ReactionRecord) error {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.reactions[r.ID] = *r
	return nil
}

func (s *memSink) WritePollVote(_ context.Context, v *model.PollVoteRecord) error {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.votes[[2]string{v.NoteID, v.UserID}] = *v
	return nil
}

func (s *memSink) WriteNotification(_ context.Context, n *model.NotificationRecord) error {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.notifications[n.ID] = *n
	return nil
}
