// Package migrate runs the copy phase: it streams every source row, builds
// its wide record, writes it, and fans posts out to local followers' home
// timelines.
package migrate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scylla-migration/internal/model"
	"scylla-migration/internal/progress"
	"scylla-migration/internal/source"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Lookup fetches rows related to the one being migrated. Missing rows are
// returned as nil (or an empty slice), not as errors.
type Lookup interface {
	Note(ctx context.Context, id string) (*model.Note, error)
	Files(ctx context.Context, ids []string) ([]model.DriveFile, error)
	Poll(ctx context.Context, noteID string) (*model.Poll, error)
	Edits(ctx context.Context, noteID string) ([]model.NoteEdit, error)
	Emoji(ctx context.Context, name string, host *string) (*model.Emoji, error)
}

// FollowerResolver lists the local followers of an account.
type FollowerResolver interface {
	LocalFollowers(ctx context.Context, userID string) ([]string, error)
}

// Source is the relational side of the migration.
type Source interface {
	Lookup
	FollowerResolver
	Count(ctx context.Context, kind source.Kind) (int64, error)
	StreamNotes(ctx context.Context, fn func(model.Note) error) error
	StreamReactions(ctx context.Context, fn func(model.NoteReaction) error) error
	StreamPollVotes(ctx context.Context, fn func(model.PollVote) error) error
	StreamNotifications(ctx context.Context, fn func(model.Notification) error) error
}

// Sink upserts wide records.
type Sink interface {
	WriteNote(ctx context.Context, r *model.PostRecord) error
	WriteTimeline(ctx context.Context, e *model.TimelineEntry) error
	WriteReaction(ctx context.Context, r *model.ReactionRecord) error
	WritePollVote(ctx context.Context, v *model.PollVoteRecord) error
	WriteNotification(ctx context.Context, n *model.NotificationRecord) error
}

type Options struct {
	// Workers bounds in-flight units of work per stream.
	Workers int
	// WriteConcurrency bounds in-flight writes across the whole run.
	WriteConcurrency int64
	// ProgressInterval is how often progress is logged; 0 disables it.
	ProgressInterval time.Duration
	// Kinds selects the streams to run; empty means all of them.
	Kinds []source.Kind
}

// Migrator holds the state of one run. Build a new one per run.
type Migrator struct {
	src     Source
	sink    Sink
	log     *zap.Logger
	opts    Options
	tracker *progress.Tracker
	writes  *semaphore.Weighted

	emojiMu sync.Mutex
	emojis  map[string]*model.Emoji
}

func New(src Source, sink Sink, log *zap.Logger, tracker *progress.Tracker, opts Options) *Migrator {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.WriteConcurrency <= 0 {
		opts.WriteConcurrency = 1
	}
	if len(opts.Kinds) == 0 {
		opts.Kinds = source.Kinds
	}
	if tracker == nil {
		tracker = progress.New()
	}
	return &Migrator{
		src:     src,
		sink:    sink,
		log:     log,
		opts:    opts,
		tracker: tracker,
		writes:  semaphore.NewWeighted(opts.WriteConcurrency),
		emojis:  make(map[string]*model.Emoji),
	}
}

// Tracker returns the run's progress counters.
func (m *Migrator) Tracker() *progress.Tracker {
	return m.tracker
}

// Run migrates every selected stream. Streams run concurrently; the first
// failed unit of work cancels the rest and is returned.
func (m *Migrator) Run(ctx context.Context) error {
	bars := make(map[source.Kind]*progress.Bar, len(m.opts.Kinds))
	for _, kind := range m.opts.Kinds {
		total, err := m.src.Count(ctx, kind)
		if err != nil {
			return fmt.Errorf("count %s: %w", kind, err)
		}
		bars[kind] = m.tracker.Add(string(kind), total)
		m.log.Info("stream queued", zap.String("kind", string(kind)), zap.Int64("total", total))
	}

	reportCtx, stopReport := context.WithCancel(ctx)
	defer stopReport()
	go m.tracker.Report(reportCtx, m.log, m.opts.ProgressInterval)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range m.opts.Kinds {
		bar := bars[kind]
		g.Go(func() error {
			if err := m.runStream(gctx, kind, bar); err != nil {
				return err
			}
			m.log.Info("stream finished", zap.String("kind", string(kind)), zap.Int64("done", bar.Done()))
			return nil
		})
	}
	err := g.Wait()
	m.tracker.Log(m.log)
	if err != nil {
		return err
	}
	m.log.Info("copy phase finished", zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)))
	return nil
}

func (m *Migrator) runStream(ctx context.Context, kind source.Kind, bar *progress.Bar) error {
	switch kind {
	case source.KindNotes:
		return runUnits(ctx, m.opts.Workers, m.src.StreamNotes, m.migrateNote, bar)
	case source.KindReactions:
		return runUnits(ctx, m.opts.Workers, m.src.StreamReactions, m.migrateReaction, bar)
	case source.KindPollVotes:
		return runUnits(ctx, m.opts.Workers, m.src.StreamPollVotes, m.migratePollVote, bar)
	case source.KindNotifications:
		return runUnits(ctx, m.opts.Workers, m.src.StreamNotifications, m.migrateNotification, bar)
	default:
		return fmt.Errorf("unknown stream %q", kind)
	}
}

// runUnits consumes stream with at most workers units in flight. The stream
// blocks while the pool is full, and stops at the first failed unit.
func runUnits[T any](
	ctx context.Context,
	workers int,
	stream func(context.Context, func(T) error) error,
	work func(context.Context, T) error,
	bar *progress.Bar,
) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	streamErr := stream(gctx, func(row T) error {
		if err := gctx.Err(); err != nil {
			return err
		}
		g.Go(func() error {
			if err := work(gctx, row); err != nil {
				return err
			}
			bar.Inc()
			return nil
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return streamErr
}

// write runs one destination write under the run-wide write limit.
func (m *Migrator) write(ctx context.Context, fn func(context.Context) error) error {
	if err := m.writes.Acquire(ctx, 1); err != nil {
		return err
	}
	defer m.writes.Release(1)
	return fn(ctx)
}
