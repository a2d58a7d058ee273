// Package progress counts migrated rows against totals fetched once at the
// start of a run. It is for display only; nothing reads it for correctness.
package progress

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Bar is one monotonically increasing counter with a fixed total.
type Bar struct {
	name  string
	total int64
	done  atomic.Int64
	inc   prometheus.Counter
}

// Inc records one completed unit of work. For notes a unit is the whole
// note: the canonical write and every timeline copy.
func (b *Bar) Inc() {
	b.done.Add(1)
	b.inc.Inc()
}

func (b *Bar) Name() string { return b.name }
func (b *Bar) Total() int64 { return b.total }
func (b *Bar) Done() int64  { return b.done.Load() }

// Percent returns completion in [0, 100]. An empty stream is complete.
func (b *Bar) Percent() float64 {
	if b.total <= 0 {
		return 100
	}
	return 100 * float64(b.Done()) / float64(b.total)
}

// Tracker owns the bars of one run and the registry exporting them.
type Tracker struct {
	mu    sync.Mutex
	bars  []*Bar
	start time.Time

	registry *prometheus.Registry
	total    *prometheus.GaugeVec
	done     *prometheus.CounterVec
}

// New creates a tracker with its own prometheus registry.
func New() *Tracker {
	t := &Tracker{
		start:    time.Now(),
		registry: prometheus.NewRegistry(),
		total: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "migration_rows_total",
			Help: "Rows to migrate per stream, counted at start",
		}, []string{"kind"}),
		done: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "migration_rows_done_total",
			Help: "Rows fully migrated per stream",
		}, []string{"kind"}),
	}
	t.registry.MustRegister(t.total, t.done)
	return t
}

// Add registers a bar. Call it before the stream starts.
func (t *Tracker) Add(name string, total int64) *Bar {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total.WithLabelValues(name).Set(float64(total))
	b := &Bar{name: name, total: total, inc: t.done.WithLabelValues(name)}
	t.bars = append(t.bars, b)
	return b
}

// Bars returns the registered bars in registration order.
func (t *Tracker) Bars() []*Bar {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Bar(nil), t.bars...)
}

// Handler serves the tracker's metrics in the prometheus text format.
func (t *Tracker) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// Log writes one progress line per bar.
func (t *Tracker) Log(log *zap.Logger) {
	elapsed := time.Since(t.start)
	for _, b := range t.Bars() {
		done := b.Done()
		rate := 0.0
		if s := elapsed.Seconds(); s > 0 {
			rate = float64(done) / s
		}
		log.Info("progress",
			zap.String("kind", b.name),
			zap.Int64("done", done),
			zap.Int64("total", b.total),
			zap.String("percent", fmt.Sprintf("%.1f%%", b.Percent())),
			zap.Float64("perSec", rate),
			zap.Duration("elapsed", elapsed.Round(time.Second)),
		)
	}
}

// Report logs progress every interval until ctx is done.
func (t *Tracker) Report(ctx context.Context, log *zap.Logger, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Log(log)
		}
	}
}
