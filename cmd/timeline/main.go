// Timeline tool: reads migrated home timelines back from Scylla. Without
// --requests it prints each user's feed; with it, it runs a worker pool of
// feed reads and reports latency and QPS.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"time"

	"scylla-migration/internal/config"
	"scylla-migration/internal/db"
	"scylla-migration/internal/logger"
	"scylla-migration/internal/timeline"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet("timeline", pflag.ExitOnError)
	configPath := fs.String("config", ".config/default.yml", "path to the application config")
	users := fs.StringSlice("user", nil, "feed owner ids (repeatable)")
	limit := fs.Int("limit", 50, "feed limit")
	untilStr := fs.String("until", "", "read entries older than this RFC3339 time (default now)")
	windowDays := fs.Int("window-days", 0, "stop at entries older than this many days (0 = no cutoff)")
	requests := fs.Int("requests", 0, "benchmark: total number of feed reads (0 = print feeds)")
	concurrency := fs.Int("concurrency", 20, "benchmark: concurrent readers")
	fs.Bool("dev", false, "development logging")
	fs.String("log-level", "info", "log level")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}
	log, err := logger.New(logger.Config{Development: cfg.Log.Development, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync() //nolint:errcheck

	if len(*users) == 0 {
		log.Fatal("at least one --user is required")
	}
	until := time.Now()
	if *untilStr != "" {
		if until, err = time.Parse(time.RFC3339, *untilStr); err != nil {
			log.Fatal("parse --until", zap.Error(err))
		}
	}

	session, err := db.NewSession(cfg.Scylla)
	if err != nil {
		log.Fatal("connect scylla", zap.Error(err))
	}
	defer session.Close()

	r := &timeline.Reader{
		Pages:         timeline.ScyllaPages{Session: session},
		MaxPartitions: cfg.Scylla.SparseTimelineDays,
	}
	ctx := context.Background()
	if *windowDays > 0 {
		ctx = timeline.WithSince(ctx, until.Add(-time.Duration(*windowDays)*24*time.Hour))
	}

	if *requests <= 0 {
		for _, u := range *users {
			entries, err := r.Feed(ctx, u, until, *limit)
			if err != nil {
				log.Fatal("read feed", zap.String("user", u), zap.Error(err))
			}
			fmt.Printf("%s: %d entries\n", u, len(entries))
			for _, e := range entries {
				fmt.Printf("  %s  %s  %s\n", e.CreatedAt.UTC().Format(time.RFC3339), e.ID, e.UserID)
			}
		}
		return
	}
	bench(ctx, r, *users, until, *limit, *requests, *concurrency)
}

// bench runs requests feed reads for random users over concurrency workers.
func bench(ctx context.Context, r *timeline.Reader, users []string, until time.Time, limit, requests, concurrency int) {
	type result struct {
		latency time.Duration
		err     error
	}

	jobs := make(chan struct{}, requests)
	results := make(chan result, requests)
	for i := 0; i < requests; i++ {
		jobs <- struct{}{}
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	startAll := time.Now()
	for w := 0; w < concurrency; w++ {
		go func() {
			defer wg.Done()
			for range jobs {
				u := users[rand.Intn(len(users))]
				start := time.Now()
				_, err := r.Feed(ctx, u, until, limit)
				results <- result{latency: time.Since(start), err: err}
			}
		}()
	}
	wg.Wait()
	close(results)
	totalDur := time.Since(startAll)

	var latencies []time.Duration
	var errs int
	for res := range results {
		if res.err != nil {
			errs++
			continue
		}
		latencies = append(latencies, res.latency)
	}
	if len(latencies) == 0 {
		fmt.Fprintf(os.Stderr, "no successful requests (errors=%d)\n", errs)
		os.Exit(1)
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	avg := time.Duration(int64(sum) / int64(len(latencies)))
	p95 := latencies[max(int(float64(len(latencies))*0.95)-1, 0)]
	qps := float64(len(latencies)) / totalDur.Seconds()

	fmt.Printf("Requests: %d, Concurrency: %d, Errors: %d\n", len(latencies), concurrency, errs)
	fmt.Printf("Avg latency: %s\n", avg.Truncate(time.Microsecond))
	fmt.Printf("P95 latency: %s\n", p95.Truncate(time.Microsecond))
	fmt.Printf("Total QPS: %.2f\n", qps)
}
