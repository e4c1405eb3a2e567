// Package workpool implements a bounded worker pool with a two-stage
// cancellation gate: N general workers plus one reserved lane for GIF
// jobs (the upstream GIF optimizer is not safe to run concurrently with
// itself). Jobs are dispatched in order, each in its own goroutine once
// a slot of its lane's weighted semaphore is free; outcomes are
// aggregated into internal/stats, and a shared atomic interrupt counter
// gates dispatch.
package workpool

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Blobfolio/flaca/internal/candidate"
	"github.com/Blobfolio/flaca/internal/stats"
)

// Job is one unit of dispatch: a path plus the format that determines
// which backend handles it.
type Job struct {
	Path   string
	Format candidate.Format
}

// Pool bounds parallelism to N general workers plus one reserved GIF
// lane.
type Pool struct {
	n         int64
	sem       *semaphore.Weighted
	gifSem    *semaphore.Weighted
	interrupt *int32
	opts      candidate.Options
	stats     *stats.Stats
}

// ResolveWorkerCount turns the CLI's `-j N` value into an actual worker
// count: positive values are used directly, negative values subtract
// from the logical CPU count, and the result is clamped to at least 1.
func ResolveWorkerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	n := runtime.NumCPU() + configured
	if n < 1 {
		n = 1
	}
	return n
}

// New returns a Pool bounding general work to n concurrent jobs (plus
// one dedicated GIF lane), reporting outcomes into st.
func New(n int, opts candidate.Options, st *stats.Stats) *Pool {
	if n < 1 {
		n = 1
	}
	var interrupt int32
	return &Pool{
		n:         int64(n),
		sem:       semaphore.NewWeighted(int64(n)),
		gifSem:    semaphore.NewWeighted(1),
		interrupt: &interrupt,
		opts:      opts,
		stats:     st,
	}
}

// Interrupt increments the shared interrupt counter: the
// first call triggers a graceful drain (queued jobs are skipped but
// in-flight jobs finish), the second and later calls cancel the context
// Run hands to running jobs. Only work that watches that context (the
// external JPEG/GIF backend commands) stops early; candidate.Process
// does not check it between phases, so a PNG job in progress runs to
// completion.
func (p *Pool) Interrupt() {
	interruptAdd(p.interrupt, 1)
}

// interruptLevel reports the current interrupt count (0 = none).
func (p *Pool) interruptLevel() int32 {
	return interruptLoad(p.interrupt)
}

// Run dispatches jobs to workers and blocks until every accepted job has
// completed or the pool has drained under interrupt. It returns the
// Result for every job it actually ran; jobs skipped by a graceful drain
// are omitted entirely rather than reported as failures.
func (p *Pool) Run(parent context.Context, jobs []Job) []candidate.Result {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Second-stage interrupt cancels the context so in-flight jobs that
	// watch ctx.Done() (external backend commands, in particular) abort
	// at their next check rather than running to completion. Jobs that
	// don't poll ctx simply finish naturally.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-watchDone:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if p.interruptLevel() >= 2 {
					cancel()
					return
				}
			}
		}
	}()

	results := make([]candidate.Result, 0, len(jobs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, job := range jobs {
		if p.interruptLevel() >= 1 {
			// Graceful drain: stop pulling new jobs once the first
			// interrupt has been observed.
			break
		}

		lane := p.sem
		if job.Format == candidate.FormatGIF {
			lane = p.gifSem
		}
		if err := lane.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			defer lane.Release(1)

			res := candidate.Process(ctx, job.Path, job.Format, p.opts, p.stats)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(job)
	}

	wg.Wait()
	return results
}
