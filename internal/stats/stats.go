// Package stats aggregates per-file outcomes across a run: optimized,
// unchanged, skipped, and errored counts.
package stats

import (
	"fmt"
	"sync/atomic"
)

// Stats is safe for concurrent use by multiple workers; each counter is
// an independent atomic int64 so increments never contend with each
// other.
type Stats struct {
	optimized int64
	unchanged int64
	skipped   int64
	errored   int64

	savedBytes int64
}

// New returns a zeroed Stats.
func New() *Stats { return &Stats{} }

// AddOptimized records a file that was rewritten, having saved
// savedBytes (originalSize - newSize).
func (s *Stats) AddOptimized(savedBytes int64) {
	atomic.AddInt64(&s.optimized, 1)
	atomic.AddInt64(&s.savedBytes, savedBytes)
}

// AddUnchanged records a file for which no candidate beat the original.
func (s *Stats) AddUnchanged() { atomic.AddInt64(&s.unchanged, 1) }

// AddSkipped records a file excluded by input-rejection policy (bad
// magic bytes, decode failure, or oversized).
func (s *Stats) AddSkipped() { atomic.AddInt64(&s.skipped, 1) }

// AddErrored records a file that failed during compression or write and
// was left untouched.
func (s *Stats) AddErrored() { atomic.AddInt64(&s.errored, 1) }

// Snapshot is an immutable point-in-time read of the counters.
type Snapshot struct {
	Optimized  int64
	Unchanged  int64
	Skipped    int64
	Errored    int64
	SavedBytes int64
}

// Snapshot atomically reads all counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Optimized:  atomic.LoadInt64(&s.optimized),
		Unchanged:  atomic.LoadInt64(&s.unchanged),
		Skipped:    atomic.LoadInt64(&s.skipped),
		Errored:    atomic.LoadInt64(&s.errored),
		SavedBytes: atomic.LoadInt64(&s.savedBytes),
	}
}

// Total returns the count of files accounted for across all buckets.
func (sn Snapshot) Total() int64 {
	return sn.Optimized + sn.Unchanged + sn.Skipped + sn.Errored
}

// String renders a one-line human summary, e.g. for the CLI's final
// report.
func (sn Snapshot) String() string {
	return fmt.Sprintf(
		"%d optimized, %d unchanged, %d skipped, %d errored (%d bytes saved)",
		sn.Optimized, sn.Unchanged, sn.Skipped, sn.Errored, sn.SavedBytes,
	)
}
