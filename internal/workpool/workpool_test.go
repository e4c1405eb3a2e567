package workpool

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Blobfolio/flaca/internal/candidate"
	"github.com/Blobfolio/flaca/internal/pngimage"
	"github.com/Blobfolio/flaca/internal/stats"
)

func TestResolveWorkerCount(t *testing.T) {
	if got := ResolveWorkerCount(4); got != 4 {
		t.Fatalf("ResolveWorkerCount(4) = %d, want 4", got)
	}
	if got := ResolveWorkerCount(-1000); got != 1 {
		t.Fatalf("ResolveWorkerCount(-1000) = %d, want 1 (clamped)", got)
	}
}

func TestRunProcessesEveryJob(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 3; i++ {
		p := filepath.Join(dir, "missing.png")
		paths = append(paths, p)
	}
	st := stats.New()
	pool := New(2, candidate.Options{PNG: pngimage.DefaultOptions()}, st)

	var jobs []Job
	for _, p := range paths {
		jobs = append(jobs, Job{Path: p, Format: candidate.FormatPNG})
	}

	results := pool.Run(context.Background(), jobs)
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
}

func TestInterruptStopsDispatch(t *testing.T) {
	st := stats.New()
	pool := New(1, candidate.Options{PNG: pngimage.DefaultOptions()}, st)
	pool.Interrupt()

	jobs := []Job{{Path: "/nonexistent/a.png", Format: candidate.FormatPNG}}
	results := pool.Run(context.Background(), jobs)
	if len(results) != 0 {
		t.Fatalf("expected a graceful drain to skip all queued jobs, got %d results", len(results))
	}
}
