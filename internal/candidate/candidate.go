// Package candidate implements the per-file candidate comparator and
// its state machine: for one file it invokes the format-appropriate
// backend, keeps whichever of {candidate, original} is smaller, and
// calls atomicfile.Replace when the candidate wins.
package candidate

import (
	"context"
	"errors"
	"os"

	"github.com/Blobfolio/flaca/internal/atomicfile"
	"github.com/Blobfolio/flaca/internal/backend"
	"github.com/Blobfolio/flaca/internal/pngimage"
	"github.com/Blobfolio/flaca/internal/stats"
)

// Format identifies which backend handles a file.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatGIF
)

// State is one node of the per-file state machine.
type State int

const (
	StateQueued State = iota
	StateReading
	StateDecoding
	StateSkipped
	StateCompressing
	StateComparing
	StateWriting
	StateNoImprovement
	StateDone
)

// Options bundles the per-run knobs the comparator needs.
type Options struct {
	PNG           pngimage.Options
	PreserveTimes bool
}

// Result records the terminal outcome of one file.
type Result struct {
	Path         string
	Format       Format
	State        State
	Err          error
	OriginalSize int
	NewSize      int
}

// Process runs the full per-file pipeline: read, compress via the
// format's backend, compare, and atomically write if smaller.
// It never returns an error itself — all failures are folded into
// Result, since every error is scoped to one file.
func Process(ctx context.Context, path string, format Format, opts Options, st *stats.Stats) Result {
	res := Result{Path: path, Format: format, State: StateReading}

	src, err := os.ReadFile(path)
	if err != nil {
		res.State = StateDone
		res.Err = err
		st.AddSkipped()
		return res
	}
	res.OriginalSize = len(src)

	res.State = StateCompressing
	candidateBytes, err := compress(ctx, format, src, opts)
	if err != nil {
		if errors.Is(err, errSkip) {
			res.State = StateSkipped
			st.AddSkipped()
			return res
		}
		res.State = StateDone
		res.Err = err
		st.AddErrored()
		return res
	}

	res.State = StateComparing
	if candidateBytes == nil || len(candidateBytes) >= len(src) {
		res.State = StateNoImprovement
		st.AddUnchanged()
		return res
	}
	res.NewSize = len(candidateBytes)

	res.State = StateWriting
	if err := atomicfile.Replace(path, candidateBytes, opts.PreserveTimes); err != nil {
		if errors.Is(err, atomicfile.ErrNotSmaller) {
			res.State = StateNoImprovement
			st.AddUnchanged()
			return res
		}
		res.State = StateDone
		res.Err = err
		st.AddErrored()
		return res
	}

	res.State = StateDone
	st.AddOptimized(int64(res.OriginalSize - res.NewSize))
	return res
}

// errSkip marks a format-specific "this input should be skipped, not
// treated as an error" outcome.
var errSkip = errors.New("candidate: input rejected")

func compress(ctx context.Context, format Format, src []byte, opts Options) ([]byte, error) {
	switch format {
	case FormatPNG:
		out, err := pngimage.Recompress(src, opts.PNG)
		if err != nil {
			if errors.Is(err, pngimage.ErrNoImprovement) {
				return nil, nil
			}
			if errors.Is(err, pngimage.ErrOversized) {
				return nil, errSkip
			}
			if errors.Is(err, pngimage.ErrLosslessVerificationFailed) {
				// An encoder defect, not a bad-input condition: report it
				// rather than silently skipping the file.
				return nil, err
			}
			return nil, errSkip
		}
		return out, nil
	case FormatJPEG:
		out, err := backend.JPEG(ctx, src)
		if err != nil {
			// External backend failure falls back to "no improvement"
			// rather than an error.
			return nil, nil
		}
		return out, nil
	case FormatGIF:
		out, err := backend.GIF(ctx, src)
		if err != nil {
			return nil, nil
		}
		return out, nil
	default:
		return nil, errSkip
	}
}
