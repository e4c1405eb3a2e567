// Package pngimage implements the PNG recompression driver: it
// decodes a source PNG, re-encodes it through two candidate filter
// strategies that both delegate their compressed-stream generation to
// internal/zopfli, and returns whichever candidate is smaller than the
// original.
package pngimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/cespare/xxhash/v2"

	"github.com/Blobfolio/flaca/internal/zopfli"
)

// ErrOversized is returned when the decoded image exceeds the configured
// pixel-count cap.
var ErrOversized = errors.New("pngimage: pixel count exceeds maxResolution")

// ErrNoImprovement is returned when neither candidate beats the original.
var ErrNoImprovement = errors.New("pngimage: no smaller candidate found")

// ErrLosslessVerificationFailed is returned when the winning candidate
// fails its post-encode pixel comparison against the source. Unlike a
// decode failure on untrusted input, this signals a defect in the
// encoder itself and callers should report it rather than silently
// skip the file.
var ErrLosslessVerificationFailed = errors.New("pngimage: candidate failed lossless verification")

// Options configures one recompression attempt.
type Options struct {
	// MaxResolution caps width*height; the default, 2^32-1, in practice
	// never rejects a real PNG.
	MaxResolution uint64
	ZopfliOptions zopfli.Options
}

// DefaultOptions returns the Options used by the CLI when no overrides
// are given.
func DefaultOptions() Options {
	return Options{
		MaxResolution: (1 << 32) - 1,
		ZopfliOptions: zopfli.DefaultOptions(),
	}
}

// Recompress decodes src as a PNG and returns a smaller re-encoding, or
// ErrNoImprovement if neither candidate filter strategy beats src's
// length. Callers treat ErrOversized and decode errors as "skip this
// file" rather than a hard failure; ErrLosslessVerificationFailed is a
// genuine failure and should be reported, since it means the winning
// candidate was not actually lossless.
func Recompress(src []byte, opts Options) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := uint64(b.Dx()), uint64(b.Dy())
	if w*h > opts.MaxResolution {
		return nil, ErrOversized
	}

	candA, errA := encode(img, filterStrategyConservative, opts.ZopfliOptions)
	candB, errB := encode(img, filterStrategyAggressive, opts.ZopfliOptions)

	best := src
	if errA == nil && len(candA) < len(best) {
		best = candA
	}
	if errB == nil && len(candB) < len(best) {
		best = candB
	}

	if len(best) >= len(src) {
		return nil, ErrNoImprovement
	}

	if err := verifyLossless(src, best); err != nil {
		return nil, err
	}

	return best, nil
}

// fingerprint hashes one buffer; verifyLossless compares the
// fingerprints of src and a candidate to skip re-decoding when the two
// are byte-identical. Recompress only verifies candidates strictly
// shorter than src, so it never takes that shortcut.
func fingerprint(b []byte) uint64 { return xxhash.Sum64(b) }

// verifyLossless re-decodes both buffers and confirms their pixel data
// is bit-identical. Cheap path: identical fingerprints with equal length
// skip the re-decode entirely.
func verifyLossless(src, candidate []byte) error {
	if len(src) == len(candidate) && fingerprint(src) == fingerprint(candidate) {
		return nil
	}

	a, err := png.Decode(bytes.NewReader(src))
	if err != nil {
		return fmt.Errorf("%w: re-decoding source: %v", ErrLosslessVerificationFailed, err)
	}
	b, err := png.Decode(bytes.NewReader(candidate))
	if err != nil {
		return fmt.Errorf("%w: decoding candidate: %v", ErrLosslessVerificationFailed, err)
	}
	if !pixelsEqual(a, b) {
		return fmt.Errorf("%w: pixel data diverges from source", ErrLosslessVerificationFailed)
	}
	return nil
}

func pixelsEqual(a, b image.Image) bool {
	ba, bb := a.Bounds(), b.Bounds()
	if ba.Dx() != bb.Dx() || ba.Dy() != bb.Dy() {
		return false
	}
	for y := 0; y < ba.Dy(); y++ {
		for x := 0; x < ba.Dx(); x++ {
			ar, ag, ab, aa := a.At(ba.Min.X+x, ba.Min.Y+y).RGBA()
			br, bg, bb2, ba2 := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if ar != br || ag != bg || ab != bb2 || aa != ba2 {
				return false
			}
		}
	}
	return true
}
