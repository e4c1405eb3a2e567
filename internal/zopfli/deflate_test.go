package zopfli

import (
	"bytes"
	"compress/flate"
	"io"
	"strings"
	"testing"
)

func inflate(t *testing.T, compressed []byte) []byte {
	t.Helper()
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("flate.NewReader failed to inflate: %v", err)
	}
	return out
}

func TestDeflateRoundTripsEmpty(t *testing.T) {
	compressed := Deflate(nil, DefaultOptions())
	got := inflate(t, compressed)
	if len(got) != 0 {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestDeflateRoundTripsShortText(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	compressed := Deflate(data, DefaultOptions())
	got := inflate(t, compressed)
	if string(got) != string(data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

func TestDeflateRoundTripsRepeatedText(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 50)
	compressed := Deflate(data, DefaultOptions())
	got := inflate(t, compressed)
	if !bytes.Equal(got, data) {
		t.Fatalf("round-trip mismatch: got %d bytes, want %d bytes", len(got), len(data))
	}
}

func TestDeflateSingleByteRunCompressesSmall(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 10000)
	compressed := Deflate(data, DefaultOptions())
	if len(compressed) > 30 {
		t.Fatalf("compressed size %d exceeds 30 bytes for a uniform run", len(compressed))
	}
	got := inflate(t, compressed)
	if !bytes.Equal(got, data) {
		t.Fatalf("round-trip mismatch for uniform run: got %d bytes, want %d bytes", len(got), len(data))
	}
}

func TestDeflateRoundTripsBinaryData(t *testing.T) {
	data := make([]byte, 2000)
	seed := uint32(12345)
	for i := range data {
		seed = seed*1664525 + 1013904223
		data[i] = byte(seed >> 24)
	}
	compressed := Deflate(data, DefaultOptions())
	got := inflate(t, compressed)
	if !bytes.Equal(got, data) {
		t.Fatalf("round-trip mismatch for pseudo-random binary data")
	}
}

func TestEffectiveIterationsSizeTiers(t *testing.T) {
	if got := effectiveIterations(1024, Options{}); got != iterationsSmall {
		t.Fatalf("small input: got %d, want %d", got, iterationsSmall)
	}
	if got := effectiveIterations(largeInputThreshold, Options{}); got != iterationsLarge {
		t.Fatalf("input at threshold: got %d, want %d", got, iterationsLarge)
	}
	if got := effectiveIterations(largeInputThreshold-1, Options{}); got != iterationsSmall {
		t.Fatalf("input just below threshold: got %d, want %d", got, iterationsSmall)
	}
}

func TestEffectiveIterationsOverrideClamped(t *testing.T) {
	if got := effectiveIterations(1024, Options{NumIterations: 7}); got != 7 {
		t.Fatalf("override: got %d, want 7", got)
	}
	if got := effectiveIterations(1024, Options{NumIterations: 5000}); got != maxIterationsOverride {
		t.Fatalf("override above cap: got %d, want %d", got, maxIterationsOverride)
	}
	if got := effectiveIterations(1024, Options{NumIterations: -3}); got != minIterations {
		t.Fatalf("negative override: got %d, want %d", got, minIterations)
	}
}

func TestDeflateRoundTripsWithSingleIteration(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 50)
	compressed := Deflate(data, Options{NumIterations: 1})
	got := inflate(t, compressed)
	if !bytes.Equal(got, data) {
		t.Fatalf("round-trip mismatch with a single squeeze iteration")
	}
}

func TestDeflateRoundTripsAcrossMultipleBlocks(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteString(strings.Repeat("abcdefgh", 200))
		b.WriteString(strings.Repeat("xyz", 200))
	}
	data := []byte(b.String())

	compressed := Deflate(data, DefaultOptions())
	got := inflate(t, compressed)
	if !bytes.Equal(got, data) {
		t.Fatalf("round-trip mismatch across a multi-block stream")
	}
}
