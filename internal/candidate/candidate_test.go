package candidate

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Blobfolio/flaca/internal/pngimage"
	"github.com/Blobfolio/flaca/internal/stats"
)

func writePNGFixture(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 50, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestProcessPNGTerminalState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.png")
	writePNGFixture(t, path)

	st := stats.New()
	opts := Options{PNG: pngimage.DefaultOptions()}
	res := Process(context.Background(), path, FormatPNG, opts, st)

	if res.State != StateDone && res.State != StateNoImprovement {
		t.Fatalf("unexpected terminal state: %v (err=%v)", res.State, res.Err)
	}
	snap := st.Snapshot()
	if snap.Total() != 1 {
		t.Fatalf("expected exactly one file counted, got %d", snap.Total())
	}
}

func TestProcessMissingFileIsSkipped(t *testing.T) {
	st := stats.New()
	res := Process(context.Background(), "/does/not/exist.png", FormatPNG, Options{PNG: pngimage.DefaultOptions()}, st)
	if res.State != StateDone || res.Err == nil {
		t.Fatalf("expected a terminal error state, got %+v", res)
	}
	if st.Snapshot().Skipped != 1 {
		t.Fatal("expected the missing file to be counted as skipped")
	}
}
