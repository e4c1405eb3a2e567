package pngimage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeSourcePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func TestRecompressLossless(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 20), B: 100, A: 255})
		}
	}
	src := encodeSourcePNG(t, img)

	out, err := Recompress(src, DefaultOptions())
	if err != nil && err != ErrNoImprovement {
		t.Fatalf("Recompress: %v", err)
	}
	if err == ErrNoImprovement {
		return
	}

	decoded, derr := png.Decode(bytes.NewReader(out))
	if derr != nil {
		t.Fatalf("decoding recompressed output: %v", derr)
	}
	if !pixelsEqual(img, decoded) {
		t.Fatal("recompressed output is not pixel-identical to source")
	}
}

func TestRecompressOversized(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	src := encodeSourcePNG(t, img)

	_, err := Recompress(src, Options{MaxResolution: 1, ZopfliOptions: DefaultOptions().ZopfliOptions})
	if err != ErrOversized {
		t.Fatalf("expected ErrOversized, got %v", err)
	}
}

func TestRecompressRejectsGarbage(t *testing.T) {
	_, err := Recompress([]byte("not a png"), DefaultOptions())
	if err == nil {
		t.Fatal("expected a decode error for non-PNG input")
	}
}

func TestVerifyLosslessAcceptsIdenticalPixels(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 3))
	src := encodeSourcePNG(t, img)
	candidate := encodeSourcePNG(t, img)

	if err := verifyLossless(src, candidate); err != nil {
		t.Fatalf("verifyLossless on pixel-identical buffers: %v", err)
	}
}

func TestVerifyLosslessDetectsPixelMismatch(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 3, 3))
	b := image.NewGray(image.Rect(0, 0, 3, 3))
	b.SetGray(0, 0, color.Gray{Y: 200})

	src := encodeSourcePNG(t, a)
	candidate := encodeSourcePNG(t, b)

	err := verifyLossless(src, candidate)
	if !errors.Is(err, ErrLosslessVerificationFailed) {
		t.Fatalf("expected ErrLosslessVerificationFailed, got %v", err)
	}
}
