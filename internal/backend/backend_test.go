package backend

import (
	"context"
	"testing"
)

func TestRecompressEmptyCommand(t *testing.T) {
	_, err := Recompress(context.Background(), nil, []byte("x"))
	if err == nil {
		t.Fatal("expected an error for an empty command line")
	}
}

func TestRecompressEchoesStdin(t *testing.T) {
	// cat is a safe stand-in for the real backends in a hermetic test:
	// it round-trips stdin to stdout without depending on jpegtran or
	// gifsicle being installed.
	out, err := Recompress(context.Background(), []string{"cat"}, []byte("hello"))
	if err != nil {
		t.Fatalf("Recompress: %v", err)
	}
	if string(out) != "hello" {
		t.Fatalf("got %q, want %q", out, "hello")
	}
}

func TestRecompressMissingBinary(t *testing.T) {
	_, err := Recompress(context.Background(), []string{"flaca-backend-does-not-exist"}, []byte("x"))
	if err == nil {
		t.Fatal("expected an error for a missing binary")
	}
}
