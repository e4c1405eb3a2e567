package listfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Blobfolio/flaca/internal/candidate"
)

func TestReadListSkipsBlankAndComments(t *testing.T) {
	r := strings.NewReader("a.png\n\n# comment\nb.jpg\n")
	got, err := ReadList(r)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.png", "b.jpg"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReadListExpandsGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.png", "two.png", "skip.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	r := strings.NewReader(filepath.Join(dir, "*.png") + "\n")
	got, err := ReadList(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 glob matches, got %d: %v", len(got), got)
	}
}

func TestWalkSkipsSymlinksWhenRequested(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.png")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link.png")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	got, err := Walk([]string{dir}, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range got {
		if p == link {
			t.Fatalf("expected symlink %s to be skipped", link)
		}
	}
}

func TestSniffPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.png")
	sig := append([]byte(nil), pngMagic...)
	if err := os.WriteFile(path, sig, 0o644); err != nil {
		t.Fatal(err)
	}

	format, ok, err := Sniff(path)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || format != candidate.FormatPNG {
		t.Fatalf("Sniff = (%v, %v), want (FormatPNG, true)", format, ok)
	}
}

func TestSniffRejectsUnknown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, ok, err := Sniff(path)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected Sniff to reject an unrecognized format")
	}
}
