package listfile

import (
	"bytes"
	"os"

	"github.com/Blobfolio/flaca/internal/candidate"
)

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	gif87Magic = []byte("GIF87a")
	gif89Magic = []byte("GIF89a")
)

// Sniff reads the first bytes of path and returns the format they
// identify. ok is false when the magic bytes match none of the three
// supported formats.
func Sniff(path string) (format candidate.Format, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := f.Read(header)
	if err != nil && n == 0 {
		return 0, false, err
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, pngMagic):
		return candidate.FormatPNG, true, nil
	case bytes.HasPrefix(header, jpegMagic):
		return candidate.FormatJPEG, true, nil
	case bytes.HasPrefix(header, gif87Magic), bytes.HasPrefix(header, gif89Magic):
		return candidate.FormatGIF, true, nil
	default:
		return 0, false, nil
	}
}
