// Package backend wraps the external JPEG and GIF re-compressors as
// opaque byte-in/byte-out functions: the JPEG path shells out to a
// jpegtran-equivalent with trellis quantization, and the
// GIF path shells out to a Gifsicle-equivalent running its level-3
// optimizer. Neither tool's internals are reimplemented here.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// JPEGCommand is the external trellis-quantizing jpegtran-equivalent.
// Overridable for testing; defaults to "jpegtran".
var JPEGCommand = []string{"jpegtran", "-copy", "none", "-optimize", "-perfect"}

// GIFCommand is the external Gifsicle-equivalent's level-3 optimizer.
// Overridable for testing; defaults to "gifsicle".
var GIFCommand = []string{"gifsicle", "-O3"}

// Recompress runs cmdline (argv[0] plus flags) with src on stdin and
// returns stdout, treating any nonzero exit or stderr-reporting failure
// as a recoverable error: the caller falls back to the original bytes.
func Recompress(ctx context.Context, cmdline []string, src []byte) ([]byte, error) {
	if len(cmdline) == 0 {
		return nil, fmt.Errorf("backend: empty command line")
	}
	cmd := exec.CommandContext(ctx, cmdline[0], cmdline[1:]...)
	cmd.Stdin = bytes.NewReader(src)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("backend: %s: %w: %s", cmdline[0], err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// JPEG re-compresses a JPEG source. On any failure it returns the error
// unchanged; the candidate comparator falls back to src.
func JPEG(ctx context.Context, src []byte) ([]byte, error) {
	return Recompress(ctx, JPEGCommand, src)
}

// GIF re-compresses a GIF source. Callers must serialize calls to GIF
// through the worker pool's reserved single lane: the upstream
// tool is not safe to invoke concurrently from the same process in the
// general case, and the pool enforces this rather than this package.
func GIF(ctx context.Context, src []byte) ([]byte, error) {
	return Recompress(ctx, GIFCommand, src)
}
