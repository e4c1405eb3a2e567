// Package listfile reads the `-l/--list FILE` input (one path or glob
// pattern per line, FILE or "-" for stdin) and walks directory
// arguments, producing the flat file list the worker pool dispatches
// over.
package listfile

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ReadList reads newline-separated paths/globs from r, skipping blank
// lines and lines starting with '#'. Each non-glob line is passed
// through unchanged; lines containing glob metacharacters are expanded
// against the current working directory via doublestar, which supports
// "**" recursive matching.
func ReadList(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if isGlobPattern(line) {
			matches, err := doublestar.FilepathGlob(line)
			if err != nil {
				return nil, err
			}
			out = append(out, matches...)
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadListFile opens path (or reads stdin if path is "-") and delegates
// to ReadList.
func ReadListFile(path string) ([]string, error) {
	if path == "-" {
		return ReadList(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadList(f)
}

func isGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// Walk expands a mix of file and directory positional arguments into a
// flat list of file paths, honoring skipSymlinks.
func Walk(roots []string, skipSymlinks bool) ([]string, error) {
	var out []string
	for _, root := range roots {
		info, err := os.Lstat(root)
		if err != nil {
			return nil, err
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if skipSymlinks {
				continue
			}
			resolved, err := filepath.EvalSymlinks(root)
			if err != nil {
				return nil, err
			}
			root = resolved
			info, err = os.Stat(root)
			if err != nil {
				return nil, err
			}
		}

		if !info.IsDir() {
			out = append(out, root)
			continue
		}

		err = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			if skipSymlinks && fi.Mode()&os.ModeSymlink != 0 {
				return nil
			}
			out = append(out, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
