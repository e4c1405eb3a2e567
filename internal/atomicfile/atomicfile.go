// Package atomicfile implements a size-gated, metadata-preserving atomic
// file replace: a file is only ever overwritten with strictly smaller
// content, via a sibling temp file that is fsynced and renamed into
// place so a crash between write and rename always leaves the original
// intact.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrNotSmaller is returned when newBytes is not strictly shorter than
// the file currently on disk; the caller's job is counted "unchanged",
// not an error.
var ErrNotSmaller = errors.New("atomicfile: replacement is not smaller than original")

// Replace overwrites path with newBytes only if newBytes is strictly
// smaller than the current file, preserving the original's mode and
// ownership and, if preserveTimes is set, its atime/mtime. Failure while
// writing or renaming the temp file leaves path untouched.
func Replace(path string, newBytes []byte, preserveTimes bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("atomicfile: stat %s: %w", path, err)
	}
	if int64(len(newBytes)) >= info.Size() {
		return ErrNotSmaller
	}

	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return fmt.Errorf("atomicfile: stat %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".flaca-*.tmp")
	if err != nil {
		return fmt.Errorf("atomicfile: create temp in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(newBytes); err != nil {
		tmp.Close()
		return fmt.Errorf("atomicfile: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("atomicfile: fsync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("atomicfile: close temp: %w", err)
	}

	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("atomicfile: chmod temp: %w", err)
	}

	if err := rename(tmpPath, path); err != nil {
		return fmt.Errorf("atomicfile: rename %s -> %s: %w", tmpPath, path, err)
	}
	cleanup = false

	// Best-effort from here: failures are warnings, not fatal.
	_ = unix.Chown(path, int(stat.Uid), int(stat.Gid))
	if preserveTimes {
		atime := unix.NsecToTimespec(stat.Atim.Nano())
		mtime := unix.NsecToTimespec(stat.Mtim.Nano())
		_ = unix.UtimesNanoAt(unix.AT_FDCWD, path, []unix.Timespec{atime, mtime}, 0)
	}
	return nil
}

// rename performs os.Rename, falling back to a copy-then-remove when the
// temp file and destination are on different devices (EXDEV).
func rename(oldpath, newpath string) error {
	err := os.Rename(oldpath, newpath)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return err
	}
	return copyThenRemove(oldpath, newpath)
}

func copyThenRemove(oldpath, newpath string) error {
	data, err := os.ReadFile(oldpath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(newpath, data, 0o644); err != nil {
		return err
	}
	if f, err := os.Open(newpath); err == nil {
		_ = f.Sync()
		f.Close()
	}
	return os.Remove(oldpath)
}
