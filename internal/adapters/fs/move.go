package fs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/zerr"
)

// tempPattern names the staging file of the copy fallback. The leading dot
// keeps it out of walks that do not include hidden entries.
const tempPattern = ".mdhasher-*.tmp"

// crossDevice reports whether err means src and dst live on different devices.
func crossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// linkNoReplace moves src to dst without replacing an existing dst by creating
// a hard link and removing the old name.
func linkNoReplace(src, dst string) error {
	if err := os.Link(src, dst); err != nil {
		if errors.Is(err, fs.ErrExist) || crossDevice(err) {
			return err
		}
		// No hard link support on this file system.
		if _, statErr := os.Lstat(dst); statErr == nil {
			return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
		}
		return os.Rename(src, dst)
	}

	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// copyAcross moves src to dst when no atomic rename between them exists.
// The content is staged next to dst, synced, and compared against the source
// bytes before it is renamed into place. The source is removed last.
func copyAcross(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // Path comes from traversal
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", src)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", src)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), tempPattern)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create staging file"), "dir", filepath.Dir(dst))
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	sourceSum := xxhash.New()
	if _, err = io.Copy(io.MultiWriter(tmp, sourceSum), in); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", src)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to set permissions"), "path", tmpPath)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to sync file"), "path", tmpPath)
	}
	if err = tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close file"), "path", tmpPath)
	}

	copySum, err := checksum(tmpPath)
	if err != nil {
		return err
	}
	if copySum != sourceSum.Sum64() {
		return zerr.With(zerr.Wrap(domain.ErrCopyVerifyFailed, "copy fallback aborted"), "path", src)
	}

	if err = renameNoReplace(tmpPath, dst); err != nil {
		return err
	}

	_ = in.Close()
	if removeErr := os.Remove(src); removeErr != nil {
		// Both names now hold the same bytes; nothing is lost.
		return zerr.With(zerr.Wrap(removeErr, "failed to remove original after copy"), "path", src)
	}
	return nil
}

func checksum(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is our own staging file
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return h.Sum64(), nil
}
