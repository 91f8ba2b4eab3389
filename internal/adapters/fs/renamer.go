package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/mdhasher/internal/core/ports"
	"go.trai.ch/zerr"
)

// Renamer moves files to their content-addressed names.
//
// A Renamer holds no per-file state and may be shared between workers; the
// Digester passed to Process must not be.
type Renamer struct {
	logger ports.Logger
	dryRun bool
	rename func(src, dst string) error
}

// NewRenamer creates a new Renamer. With dryRun set, targets are computed and
// checked but nothing on disk changes.
func NewRenamer(logger ports.Logger, dryRun bool) *Renamer {
	return &Renamer{
		logger: logger,
		dryRun: dryRun,
		rename: renameNoReplace,
	}
}

// TargetPath returns the content-addressed path of the file at path: the digest
// followed by the original extension, in the same directory.
func TargetPath(path, digest string) string {
	return filepath.Join(filepath.Dir(path), digest+extension(filepath.Base(path)))
}

// extension returns the extension of name including the dot. A leading dot
// alone does not start an extension.
func extension(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return ext
}

// Process hashes the candidate with d and renames it to its content-addressed name.
func (r *Renamer) Process(c domain.Candidate, d ports.Digester) domain.Outcome {
	digest, err := hashFile(c.Path, d)
	if err != nil {
		return domain.Failed(c.Path, err)
	}

	target := TargetPath(c.Path, digest)
	if target == filepath.Clean(c.Path) {
		out := domain.Skipped(c.Path, domain.SkipAlreadyNamed)
		out.Digest = digest
		return out
	}

	out := domain.Renamed(c.Path, target, digest)

	targetInfo, err := os.Lstat(target)
	if err == nil {
		return r.replace(c.Path, targetInfo, d, out)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return domain.Failed(c.Path, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", target))
	}

	if r.dryRun {
		out.DryRun = true
		return out
	}

	copied, err := r.move(c.Path, target)
	switch {
	case err == nil:
		out.Copied = copied
		return out
	case errors.Is(err, fs.ErrExist):
		// The target appeared between the check and the move.
		if targetInfo, statErr := os.Lstat(target); statErr == nil {
			return r.replace(c.Path, targetInfo, d, out)
		}
		return domain.Failed(c.Path, zerr.With(zerr.Wrap(domain.ErrTargetExists, "cannot rename"), "target", target))
	default:
		return domain.Failed(c.Path, zerr.With(zerr.Wrap(err, domain.ErrRenameFailed.Error()), "target", target))
	}
}

// replace handles a target name that is already taken. Identical content is
// replaced by the source, anything else is a collision.
func (r *Renamer) replace(src string, targetInfo fs.FileInfo, d ports.Digester, out domain.Outcome) domain.Outcome {
	target := out.NewPath

	if srcInfo, err := os.Lstat(src); err == nil && os.SameFile(srcInfo, targetInfo) {
		skipped := domain.Skipped(src, domain.SkipSameFile)
		skipped.Digest = out.Digest
		return skipped
	}

	if !targetInfo.Mode().IsRegular() {
		return collision(src, target)
	}

	targetDigest, err := hashFile(target, d)
	if err != nil {
		return domain.Failed(src, err)
	}
	if targetDigest != out.Digest {
		return collision(src, target)
	}

	out.Deduplicated = true
	if r.dryRun {
		out.DryRun = true
		return out
	}

	// Source and target share a directory, so this rename is atomic.
	if err := os.Rename(src, target); err != nil {
		return domain.Failed(src, zerr.With(zerr.Wrap(err, domain.ErrRenameFailed.Error()), "target", target))
	}
	r.logger.Debug("replaced identical file", "path", src, "target", target)
	return out
}

// move renames src to dst without clobbering, falling back to an explicit
// copy when the two are on different devices. It reports whether the fallback
// was used.
func (r *Renamer) move(src, dst string) (bool, error) {
	err := r.rename(src, dst)
	if !crossDevice(err) {
		return false, err
	}

	r.logger.Warn("atomic rename not possible across devices, copying instead", "path", src, "target", dst)
	return true, copyAcross(src, dst)
}

func collision(src, target string) domain.Outcome {
	err := zerr.With(zerr.Wrap(domain.ErrCollision, "cannot rename"), "target", target)
	return domain.Failed(src, err)
}

func hashFile(path string, d ports.Digester) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from traversal
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer func() { _ = f.Close() }()

	digest, err := d.Hash(f)
	if err != nil {
		return "", zerr.With(err, "path", path)
	}
	return digest, nil
}
