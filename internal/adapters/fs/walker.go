// Package fs provides file system adapters for walking and renaming files.
package fs

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/mdhasher/internal/adapters/ignore"
	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/zerr"
)

// WalkOptions controls which entries a walk yields.
type WalkOptions struct {
	// RespectIgnore enables ignore-file rules.
	RespectIgnore bool
	// Global holds the rules of the extra ignore file.
	Global ignore.Rules
	// Hidden includes dot-files and dot-directories.
	Hidden bool
	// ProcessAll disables the staleness filter.
	ProcessAll bool
	// Cutoff is the oldest modification time still considered recent.
	Cutoff time.Time
	// Exclude lists absolute paths that are never yielded.
	Exclude []string
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields every eligible regular file below roots, in root order.
//
// Every directory is listed completely before any of its entries is yielded.
// Symbolic links are never followed, except that a root naming a directory
// through a link is descended. Overlapping or repeated roots yield each file
// once. A directory that cannot be read is yielded as an error for its path
// and the walk continues with its siblings.
func (w *Walker) Walk(roots []string, opts WalkOptions) iter.Seq2[domain.Candidate, error] {
	return func(yield func(domain.Candidate, error) bool) {
		state := &walkState{
			opts:    opts,
			yield:   yield,
			visited: make(map[string]struct{}),
		}
		for _, root := range roots {
			if !w.walkRoot(filepath.Clean(root), state) {
				return
			}
		}
	}
}

// walkState is shared by all roots of one walk.
type walkState struct {
	opts  WalkOptions
	yield func(domain.Candidate, error) bool
	// visited holds the resolved paths of yielded files and entered directories.
	visited map[string]struct{}
}

// visit records key and reports whether it was new.
func (s *walkState) visit(key string) bool {
	if _, ok := s.visited[key]; ok {
		return false
	}
	s.visited[key] = struct{}{}
	return true
}

func (w *Walker) walkRoot(root string, state *walkState) bool {
	info, err := os.Lstat(root)
	if err != nil {
		return state.yield(domain.Candidate{Path: root}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", root))
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Stat(root)
		if err != nil {
			return state.yield(domain.Candidate{Path: root}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", root))
		}
		// Renaming a link to a file would name the link, not the content.
		if !target.IsDir() {
			return true
		}
		info = target
	}

	// Explicit file roots bypass ignore rules and hidden pruning but not the
	// staleness filter or the guarded files.
	if !info.IsDir() {
		name := filepath.Base(root)
		if !info.Mode().IsRegular() || w.guarded(name, root, state.opts) || !w.recent(info, state.opts) {
			return true
		}
		key := filepath.Join(resolve(filepath.Dir(root)), name)
		if !state.visit(key) {
			return true
		}
		return state.yield(candidate(root, info), nil)
	}

	policy := ignore.NewPolicy(state.opts.RespectIgnore, state.opts.Global)
	return w.walkDir(root, resolve(root), nil, policy, state)
}

func (w *Walker) walkDir(
	dir string,
	key string,
	rel []string,
	policy *ignore.Policy,
	state *walkState,
) bool {
	if !state.visit(key) {
		return true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return state.yield(domain.Candidate{Path: dir}, zerr.With(zerr.Wrap(err, domain.ErrReadDirFailed.Error()), "path", dir))
	}

	if err := policy.Enter(dir, rel); err != nil {
		if !state.yield(domain.Candidate{Path: dir}, err) {
			return false
		}
	}
	defer policy.Leave(rel)

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		childKey := filepath.Join(key, name)
		isDir := entry.IsDir()

		if w.pruned(name, path, isDir, state.opts) {
			continue
		}

		childRel := append(rel[:len(rel):len(rel)], name)
		if policy.Excluded(childRel, isDir) {
			continue
		}

		if isDir {
			if !w.walkDir(path, childKey, childRel, policy, state) {
				return false
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Removed between listing and stat.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if !state.yield(domain.Candidate{Path: path}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)) {
				return false
			}
			continue
		}

		if !w.recent(info, state.opts) || !state.visit(childKey) {
			continue
		}

		if !state.yield(candidate(path, info), nil) {
			return false
		}
	}

	return true
}

// pruned reports whether an entry is skipped regardless of ignore rules.
func (w *Walker) pruned(name, path string, isDir bool, opts WalkOptions) bool {
	if isDir && name == domain.GitDirName {
		return true
	}
	if !opts.Hidden && strings.HasPrefix(name, ".") {
		return true
	}
	return !isDir && w.guarded(name, path, opts)
}

// guarded reports whether a file is never renamed: ignore files and the
// paths in opts.Exclude.
func (w *Walker) guarded(name, path string, opts WalkOptions) bool {
	if slices.Contains(domain.IgnoreFileNames(), name) {
		return true
	}
	for _, excluded := range opts.Exclude {
		if filepath.Base(excluded) == name && samePath(path, excluded) {
			return true
		}
	}
	return false
}

// resolve returns the absolute form of path with symbolic links evaluated,
// falling back to the absolute form alone.
func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func (w *Walker) recent(info fs.FileInfo, opts WalkOptions) bool {
	return opts.ProcessAll || !domain.IsStale(info.ModTime(), opts.Cutoff)
}

func candidate(path string, info fs.FileInfo) domain.Candidate {
	return domain.Candidate{Path: path, ModTime: info.ModTime(), Size: info.Size()}
}
