package fs_test

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mdhasher/internal/adapters/fs"
	"go.trai.ch/mdhasher/internal/adapters/ignore"
	"go.trai.ch/mdhasher/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// collect runs a walk and returns the yielded paths relative to root, sorted.
func collect(t *testing.T, root string, opts fs.WalkOptions) (files []string, errs []error) {
	t.Helper()
	for c, err := range fs.NewWalker().Walk([]string{root}, opts) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rel, relErr := filepath.Rel(root, c.Path)
		require.NoError(t, relErr)
		files = append(files, filepath.ToSlash(rel))
	}
	sort.Strings(files)
	return files, errs
}

func allOptions() fs.WalkOptions {
	return fs.WalkOptions{RespectIgnore: true, ProcessAll: true}
}

func TestWalker_IgnoresTmpFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, domain.GitIgnoreFileName), "*.tmp\n")
	writeFile(t, filepath.Join(tmpDir, "a.tmp"), "a")
	writeFile(t, filepath.Join(tmpDir, "b.txt"), "b")

	files, errs := collect(t, tmpDir, allOptions())

	assert.Empty(t, errs)
	assert.Equal(t, []string{"b.txt"}, files)
}

func TestWalker_ExtraIgnoreFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.tmp"), "a")
	writeFile(t, filepath.Join(tmpDir, "sub", "c.tmp"), "c")
	writeFile(t, filepath.Join(tmpDir, "b.txt"), "b")

	opts := allOptions()
	opts.Global = ignore.ParseRules([]byte("*.tmp"), nil)

	files, _ := collect(t, tmpDir, opts)
	assert.Equal(t, []string{"b.txt"}, files)
}

func TestWalker_NoIgnore(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, domain.IgnoreFileName), "*.tmp\n")
	writeFile(t, filepath.Join(tmpDir, "a.tmp"), "a")
	writeFile(t, filepath.Join(tmpDir, "b.txt"), "b")

	opts := allOptions()
	opts.RespectIgnore = false
	opts.Global = ignore.ParseRules([]byte("*.txt"), nil)

	files, _ := collect(t, tmpDir, opts)
	assert.Equal(t, []string{"a.tmp", "b.txt"}, files)
}

func TestWalker_NestedIgnoreFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, domain.GitIgnoreFileName), "*.log\nbuild/\n")
	writeFile(t, filepath.Join(tmpDir, "keep", domain.IgnoreFileName), "!important.log\n")
	writeFile(t, filepath.Join(tmpDir, "root.log"), "1")
	writeFile(t, filepath.Join(tmpDir, "keep", "important.log"), "2")
	writeFile(t, filepath.Join(tmpDir, "keep", "other.log"), "3")
	writeFile(t, filepath.Join(tmpDir, "build", "out.bin"), "4")
	writeFile(t, filepath.Join(tmpDir, "other", "important.log"), "5")

	files, _ := collect(t, tmpDir, allOptions())
	assert.Equal(t, []string{"keep/important.log"}, files)
}

func TestWalker_SkipsGitAndHidden(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git")
	writeFile(t, filepath.Join(tmpDir, ".cache", "entry"), "cache")
	writeFile(t, filepath.Join(tmpDir, ".profile"), "profile")
	writeFile(t, filepath.Join(tmpDir, domain.GitIgnoreFileName), "")
	writeFile(t, filepath.Join(tmpDir, "src", "main.go"), "package main")

	t.Run("default", func(t *testing.T) {
		files, _ := collect(t, tmpDir, allOptions())
		assert.Equal(t, []string{"src/main.go"}, files)
	})

	t.Run("hidden", func(t *testing.T) {
		opts := allOptions()
		opts.Hidden = true
		files, _ := collect(t, tmpDir, opts)
		assert.Equal(t, []string{".cache/entry", ".profile", "src/main.go"}, files)
	})
}

func TestWalker_Staleness(t *testing.T) {
	tmpDir := t.TempDir()
	now := time.Now().Truncate(time.Second)
	window := time.Hour
	cutoff := now.Add(-window)

	old := filepath.Join(tmpDir, "old.jpg")
	edge := filepath.Join(tmpDir, "edge.jpg")
	fresh := filepath.Join(tmpDir, "fresh.jpg")
	writeFile(t, old, "old")
	writeFile(t, edge, "edge")
	writeFile(t, fresh, "fresh")
	require.NoError(t, os.Chtimes(old, cutoff.Add(-time.Second), cutoff.Add(-time.Second)))
	require.NoError(t, os.Chtimes(edge, cutoff, cutoff))
	require.NoError(t, os.Chtimes(fresh, now, now))

	t.Run("stale files are skipped", func(t *testing.T) {
		files, _ := collect(t, tmpDir, fs.WalkOptions{Cutoff: cutoff})
		assert.Equal(t, []string{"edge.jpg", "fresh.jpg"}, files)
	})

	t.Run("process all includes stale files", func(t *testing.T) {
		files, _ := collect(t, tmpDir, fs.WalkOptions{Cutoff: cutoff, ProcessAll: true})
		assert.Equal(t, []string{"edge.jpg", "fresh.jpg", "old.jpg"}, files)
	})

	t.Run("candidate carries metadata", func(t *testing.T) {
		for c, err := range fs.NewWalker().Walk([]string{fresh}, fs.WalkOptions{Cutoff: cutoff}) {
			require.NoError(t, err)
			assert.Equal(t, fresh, c.Path)
			assert.Equal(t, int64(len("fresh")), c.Size)
			assert.True(t, c.ModTime.Equal(now))
		}
	})
}

func TestWalker_DoesNotFollowSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "dir", "file.txt"), "x")
	require.NoError(t, os.Symlink(tmpDir, filepath.Join(tmpDir, "dir", "loop")))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "dir", "file.txt"), filepath.Join(tmpDir, "link.txt")))

	files, errs := collect(t, tmpDir, allOptions())

	assert.Empty(t, errs)
	assert.Equal(t, []string{"dir/file.txt"}, files)
}

func TestWalker_FileRoot(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "photo.tmp")
	writeFile(t, filepath.Join(tmpDir, domain.GitIgnoreFileName), "*.tmp\n")
	writeFile(t, file, "x")

	var got []string
	for c, err := range fs.NewWalker().Walk([]string{file}, allOptions()) {
		require.NoError(t, err)
		got = append(got, c.Path)
	}
	assert.Equal(t, []string{file}, got)
}

func TestWalker_SymlinkFileRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "real.txt")
	link := filepath.Join(tmpDir, "link.txt")
	writeFile(t, target, "x")
	require.NoError(t, os.Symlink(target, link))

	var got []string
	for c, err := range fs.NewWalker().Walk([]string{link}, allOptions()) {
		require.NoError(t, err)
		got = append(got, c.Path)
	}
	assert.Empty(t, got)
}

func TestWalker_SymlinkDirectoryRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "photos", "a.jpg"), "a")
	link := filepath.Join(tmpDir, "album")
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "photos"), link))

	var got []string
	for c, err := range fs.NewWalker().Walk([]string{link, filepath.Join(tmpDir, "photos")}, allOptions()) {
		require.NoError(t, err)
		got = append(got, c.Path)
	}
	assert.Equal(t, []string{filepath.Join(link, "a.jpg")}, got)
}

func TestWalker_OverlappingRootsYieldOnce(t *testing.T) {
	tests := []struct {
		name  string
		roots func(root string) []string
	}{
		{
			name:  "parent then child",
			roots: func(root string) []string { return []string{root, filepath.Join(root, "sub")} },
		},
		{
			name:  "child then parent",
			roots: func(root string) []string { return []string{filepath.Join(root, "sub"), root} },
		},
		{
			name:  "repeated root",
			roots: func(root string) []string { return []string{root, root} },
		},
		{
			name:  "file inside a directory root",
			roots: func(root string) []string { return []string{root, filepath.Join(root, "sub", "a.txt")} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeFile(t, filepath.Join(tmpDir, "sub", "a.txt"), "a")

			var got []string
			for c, err := range fs.NewWalker().Walk(tt.roots(tmpDir), allOptions()) {
				require.NoError(t, err)
				got = append(got, c.Path)
			}
			assert.Equal(t, []string{filepath.Join(tmpDir, "sub", "a.txt")}, got)
		})
	}
}

func TestWalker_GuardedFileRoots(t *testing.T) {
	tmpDir := t.TempDir()
	extra := filepath.Join(tmpDir, "rules.txt")
	gitignore := filepath.Join(tmpDir, domain.GitIgnoreFileName)
	writeFile(t, extra, "*.tmp")
	writeFile(t, gitignore, "*.log")

	opts := allOptions()
	opts.Exclude = []string{extra}

	var got []string
	for c, err := range fs.NewWalker().Walk([]string{extra, gitignore}, opts) {
		require.NoError(t, err)
		got = append(got, c.Path)
	}
	assert.Empty(t, got)
}

func TestWalker_MultipleRootsInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "a.txt"), "a")
	writeFile(t, filepath.Join(second, "b.txt"), "b")

	var got []string
	for c, err := range fs.NewWalker().Walk([]string{second, first}, allOptions()) {
		require.NoError(t, err)
		got = append(got, c.Path)
	}
	assert.Equal(t, []string{filepath.Join(second, "b.txt"), filepath.Join(first, "a.txt")}, got)
}

func TestWalker_Exclude(t *testing.T) {
	tmpDir := t.TempDir()
	extra := filepath.Join(tmpDir, "rules.txt")
	writeFile(t, extra, "*.tmp")
	writeFile(t, filepath.Join(tmpDir, "b.txt"), "b")

	opts := allOptions()
	opts.Exclude = []string{extra}

	files, _ := collect(t, tmpDir, opts)
	assert.Equal(t, []string{"b.txt"}, files)
}

func TestWalker_UnreadableDirectoryContinues(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	tmpDir := t.TempDir()
	locked := filepath.Join(tmpDir, "a-locked")
	writeFile(t, filepath.Join(locked, "secret.txt"), "s")
	writeFile(t, filepath.Join(tmpDir, "b.txt"), "b")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	files, errs := collect(t, tmpDir, allOptions())

	assert.Equal(t, []string{"b.txt"}, files)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), domain.ErrReadDirFailed.Error())
}

func TestWalker_StopsWhenConsumerBreaks(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(tmpDir, name, "file.txt"), name)
	}

	count := 0
	for range fs.NewWalker().Walk([]string{tmpDir}, allOptions()) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestWalker_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	var errs []error
	for _, err := range fs.NewWalker().Walk([]string{missing}, allOptions()) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
}
