package ignore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mdhasher/internal/adapters/ignore"
	"go.trai.ch/mdhasher/internal/core/domain"
)

func split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func rules(dir, content string) ignore.Rules {
	return ignore.ParseRules([]byte(content), split(dir))
}

func TestPolicy_TmpPattern(t *testing.T) {
	p := ignore.NewPolicy(true, nil)
	p.Push(nil, rules("", "*.tmp\n"))

	assert.True(t, p.Excluded(split("a.tmp"), false))
	assert.True(t, p.Excluded(split("sub/deep/b.tmp"), false))
	assert.False(t, p.Excluded(split("b.txt"), false))
}

func TestPolicy_Disabled(t *testing.T) {
	p := ignore.NewPolicy(false, rules("", "*"))
	p.Push(nil, rules("", "*.tmp"))

	assert.False(t, p.Enabled())
	assert.False(t, p.Excluded(split("a.tmp"), false))
	assert.False(t, p.Excluded(split("anything"), true))
}

func TestPolicy_CommentsAndBlankLines(t *testing.T) {
	r := rules("", "# a comment\n\n   \n*.log\r\n")
	require.Len(t, r, 1)

	p := ignore.NewPolicy(true, nil)
	p.Push(nil, r)
	assert.True(t, p.Excluded(split("debug.log"), false))
	assert.False(t, p.Excluded(split("# a comment"), false))
}

func TestPolicy_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		global   string
		frames   map[string][]string
		path     string
		isDir    bool
		excluded bool
	}{
		{
			name:     "deeper negation re-includes",
			frames:   map[string][]string{"": {"*.log"}, "sub": {"!keep.log"}},
			path:     "sub/keep.log",
			excluded: false,
		},
		{
			name:     "deeper negation does not leak to ancestors",
			frames:   map[string][]string{"": {"*.log"}, "sub": {"!keep.log"}},
			path:     "keep.log",
			excluded: true,
		},
		{
			name:     "deeper exclusion overrides shallower negation",
			frames:   map[string][]string{"": {"*.log\n!important.log"}, "sub": {"important.log"}},
			path:     "sub/important.log",
			excluded: true,
		},
		{
			name:     "later file in same directory wins",
			frames:   map[string][]string{"": {"*.dat", "!a.dat"}},
			path:     "a.dat",
			excluded: false,
		},
		{
			name:     "later line in same file wins",
			frames:   map[string][]string{"": {"!a.dat\n*.dat"}},
			path:     "a.dat",
			excluded: true,
		},
		{
			name:     "directory rules override the extra file",
			global:   "*.jpg",
			frames:   map[string][]string{"": {"!a.jpg"}},
			path:     "a.jpg",
			excluded: false,
		},
		{
			name:     "extra file applies when no directory rule matches",
			global:   "*.jpg",
			frames:   map[string][]string{"": {"*.png"}},
			path:     "deep/dir/b.jpg",
			excluded: true,
		},
		{
			name:     "extra file negation cannot undo directory exclusion",
			global:   "!a.png",
			frames:   map[string][]string{"": {"*.png"}},
			path:     "a.png",
			excluded: true,
		},
		{
			name:     "sibling directory rules do not apply",
			frames:   map[string][]string{"a": {"*.txt"}},
			path:     "b/x.txt",
			excluded: false,
		},
		{
			name:     "directory-only pattern matches directory",
			frames:   map[string][]string{"": {"build/"}},
			path:     "build",
			isDir:    true,
			excluded: true,
		},
		{
			name:     "directory-only pattern skips files",
			frames:   map[string][]string{"": {"build/"}},
			path:     "build",
			excluded: false,
		},
		{
			name:     "anchored pattern matches only at its directory",
			frames:   map[string][]string{"sub": {"/x.txt"}},
			path:     "sub/deeper/x.txt",
			excluded: false,
		},
		{
			name:     "anchored pattern matches in its directory",
			frames:   map[string][]string{"sub": {"/x.txt"}},
			path:     "sub/x.txt",
			excluded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ignore.NewPolicy(true, ignore.ParseRules([]byte(tt.global), nil))
			for dir, contents := range tt.frames {
				for _, content := range contents {
					p.Push(split(dir), rules(dir, content))
				}
			}
			assert.Equal(t, tt.excluded, p.Excluded(split(tt.path), tt.isDir))
		})
	}
}

func TestPolicy_Leave(t *testing.T) {
	p := ignore.NewPolicy(true, nil)
	p.Push(split("sub"), rules("sub", "*"))
	require.True(t, p.Excluded(split("sub/a"), false))

	p.Leave(split("sub"))
	assert.False(t, p.Excluded(split("sub/a"), false))
}

func TestPolicy_EnterReadsBothFiles(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, domain.GitIgnoreFileName), []byte("*.bin\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, domain.IgnoreFileName), []byte("!keep.bin\n"), 0o600))

	p := ignore.NewPolicy(true, nil)
	require.NoError(t, p.Enter(tmpDir, nil))

	assert.True(t, p.Excluded(split("drop.bin"), false))
	assert.False(t, p.Excluded(split("keep.bin"), false), ".ignore takes precedence over .gitignore")
}

func TestPolicy_EnterWithoutIgnoreFiles(t *testing.T) {
	p := ignore.NewPolicy(true, nil)
	require.NoError(t, p.Enter(t.TempDir(), nil))
	assert.False(t, p.Excluded(split("a"), false))
}

func TestLoadRules_Missing(t *testing.T) {
	_, err := ignore.LoadRules(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), domain.ErrIgnoreFileReadFailed.Error())
}
