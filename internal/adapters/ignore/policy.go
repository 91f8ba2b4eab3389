// Package ignore resolves which traversal entries are excluded by ignore files.
//
// Rules come from two sources:
//   - per-directory ignore files, scoped to the directory that holds them
//   - one optional extra file whose rules apply everywhere
//
// Rules are consulted from the highest precedence down and the first rule that
// matches decides. Deeper directories take precedence over their ancestors,
// later files in a directory over earlier ones, later lines over earlier ones,
// and the extra file has the lowest precedence of all.
package ignore

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/zerr"
)

const commentPrefix = "#"

// Rules is an ordered list of patterns, lowest precedence first.
type Rules []gitignore.Pattern

// ParseRules parses ignore-file content. dir holds the path components of the
// directory the rules are scoped to, relative to the traversal root; nil scopes
// the rules to the whole tree.
func ParseRules(content []byte, dir []string) Rules {
	var rules Rules
	for _, line := range bytes.Split(content, []byte("\n")) {
		text := strings.TrimSuffix(string(line), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, commentPrefix) {
			continue
		}
		rules = append(rules, gitignore.ParsePattern(text, dir))
	}
	return rules
}

// LoadRules reads and parses one ignore file.
func LoadRules(path string, dir []string) (Rules, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is an ignore file chosen by the user or found by traversal
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrIgnoreFileReadFailed.Error()), "path", path)
	}
	return ParseRules(data, dir), nil
}

// Policy is the set of ignore rules active during the traversal of one root.
// It is not safe for concurrent use.
type Policy struct {
	enabled bool
	global  Rules
	frames  map[string]Rules
}

// NewPolicy creates a Policy. When enabled is false nothing is ever excluded.
// global holds the rules of the extra ignore file, if any.
func NewPolicy(enabled bool, global Rules) *Policy {
	return &Policy{
		enabled: enabled,
		global:  global,
		frames:  make(map[string]Rules),
	}
}

// Enabled reports whether the policy filters anything at all.
func (p *Policy) Enabled() bool {
	return p.enabled
}

// Push appends rules to the frame of dir. Rules pushed later take precedence.
func (p *Policy) Push(dir []string, rules Rules) {
	if !p.enabled || len(rules) == 0 {
		return
	}
	key := frameKey(dir)
	p.frames[key] = append(p.frames[key], rules...)
}

// Enter loads the ignore files of the directory at absDir, whose components
// relative to the traversal root are dir. A missing ignore file is not an error.
func (p *Policy) Enter(absDir string, dir []string) error {
	if !p.enabled {
		return nil
	}
	for _, name := range domain.IgnoreFileNames() {
		rules, err := LoadRules(filepath.Join(absDir, name), dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		p.Push(dir, rules)
	}
	return nil
}

// Leave discards the frame of dir once its subtree has been traversed.
func (p *Policy) Leave(dir []string) {
	delete(p.frames, frameKey(dir))
}

// Excluded reports whether the entry at path, given as components relative to
// the traversal root, is excluded.
func (p *Policy) Excluded(path []string, isDir bool) bool {
	if !p.enabled || len(path) == 0 {
		return false
	}

	for depth := len(path) - 1; depth >= 0; depth-- {
		if result := matchLast(p.frames[frameKey(path[:depth])], path, isDir); result != gitignore.NoMatch {
			return result == gitignore.Exclude
		}
	}

	return matchLast(p.global, path, isDir) == gitignore.Exclude
}

// matchLast returns the result of the last rule in rules that matches.
func matchLast(rules Rules, path []string, isDir bool) gitignore.MatchResult {
	for i := len(rules) - 1; i >= 0; i-- {
		if result := rules[i].Match(path, isDir); result != gitignore.NoMatch {
			return result
		}
	}
	return gitignore.NoMatch
}

func frameKey(dir []string) string {
	return strings.Join(dir, "/")
}
