package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danwakefield/fnmatch"
)

// IgnoreRule is a single glob rule. A negated rule forces "not ignored"
// when it matches.
type IgnoreRule struct {
	Pattern string
	Negate  bool
}

// IgnoreRules holds the layered rule sets used to filter untracked
// files: global rule groups (repository exclude file, then the user's
// global ignore file) and per-directory rules from the .gitignore files
// recorded in the staging index.
type IgnoreRules struct {
	global [][]IgnoreRule
	local  map[string][]IgnoreRule // keyed by slash-path of the directory, "" = root
}

// ParseIgnoreLines parses ignore rules from text, one pattern per line.
// Blank lines and #-comments are skipped; a leading ! negates; a leading
// \ or / escapes a pattern that would otherwise be special. A pattern
// naming an existing directory (per dirProbe) gets an implicit "/**"
// suffix so it covers everything beneath it.
func ParseIgnoreLines(text string, dirProbe func(string) bool) []IgnoreRule {
	if dirProbe == nil {
		dirProbe = func(string) bool { return false }
	}

	var rules []IgnoreRule
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		negate := false
		switch line[0] {
		case '!':
			negate = true
			line = line[1:]
		case '\\', '/':
			line = line[1:]
		}
		if line == "" {
			continue
		}

		pattern := line
		if dirProbe(pattern) {
			pattern += "/**"
		}
		rules = append(rules, IgnoreRule{Pattern: pattern, Negate: negate})
	}
	return rules
}

// LoadIgnoreRules assembles the full rule set for the repository:
// info/exclude, the user's global ignore file, and every .gitignore blob
// recorded in the staging index (read from the object store, so the
// staged rules apply, not unstaged edits).
func (r *Repo) LoadIgnoreRules(env EnvLookup) (*IgnoreRules, error) {
	if env == nil {
		env = OSEnv
	}

	ig := &IgnoreRules{local: make(map[string][]IgnoreRule)}
	probe := func(pattern string) bool {
		info, err := os.Stat(filepath.Join(r.RootDir, filepath.FromSlash(pattern)))
		return err == nil && info.IsDir()
	}

	globalFiles := []string{filepath.Join(r.GritDir, "info", "exclude")}
	if dir, ok := env("XDG_CONFIG_HOME"); ok && dir != "" {
		globalFiles = append(globalFiles, filepath.Join(dir, "grit", "ignore"))
	} else if home, err := os.UserHomeDir(); err == nil {
		globalFiles = append(globalFiles, filepath.Join(home, ".config", "grit", "ignore"))
	}
	for _, path := range globalFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("load ignore rules: %w", err)
		}
		if rules := ParseIgnoreLines(string(data), probe); len(rules) > 0 {
			ig.global = append(ig.global, rules)
		}
	}

	x, err := r.ReadIndex()
	if err != nil {
		return nil, fmt.Errorf("load ignore rules: %w", err)
	}
	for _, e := range x.Entries {
		if filepath.Base(e.Name) != ".gitignore" {
			continue
		}
		blob, err := r.Store.ReadBlob(e.Hash)
		if err != nil {
			return nil, fmt.Errorf("load ignore rules: %q: %w", e.Name, err)
		}
		ig.local[parentDir(e.Name)] = ParseIgnoreLines(string(blob.Data), probe)
	}

	return ig, nil
}

// AddGlobalGroup registers an extra global rule group, evaluated after
// the groups already loaded.
func (ig *IgnoreRules) AddGlobalGroup(rules []IgnoreRule) {
	ig.global = append(ig.global, rules)
}

// SetLocal registers the rule list for a directory (slash path, "" for
// the repository root).
func (ig *IgnoreRules) SetLocal(dir string, rules []IgnoreRule) {
	if ig.local == nil {
		ig.local = make(map[string][]IgnoreRule)
	}
	ig.local[dir] = rules
}

// checkRules evaluates one ordered rule list; the first matching rule
// decides. Returns (ignored, decided).
func checkRules(rules []IgnoreRule, path string) (bool, bool) {
	for _, rule := range rules {
		if fnmatch.Match(rule.Pattern, path, 0) {
			return !rule.Negate, true
		}
	}
	return false, false
}

// Check evaluates a repository-relative slash path. Scoped rules are
// consulted first: ancestors from nearest to furthest, stopping at the
// first directory whose rule list decides. Global groups follow, in
// load order. Returns (ignored, decided); an undecided path is treated
// by callers as not ignored.
func (ig *IgnoreRules) Check(path string) (bool, bool, error) {
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return false, false, fmt.Errorf("check ignore: path %q must be repository-relative", path)
	}

	if ignored, decided := ig.checkScoped(path); decided {
		return ignored, true, nil
	}
	ignored, decided := ig.checkGlobal(path)
	return ignored, decided, nil
}

func (ig *IgnoreRules) checkScoped(path string) (bool, bool) {
	for dir := parentDir(path); ; dir = parentDir(dir) {
		if rules, ok := ig.local[dir]; ok {
			if ignored, decided := checkRules(rules, path); decided {
				return ignored, true
			}
		}
		if dir == "" {
			return false, false
		}
	}
}

func (ig *IgnoreRules) checkGlobal(path string) (bool, bool) {
	for _, rules := range ig.global {
		if ignored, decided := checkRules(rules, path); decided {
			return ignored, true
		}
	}
	return false, false
}

// parentDir returns the slash-path parent of a slash path, "" at the
// root.
func parentDir(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return ""
	}
	return p[:i]
}
