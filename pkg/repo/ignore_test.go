package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseIgnoreLines(t *testing.T) {
	text := "# build output\n" +
		"*.o\n" +
		"\n" +
		"!keep.o\n" +
		"\\!literal\n" +
		"/#hashfile\n"

	rules := ParseIgnoreLines(text, nil)
	want := []IgnoreRule{
		{Pattern: "*.o"},
		{Pattern: "keep.o", Negate: true},
		{Pattern: "!literal"},
		{Pattern: "#hashfile"},
	}
	if len(rules) != len(want) {
		t.Fatalf("rules: got %d, want %d: %v", len(rules), len(want), rules)
	}
	for i := range want {
		if rules[i] != want[i] {
			t.Errorf("rule %d: got %+v, want %+v", i, rules[i], want[i])
		}
	}
}

func TestParseIgnoreLinesDirectorySuffix(t *testing.T) {
	probe := func(p string) bool { return p == "build" }
	rules := ParseIgnoreLines("build\nnot-a-dir\n", probe)
	if rules[0].Pattern != "build/**" {
		t.Errorf("directory pattern: got %q, want build/**", rules[0].Pattern)
	}
	if rules[1].Pattern != "not-a-dir" {
		t.Errorf("file pattern: got %q", rules[1].Pattern)
	}
}

func TestIgnoreFirstMatchWins(t *testing.T) {
	ig := &IgnoreRules{}
	ig.AddGlobalGroup([]IgnoreRule{
		{Pattern: "keep.log", Negate: true},
		{Pattern: "*.log"},
	})

	ignored, decided, err := ig.Check("debug.log")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !decided || !ignored {
		t.Errorf("debug.log: got (ignored=%v, decided=%v), want (true, true)", ignored, decided)
	}

	ignored, decided, err = ig.Check("keep.log")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !decided || ignored {
		t.Errorf("keep.log: got (ignored=%v, decided=%v), want (false, true)", ignored, decided)
	}

	_, decided, err = ig.Check("main.go")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if decided {
		t.Error("unmatched path should be undecided")
	}
}

func TestIgnoreScopedNearestDirectoryWins(t *testing.T) {
	ig := &IgnoreRules{}
	ig.SetLocal("", []IgnoreRule{{Pattern: "*.tmp"}})
	ig.SetLocal("src", []IgnoreRule{{Pattern: "src/*.tmp", Negate: true}})

	// Root scope decides for a top-level file.
	ignored, decided, err := ig.Check("scratch.tmp")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !decided || !ignored {
		t.Errorf("scratch.tmp: got (%v, %v), want (true, true)", ignored, decided)
	}

	// The nearer src/ scope overrides the root scope.
	ignored, decided, err = ig.Check("src/keep.tmp")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !decided || ignored {
		t.Errorf("src/keep.tmp: got (%v, %v), want (false, true)", ignored, decided)
	}
}

func TestIgnoreScopedBeforeGlobal(t *testing.T) {
	ig := &IgnoreRules{}
	ig.AddGlobalGroup([]IgnoreRule{{Pattern: "*.cfg"}})
	ig.SetLocal("etc", []IgnoreRule{{Pattern: "etc/*.cfg", Negate: true}})

	ignored, decided, err := ig.Check("etc/app.cfg")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !decided || ignored {
		t.Errorf("scoped negation lost to global rule: (%v, %v)", ignored, decided)
	}
}

func TestIgnoreRejectsAbsolutePath(t *testing.T) {
	ig := &IgnoreRules{}
	if _, _, err := ig.Check("/etc/passwd"); err == nil {
		t.Error("absolute path accepted")
	}
}

func TestLoadIgnoreRulesFromExcludeAndIndex(t *testing.T) {
	r := newTestRepo(t)

	exclude := filepath.Join(r.GritDir, "info", "exclude")
	if err := os.WriteFile(exclude, []byte("*.swp\n"), 0o644); err != nil {
		t.Fatalf("write exclude: %v", err)
	}

	// Staged .gitignore applies from the blob in the store, not the
	// working tree.
	path := writeWorktreeFile(t, r, "sub/.gitignore", "*.gen\n")
	if err := r.Add([]string{path}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ig, err := r.LoadIgnoreRules(func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("LoadIgnoreRules: %v", err)
	}

	ignored, decided, err := ig.Check("editor.swp")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !decided || !ignored {
		t.Errorf("*.swp from exclude file: (%v, %v)", ignored, decided)
	}

	ignored, decided, err = ig.Check("sub/out.gen")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !decided || !ignored {
		t.Errorf("*.gen from staged .gitignore: (%v, %v)", ignored, decided)
	}
}
