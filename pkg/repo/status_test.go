package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func changesByPath(changes []Change) map[string]ChangeKind {
	out := make(map[string]ChangeKind, len(changes))
	for _, c := range changes {
		out[c.Path] = c.Kind
	}
	return out
}

func TestStatusCleanAfterCommit(t *testing.T) {
	r := newTestRepo(t)
	stageAndCommit(t, r, "a.txt", "content\n", "initial")

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Branch != DefaultBranch || st.Detached {
		t.Errorf("branch: got (%q, detached=%v)", st.Branch, st.Detached)
	}
	if len(st.Staged) != 0 || len(st.Unstaged) != 0 || len(st.Untracked) != 0 {
		t.Errorf("expected clean status, got %+v", st)
	}
}

func TestStatusStagedChanges(t *testing.T) {
	r := newTestRepo(t)
	stageAndCommit(t, r, "kept.txt", "kept\n", "initial")
	stageAndCommit(t, r, "modified.txt", "v1\n", "add modified.txt")

	// Stage a new file, restage a changed one, and unstage a committed
	// one.
	added := writeWorktreeFile(t, r, "added.txt", "new\n")
	changed := writeWorktreeFile(t, r, "modified.txt", "v2\n")
	if err := r.Add([]string{added, changed}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Remove([]string{filepath.Join(r.RootDir, "kept.txt")}, false); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	staged := changesByPath(st.Staged)
	if staged["added.txt"] != ChangeAdded {
		t.Errorf("added.txt: got %v", staged["added.txt"])
	}
	if staged["modified.txt"] != ChangeModified {
		t.Errorf("modified.txt: got %v", staged["modified.txt"])
	}
	if staged["kept.txt"] != ChangeDeleted {
		t.Errorf("kept.txt: got %v", staged["kept.txt"])
	}
	if len(st.Staged) != 3 {
		t.Errorf("staged: got %d changes: %v", len(st.Staged), st.Staged)
	}
}

func TestStatusUnstagedChanges(t *testing.T) {
	r := newTestRepo(t)
	modPath := writeWorktreeFile(t, r, "mod.txt", "before\n")
	delPath := writeWorktreeFile(t, r, "del.txt", "doomed\n")
	if err := r.Add([]string{modPath, delPath}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("initial", testCommitOpts); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := os.WriteFile(modPath, []byte("after\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := os.Remove(delPath); err != nil {
		t.Fatalf("remove: %v", err)
	}

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	unstaged := changesByPath(st.Unstaged)
	if unstaged["mod.txt"] != ChangeModified {
		t.Errorf("mod.txt: got %v", unstaged["mod.txt"])
	}
	if unstaged["del.txt"] != ChangeDeleted {
		t.Errorf("del.txt: got %v", unstaged["del.txt"])
	}
	if len(st.Unstaged) != 2 {
		t.Errorf("unstaged: got %v", st.Unstaged)
	}
}

func TestStatusUntrackedRespectsIgnores(t *testing.T) {
	r := newTestRepo(t)
	stageAndCommit(t, r, "tracked.txt", "t\n", "initial")

	writeWorktreeFile(t, r, "loose.txt", "loose\n")
	writeWorktreeFile(t, r, "debug.log", "noise\n")

	exclude := filepath.Join(r.GritDir, "info", "exclude")
	if err := os.WriteFile(exclude, []byte("*.log\n"), 0o644); err != nil {
		t.Fatalf("write exclude: %v", err)
	}

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(st.Untracked) != 1 || st.Untracked[0] != "loose.txt" {
		t.Errorf("untracked: got %v, want [loose.txt]", st.Untracked)
	}
}

func TestStatusDetachedHead(t *testing.T) {
	r := newTestRepo(t)
	h := stageAndCommit(t, r, "a.txt", "x\n", "initial")

	headPath := filepath.Join(r.GritDir, "HEAD")
	if err := os.WriteFile(headPath, []byte(string(h)+"\n"), 0o644); err != nil {
		t.Fatalf("detach HEAD: %v", err)
	}

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Detached {
		t.Error("Detached not set")
	}
	if st.Branch != string(h) {
		t.Errorf("detached branch field: got %q, want %s", st.Branch, h)
	}
}
