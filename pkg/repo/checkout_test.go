package repo

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckoutMaterializesTree(t *testing.T) {
	r := newTestRepo(t)

	a := writeWorktreeFile(t, r, "top.txt", "top\n")
	b := writeWorktreeFile(t, r, "nested/deep/file.txt", "deep\n")
	if err := r.Add([]string{a, b}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("snapshot", testCommitOpts); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "out")
	if err := r.Checkout("HEAD", dest); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	for rel, want := range map[string]string{
		"top.txt":              "top\n",
		"nested/deep/file.txt": "deep\n",
	} {
		data, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("read %s: %v", rel, err)
		}
		if string(data) != want {
			t.Errorf("%s: got %q, want %q", rel, data, want)
		}
	}
}

func TestCheckoutRefusesNonEmptyDir(t *testing.T) {
	r := newTestRepo(t)
	stageAndCommit(t, r, "a.txt", "x\n", "initial")

	dest := t.TempDir()
	if err := os.WriteFile(filepath.Join(dest, "occupied"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := r.Checkout("HEAD", dest); err == nil {
		t.Error("checkout into a non-empty directory accepted")
	}
}

func TestCheckoutExecutablePermission(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	r := newTestRepo(t)

	script := writeWorktreeFile(t, r, "run.sh", "#!/bin/sh\n")
	if err := os.Chmod(script, 0o755); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if err := r.Add([]string{script}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("add script", testCommitOpts); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "out")
	if err := r.Checkout("HEAD", dest); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	info, err := os.Stat(filepath.Join(dest, "run.sh"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode()&0o111 == 0 {
		t.Errorf("executable bit lost: mode %v", info.Mode())
	}
}
