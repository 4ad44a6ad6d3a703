package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gritvcs/grit/pkg/object"
)

// DefaultBranch is the branch HEAD points at in a fresh repository.
const DefaultBranch = "master"

// Init creates a new repository at path: the .grit/ directory skeleton,
// a symbolic HEAD, the description file, and the default config. Returns
// an error if a repository already exists there.
func Init(path string) (*Repo, error) {
	gritDir := filepath.Join(path, MetaDirName)

	if info, err := os.Stat(gritDir); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("init: %s exists and is not a directory", gritDir)
		}
		entries, err := os.ReadDir(gritDir)
		if err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
		if len(entries) > 0 {
			return nil, fmt.Errorf("init: repository already exists at %s", gritDir)
		}
	}

	dirs := []string{
		filepath.Join(gritDir, "objects"),
		filepath.Join(gritDir, "branches"),
		filepath.Join(gritDir, "refs", "heads"),
		filepath.Join(gritDir, "refs", "tags"),
		filepath.Join(gritDir, "info"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	files := map[string]string{
		"HEAD":        "ref: refs/heads/" + DefaultBranch + "\n",
		"description": "Unnamed repository; edit this file 'description' to name the repository.\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(gritDir, name), []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("init: write %s: %w", name, err)
		}
	}

	if err := writeDefaultConfig(filepath.Join(gritDir, "config")); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	return &Repo{
		RootDir: path,
		GritDir: gritDir,
		Store:   object.NewStore(gritDir),
	}, nil
}

// Open searches upward from path for a .grit/ directory and opens the
// repository.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gritDir := filepath.Join(cur, MetaDirName)
		info, err := os.Stat(gritDir)
		if err == nil && info.IsDir() {
			return &Repo{
				RootDir: cur,
				GritDir: gritDir,
				Store:   object.NewStore(gritDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a grit repository (or any parent up to /)")
		}
		cur = parent
	}
}

// Head reads HEAD. A symbolic HEAD returns the ref path it points at
// (e.g. "refs/heads/master"); a detached HEAD returns the raw hash
// string.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GritDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")

	if strings.HasPrefix(content, symRefPrefix) {
		return strings.TrimPrefix(content, symRefPrefix), nil
	}
	return content, nil
}

// CurrentBranch returns the branch HEAD points at, or ("", false) for a
// detached HEAD.
func (r *Repo) CurrentBranch() (string, bool, error) {
	head, err := r.Head()
	if err != nil {
		return "", false, err
	}
	if strings.HasPrefix(head, "refs/heads/") {
		return strings.TrimPrefix(head, "refs/heads/"), true, nil
	}
	return "", false, nil
}
