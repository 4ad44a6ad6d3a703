package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gritvcs/grit/pkg/object"
)

const symRefPrefix = "ref: "

// maxIndirection bounds symbolic-ref chains and tag dereference chains.
// Exceeding it means a malformed or cyclic repository.
var ErrTooManyIndirections = errors.New("too many levels of indirection")

const maxIndirection = 10

const (
	refLockRetryDelay = 5 * time.Millisecond
	refLockWaitLimit  = 2 * time.Second
)

// ResolveRef resolves a ref path (e.g. "refs/heads/master" or "HEAD") to
// an object hash, following "ref: " symbolic chains. A missing ref file
// resolves to the empty hash with no error: that is the normal state of
// HEAD on a branch with no commits yet.
func (r *Repo) ResolveRef(refPath string) (object.Hash, error) {
	return r.resolveRefDepth(refPath, 0)
}

func (r *Repo) resolveRefDepth(refPath string, depth int) (object.Hash, error) {
	if depth > maxIndirection {
		return "", fmt.Errorf("resolve ref %q: %w", refPath, ErrTooManyIndirections)
	}

	data, err := os.ReadFile(filepath.Join(r.GritDir, filepath.FromSlash(refPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("resolve ref %q: %w", refPath, err)
	}

	content := strings.TrimRight(string(data), "\n")
	if strings.HasPrefix(content, symRefPrefix) {
		return r.resolveRefDepth(strings.TrimPrefix(content, symRefPrefix), depth+1)
	}
	return object.Hash(strings.TrimSpace(content)), nil
}

// UpdateRef writes a hash to the named ref file under the metadata
// directory, taking a lockfile and renaming it into place. Parent
// directories are created as needed.
func (r *Repo) UpdateRef(name string, h object.Hash) error {
	refPath := filepath.Join(r.GritDir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireRefLock(lockPath)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", name, err)
	}
	cleanupLock := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanupLock {
			_ = os.Remove(lockPath)
		}
	}()

	if _, err := lockFile.WriteString(string(h) + "\n"); err != nil {
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := lockFile.Sync(); err != nil {
		return fmt.Errorf("update ref %q: sync: %w", name, err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}
	cleanupLock = false
	return nil
}

func acquireRefLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(refLockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if os.IsExist(err) {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
			}
			time.Sleep(refLockRetryDelay)
			continue
		}
		return nil, err
	}
}

// DeleteRef removes a ref file.
func (r *Repo) DeleteRef(name string) error {
	if err := os.Remove(filepath.Join(r.GritDir, filepath.FromSlash(name))); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete ref: %q does not exist", name)
		}
		return fmt.Errorf("delete ref %q: %w", name, err)
	}
	return nil
}

// RefListing is one resolved ref for display, ordered by name.
type RefListing struct {
	Name string // relative to refs/, e.g. "heads/master"
	Hash object.Hash
}

// ListRefs lists references under refs/, fully resolved (symbolic refs
// are followed), optionally restricted to a prefix such as "tags".
func (r *Repo) ListRefs(prefix string) ([]RefListing, error) {
	root := filepath.Join(r.GritDir, "refs")
	dir := root
	if strings.TrimSpace(prefix) != "" {
		dir = filepath.Join(root, filepath.FromSlash(prefix))
	}

	var refs []RefListing
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(path, ".lock") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		h, err := r.ResolveRef("refs/" + name)
		if err != nil {
			return err
		}
		refs = append(refs, RefListing{Name: name, Hash: h})
		return nil
	})
	if os.IsNotExist(err) {
		return refs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}
