package repo

import (
	"fmt"
	"strings"

	"github.com/gritvcs/grit/pkg/object"
)

// CreateBranch creates a branch ref pointing at target.
func (r *Repo) CreateBranch(name string, target object.Hash, force bool) error {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	if target == "" {
		return fmt.Errorf("create branch: target hash is required")
	}

	refName := "refs/heads/" + name
	if !force {
		if h, err := r.ResolveRef(refName); err != nil {
			return fmt.Errorf("create branch: %w", err)
		} else if h != "" {
			return fmt.Errorf("create branch: branch %q already exists", name)
		}
	}
	if err := r.UpdateRef(refName, target); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// ListBranches returns branch names with their target hashes, sorted.
func (r *Repo) ListBranches() ([]RefListing, error) {
	refs, err := r.ListRefs("heads")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	for i := range refs {
		refs[i].Name = strings.TrimPrefix(refs[i].Name, "heads/")
	}
	return refs, nil
}

func validateRefName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("invalid name %q", name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("invalid name %q", name)
	}
	if strings.ContainsAny(name, " \t\n\r") {
		return fmt.Errorf("invalid name %q", name)
	}
	return nil
}
