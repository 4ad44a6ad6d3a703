package repo

import (
	"fmt"
	"strings"
	"time"

	"github.com/gritvcs/grit/pkg/object"
)

// CreateTag creates a lightweight tag: a ref pointing directly at
// target, with no tag object.
func (r *Repo) CreateTag(name string, target object.Hash, force bool) error {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	if target == "" {
		return fmt.Errorf("create tag: target hash is required")
	}

	refName := "refs/tags/" + name
	if !force {
		if h, err := r.ResolveRef(refName); err != nil {
			return fmt.Errorf("create tag: %w", err)
		} else if h != "" {
			return fmt.Errorf("create tag: tag %q already exists", name)
		}
	}
	if err := r.UpdateRef(refName, target); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// CreateAnnotatedTag writes a tag object pointing at target and a ref
// pointing at the tag object.
func (r *Repo) CreateAnnotatedTag(name string, target object.Hash, tagger, message string, force bool) (object.Hash, error) {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	if target == "" {
		return "", fmt.Errorf("create annotated tag: target hash is required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("create annotated tag: message is required")
	}

	targetType, _, err := r.Store.Read(target)
	if err != nil {
		return "", fmt.Errorf("create annotated tag: read target %s: %w", target, err)
	}

	refName := "refs/tags/" + name
	if !force {
		if h, err := r.ResolveRef(refName); err != nil {
			return "", fmt.Errorf("create annotated tag: %w", err)
		} else if h != "" {
			return "", fmt.Errorf("create annotated tag: tag %q already exists", name)
		}
	}

	if tagger == "" {
		tagger, err = r.AuthorIdent(nil)
		if err != nil {
			tagger = "unknown"
		}
	}
	now := time.Now()
	ident := fmt.Sprintf("%s %d %s", tagger, now.Unix(), formatTimezoneOffset(now))

	tag := object.NewTag(target, targetType, name, ident, []byte(message+"\n"))
	tagHash, err := r.Store.WriteTag(tag)
	if err != nil {
		return "", fmt.Errorf("create annotated tag: write tag object: %w", err)
	}

	if err := r.UpdateRef(refName, tagHash); err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	return tagHash, nil
}

// ListTags returns tag names with their ref targets, sorted.
func (r *Repo) ListTags() ([]RefListing, error) {
	refs, err := r.ListRefs("tags")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	for i := range refs {
		refs[i].Name = strings.TrimPrefix(refs[i].Name, "tags/")
	}
	return refs, nil
}
