package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// TreeEntry is one entry in a tree object: a six-digit octal mode, a
// path segment relative to the tree, and the hash of the referenced
// object. The high two mode digits encode the file type.
type TreeEntry struct {
	Mode string // six octal digits, zero-padded
	Path string
	Hash Hash
}

// FileType derives the entry's file type from its mode.
func (e *TreeEntry) FileType() (FileType, error) {
	if len(e.Mode) != 6 {
		return 0, formatErrorf("invalid mode %q", e.Mode)
	}
	return FileTypeFromOctal(e.Mode[:2])
}

// NewTreeEntry validates and normalizes a tree entry, left-padding the
// mode to six digits.
func NewTreeEntry(mode, path string, h Hash) (TreeEntry, error) {
	if len(mode) > 6 {
		return TreeEntry{}, formatErrorf("invalid mode %q", mode)
	}
	mode = strings.Repeat("0", 6-len(mode)) + mode
	if _, err := FileTypeFromOctal(mode[:2]); err != nil {
		return TreeEntry{}, err
	}
	return TreeEntry{Mode: mode, Path: path, Hash: h}, nil
}

// Tree describes one directory snapshot as a list of entries.
type Tree struct {
	Entries []TreeEntry
}

// Insert appends an entry. Canonical ordering is applied at
// serialization time, so insertion order never affects the tree's hash.
func (t *Tree) Insert(e TreeEntry) {
	t.Entries = append(t.Entries, e)
}

// sortKey is the canonical comparison key: directories compare as if
// their name ended with "/", matching Git's tree ordering.
func (e *TreeEntry) sortKey() string {
	if ft, err := e.FileType(); err == nil && ft == FileTypeTree {
		return e.Path + "/"
	}
	return e.Path
}

type treeParseState int

const (
	treeInit treeParseState = iota
	treeMode
	treePath
	treeSha
)

// UnmarshalTree parses the binary tree format: repeated
// "mode SP path NUL sha20" records with no separator. Trailing bytes
// that leave the parser mid-record are a format error.
func UnmarshalTree(data []byte) (*Tree, error) {
	t := &Tree{}
	state := treeInit

	var mode, path bytes.Buffer
	sha := make([]byte, 0, 20)

	for _, b := range data {
		switch state {
		case treeInit:
			state = treeMode
			mode.WriteByte(b)
		case treeMode:
			if b == ' ' {
				state = treePath
			} else {
				mode.WriteByte(b)
			}
		case treePath:
			if b == 0 {
				state = treeSha
			} else {
				path.WriteByte(b)
			}
		case treeSha:
			sha = append(sha, b)
			if len(sha) == 20 {
				entry, err := NewTreeEntry(mode.String(), path.String(), Hash(hex.EncodeToString(sha)))
				if err != nil {
					return nil, fmt.Errorf("unmarshal tree: %w", err)
				}
				t.Entries = append(t.Entries, entry)
				mode.Reset()
				path.Reset()
				sha = sha[:0]
				state = treeInit
			}
		}
	}

	if state != treeInit {
		return nil, formatErrorf("truncated tree entry")
	}
	return t, nil
}

// MarshalTree serializes a tree. Entries are emitted in canonical order
// (directory names compare with a trailing slash) so the tree's hash is
// a pure function of its logical contents. The mode's zero padding is
// stripped on output per the historical on-disk convention.
func MarshalTree(t *Tree) ([]byte, error) {
	sorted := make([]TreeEntry, len(t.Entries))
	copy(sorted, t.Entries)
	for i := range sorted {
		if _, err := sorted[i].FileType(); err != nil {
			return nil, fmt.Errorf("marshal tree: entry %q: %w", sorted[i].Path, err)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].sortKey() < sorted[j].sortKey()
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		raw, err := hex.DecodeString(string(e.Hash))
		if err != nil || len(raw) != 20 {
			return nil, formatErrorf("invalid hash %q for entry %q", e.Hash, e.Path)
		}
		buf.WriteString(strings.TrimLeft(e.Mode, "0"))
		buf.WriteByte(' ')
		buf.WriteString(e.Path)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}
