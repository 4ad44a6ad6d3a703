package object

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir())
}

func TestStoreWriteReadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	content := []byte("hello\n")
	h, err := s.Write(TypeBlob, content)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if h != "ce013625030ba8dba906f756967f9e9ca394464a" {
		t.Errorf("Write hash: got %s", h)
	}

	objType, data, err := s.Read(h)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if objType != TypeBlob {
		t.Errorf("Read type: got %s, want blob", objType)
	}
	if !bytes.Equal(data, content) {
		t.Errorf("Read data: got %q, want %q", data, content)
	}
}

func TestStoreFanOutLayout(t *testing.T) {
	s := newTestStore(t)
	h, err := s.Write(TypeBlob, []byte("hello\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
	if _, err := os.Stat(path); err != nil {
		t.Errorf("object not at fan-out path %s: %v", path, err)
	}
}

func TestStoreWriteIdempotent(t *testing.T) {
	s := newTestStore(t)
	content := []byte("written twice")

	h1, err := s.Write(TypeBlob, content)
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}

	info1, err := os.Stat(s.objectPath(h1))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	h2, err := s.Write(TypeBlob, content)
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if h1 != h2 {
		t.Errorf("hashes differ: %s vs %s", h1, h2)
	}

	info2, err := os.Stat(s.objectPath(h1))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info2.ModTime().Equal(info1.ModTime()) {
		t.Error("second write of identical content rewrote the file")
	}
}

func TestStoreReadMissing(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.Read("ce013625030ba8dba906f756967f9e9ca394464a")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read missing: got %v, want ErrNotFound", err)
	}
}

func TestStoreScanPrefix(t *testing.T) {
	s := newTestStore(t)

	h, err := s.Write(TypeBlob, []byte("scan me"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	matches, err := s.ScanPrefix(string(h[:6]))
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	if len(matches) != 1 || matches[0] != h {
		t.Errorf("ScanPrefix: got %v, want [%s]", matches, h)
	}

	none, err := s.ScanPrefix("0000")
	if err != nil {
		t.Fatalf("ScanPrefix empty bucket: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ScanPrefix no match: got %v", none)
	}

	if _, err := s.ScanPrefix("a"); err == nil {
		t.Error("ScanPrefix with 1-char prefix should fail")
	}
}

func TestStoreTypedHelpers(t *testing.T) {
	s := newTestStore(t)

	blobHash, err := s.WriteBlob(&Blob{Data: []byte("typed")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}

	tree := &Tree{}
	entry, err := NewTreeEntry(TreeModeFile, "typed.txt", blobHash)
	if err != nil {
		t.Fatalf("NewTreeEntry: %v", err)
	}
	tree.Insert(entry)
	treeHash, err := s.WriteTree(tree)
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	commit := NewCommit(treeHash, nil, "A <a@b> 0 +0000", "A <a@b> 0 +0000", []byte("msg\n"))
	commitHash, err := s.WriteCommit(commit)
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}

	gotCommit, err := s.ReadCommit(commitHash)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if gotCommit.Tree() != treeHash {
		t.Errorf("commit tree: got %s, want %s", gotCommit.Tree(), treeHash)
	}

	gotTree, err := s.ReadTree(treeHash)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(gotTree.Entries) != 1 || gotTree.Entries[0].Hash != blobHash {
		t.Errorf("tree entries: got %+v", gotTree.Entries)
	}

	// Reading an object as the wrong type is rejected.
	if _, err := s.ReadBlob(commitHash); err == nil {
		t.Error("ReadBlob on a commit should fail")
	}
}
