package repo

import (
	"testing"

	"github.com/gritvcs/grit/pkg/index"
	"github.com/gritvcs/grit/pkg/object"
)

func indexWith(names ...string) *index.Index {
	x := index.New()
	for i, name := range names {
		x.Upsert(&index.Entry{
			ModeType:  index.ModeTypeRegular,
			ModePerms: 0o644,
			Hash:      fakeHash(byte(i + 1)),
			Name:      name,
		})
	}
	return x
}

func TestWriteTreeFromIndexNested(t *testing.T) {
	r := newTestRepo(t)
	x := indexWith("README.md", "src/main.go", "src/util/helpers.go")

	root, err := r.WriteTreeFromIndex(x)
	if err != nil {
		t.Fatalf("WriteTreeFromIndex: %v", err)
	}

	files, err := r.FlattenTree(root)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}
	want := map[string]object.Hash{
		"README.md":           fakeHash(1),
		"src/main.go":         fakeHash(2),
		"src/util/helpers.go": fakeHash(3),
	}
	if len(files) != len(want) {
		t.Fatalf("files: got %d, want %d: %v", len(files), len(want), files)
	}
	for _, f := range files {
		if want[f.Path] != f.Hash {
			t.Errorf("file %q: got %s, want %s", f.Path, f.Hash, want[f.Path])
		}
	}

	// The root tree must carry the subdirectory as a tree entry.
	tree, err := r.Store.ReadTree(root)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	foundDir := false
	for _, e := range tree.Entries {
		if e.Path == "src" {
			foundDir = true
			if ft, _ := e.FileType(); ft != object.FileTypeTree {
				t.Errorf("src entry type: got %v", ft)
			}
		}
	}
	if !foundDir {
		t.Errorf("root tree missing src entry: %+v", tree.Entries)
	}
}

func TestWriteTreeFromIndexDeterministic(t *testing.T) {
	r := newTestRepo(t)

	// Two indexes with the same logical content staged in different
	// orders must hash to the same root tree.
	h1, err := r.WriteTreeFromIndex(indexWith("a/x.go", "b/y.go", "top.go"))
	if err != nil {
		t.Fatalf("WriteTreeFromIndex: %v", err)
	}

	x2 := index.New()
	for _, name := range []string{"top.go", "b/y.go", "a/x.go"} {
		// Hashes must line up with indexWith's assignment by position.
		var h object.Hash
		switch name {
		case "a/x.go":
			h = fakeHash(1)
		case "b/y.go":
			h = fakeHash(2)
		case "top.go":
			h = fakeHash(3)
		}
		x2.Upsert(&index.Entry{
			ModeType:  index.ModeTypeRegular,
			ModePerms: 0o644,
			Hash:      h,
			Name:      name,
		})
	}
	h2, err := r.WriteTreeFromIndex(x2)
	if err != nil {
		t.Fatalf("WriteTreeFromIndex: %v", err)
	}

	if h1 != h2 {
		t.Errorf("root hashes differ: %s vs %s", h1, h2)
	}
}

func TestWriteTreeFromIndexExecutableMode(t *testing.T) {
	r := newTestRepo(t)
	x := index.New()
	x.Upsert(&index.Entry{
		ModeType:  index.ModeTypeRegular,
		ModePerms: 0o755,
		Hash:      fakeHash(0x0a),
		Name:      "run.sh",
	})

	root, err := r.WriteTreeFromIndex(x)
	if err != nil {
		t.Fatalf("WriteTreeFromIndex: %v", err)
	}
	files, err := r.FlattenTree(root)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}
	if len(files) != 1 || files[0].Mode != "100755" {
		t.Errorf("executable mode: got %+v", files)
	}
}
