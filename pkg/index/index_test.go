package index

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/gritvcs/grit/pkg/object"
)

func testEntry(name string) *Entry {
	return &Entry{
		CtimeSec:  1700000000,
		CtimeNsec: 123456789,
		MtimeSec:  1700000001,
		MtimeNsec: 987654321,
		Dev:       2049,
		Ino:       131072,
		ModeType:  ModeTypeRegular,
		ModePerms: 0o644,
		UID:       1000,
		GID:       1000,
		Size:      42,
		Hash:      object.Hash(strings.Repeat("ab", 20)),
		Name:      name,
	}
}

func TestIndexRoundTrip(t *testing.T) {
	x := New()
	x.Upsert(testEntry("src/main.go"))
	exec := testEntry("run.sh")
	exec.ModePerms = 0o755
	x.Upsert(exec)
	link := testEntry("link")
	link.ModeType = ModeTypeSymlink
	link.ModePerms = 0
	x.Upsert(link)

	data, err := x.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got.Version != Version {
		t.Errorf("Version: got %d, want %d", got.Version, Version)
	}
	if len(got.Entries) != 3 {
		t.Fatalf("entries: got %d, want 3", len(got.Entries))
	}
	// Upsert keeps entries sorted by path.
	wantOrder := []string{"link", "run.sh", "src/main.go"}
	for i, name := range wantOrder {
		if got.Entries[i].Name != name {
			t.Errorf("entry %d: got %q, want %q", i, got.Entries[i].Name, name)
		}
	}

	e := got.Get("src/main.go")
	if e == nil {
		t.Fatal("Get returned nil")
	}
	if e.CtimeSec != 1700000000 || e.CtimeNsec != 123456789 {
		t.Errorf("ctime: got %d.%d", e.CtimeSec, e.CtimeNsec)
	}
	if e.MtimeSec != 1700000001 || e.MtimeNsec != 987654321 {
		t.Errorf("mtime: got %d.%d", e.MtimeSec, e.MtimeNsec)
	}
	if e.Dev != 2049 || e.Ino != 131072 || e.UID != 1000 || e.GID != 1000 || e.Size != 42 {
		t.Errorf("metadata mismatch: %+v", e)
	}
	if e.Hash != object.Hash(strings.Repeat("ab", 20)) {
		t.Errorf("hash: got %s", e.Hash)
	}
	if e.TreeMode() != object.TreeModeFile {
		t.Errorf("TreeMode: got %s", e.TreeMode())
	}
	if got.Get("run.sh").TreeMode() != object.TreeModeExecutable {
		t.Errorf("exec TreeMode: got %s", got.Get("run.sh").TreeMode())
	}
	if got.Get("link").TreeMode() != object.TreeModeSymlink {
		t.Errorf("symlink TreeMode: got %s", got.Get("link").TreeMode())
	}
}

func TestIndexEntryAlignment(t *testing.T) {
	// Entries are padded to 8-byte boundaries, including the case where
	// the name plus terminator already lands on one.
	for _, name := range []string{"a", "abcdefg", "exactly8", "a/deeper/path.txt"} {
		x := New()
		x.Upsert(testEntry(name))
		data, err := x.Serialize()
		if err != nil {
			t.Fatalf("Serialize(%q): %v", name, err)
		}
		if (len(data)-12)%8 != 0 {
			t.Errorf("entry %q: body length %d not 8-aligned", name, len(data)-12)
		}
		got, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse(%q): %v", name, err)
		}
		if got.Entries[0].Name != name {
			t.Errorf("name: got %q, want %q", got.Entries[0].Name, name)
		}
	}
}

func TestIndexFlagsRoundTrip(t *testing.T) {
	x := New()
	e := testEntry("flagged")
	e.AssumeValid = true
	e.Stage = 2
	x.Upsert(e)

	data, err := x.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !got.Entries[0].AssumeValid {
		t.Error("assume-valid flag lost")
	}
	if got.Entries[0].Stage != 2 {
		t.Errorf("stage: got %d, want 2", got.Entries[0].Stage)
	}
}

func TestParseRejectsBadSignature(t *testing.T) {
	data, err := New().Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	data[0] = 'X'
	if _, err := Parse(data); !errors.Is(err, ErrFormat) {
		t.Errorf("bad magic: got %v, want ErrFormat", err)
	}
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	data, err := New().Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	binary.BigEndian.PutUint32(data[4:8], 3)
	if _, err := Parse(data); !errors.Is(err, ErrFormat) {
		t.Errorf("version 3: got %v, want ErrFormat", err)
	}
}

func TestParseRejectsExtendedFlag(t *testing.T) {
	x := New()
	x.Upsert(testEntry("ext"))
	data, err := x.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	// Flags word sits right after the 60 fixed metadata bytes.
	flagsOff := 12 + 60
	flags := binary.BigEndian.Uint16(data[flagsOff:])
	binary.BigEndian.PutUint16(data[flagsOff:], flags|0x4000)

	if _, err := Parse(data); !errors.Is(err, ErrFormat) {
		t.Errorf("extended flag: got %v, want ErrFormat", err)
	}
}

func TestParseRejectsTruncated(t *testing.T) {
	x := New()
	x.Upsert(testEntry("cut"))
	data, err := x.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if _, err := Parse(data[:len(data)-4]); !errors.Is(err, ErrFormat) {
		t.Errorf("truncated: got %v, want ErrFormat", err)
	}
}

func TestUpsertReplacesAndRemoveDeletes(t *testing.T) {
	x := New()
	x.Upsert(testEntry("f"))
	replacement := testEntry("f")
	replacement.Size = 99
	x.Upsert(replacement)

	if len(x.Entries) != 1 {
		t.Fatalf("entries after replace: got %d, want 1", len(x.Entries))
	}
	if x.Entries[0].Size != 99 {
		t.Errorf("size: got %d, want 99", x.Entries[0].Size)
	}

	if !x.Remove("f") {
		t.Error("Remove existing returned false")
	}
	if x.Remove("f") {
		t.Error("Remove missing returned true")
	}
	if len(x.Entries) != 0 {
		t.Errorf("entries after remove: got %d", len(x.Entries))
	}
}
