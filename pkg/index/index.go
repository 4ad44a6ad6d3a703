// Package index reads and writes the binary staging-area file: the flat,
// ordered list of tracked paths and blob ids slated for the next commit.
package index

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/gritvcs/grit/pkg/object"
)

// ErrFormat reports a malformed or unsupported index file.
var ErrFormat = errors.New("malformed index")

var magic = [4]byte{'D', 'I', 'R', 'C'}

// Version is the only supported on-disk format version.
const Version = 2

const (
	// entryFixedSize is the metadata block preceding the flags word:
	// ctime, mtime, dev, ino, 2 reserved bytes, mode, uid, gid, size,
	// and the 20-byte object id. The flags word brings the pre-name
	// total to 62 bytes.
	entryFixedSize = 62

	// nameLenSentinel in the flags word means the name is at least 4095
	// bytes; the true end is found by scanning for the NUL terminator.
	nameLenSentinel = 0x0FFF
)

// Mode object-type nibbles (top 4 bits of the entry mode field).
const (
	ModeTypeRegular = 0b1000
	ModeTypeSymlink = 0b1010
	ModeTypeGitlink = 0b1110
)

// Entry is one staged file with the filesystem metadata used by status
// to avoid rehashing unchanged files.
type Entry struct {
	CtimeSec    uint32
	CtimeNsec   uint32
	MtimeSec    uint32
	MtimeNsec   uint32
	Dev         uint32
	Ino         uint32
	ModeType    uint16 // object type, top 4 bits of the mode field
	ModePerms   uint16 // permission bits, low 12 bits of the mode field
	UID         uint32
	GID         uint32
	Size        uint32
	Hash        object.Hash
	AssumeValid bool
	Stage       uint16 // merge stage, 0-3
	Name        string // repository-relative path
}

// TreeMode returns the entry's mode as a tree-entry octal string, e.g.
// "100644" or "120000".
func (e *Entry) TreeMode() string {
	return treeModeString(e.ModeType, e.ModePerms)
}

func treeModeString(modeType, perms uint16) string {
	switch modeType {
	case ModeTypeSymlink:
		return object.TreeModeSymlink
	case ModeTypeGitlink:
		return object.TreeModeGitlink
	default:
		if perms&0o111 != 0 {
			return object.TreeModeExecutable
		}
		return object.TreeModeFile
	}
}

// ModeTypeString names the entry's object type for display.
func (e *Entry) ModeTypeString() string {
	switch e.ModeType {
	case ModeTypeRegular:
		return "regular file"
	case ModeTypeSymlink:
		return "symlink"
	case ModeTypeGitlink:
		return "git link"
	default:
		return "unknown"
	}
}

// Index is the staging area: a format version and an ordered entry list,
// unique by path.
type Index struct {
	Version uint32
	Entries []*Entry
}

// New returns an empty version-2 index.
func New() *Index {
	return &Index{Version: Version}
}

// Get returns the entry for a path, or nil.
func (x *Index) Get(name string) *Entry {
	for _, e := range x.Entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Upsert adds or replaces the entry for e.Name, keeping the entry list
// sorted by path.
func (x *Index) Upsert(e *Entry) {
	for i, existing := range x.Entries {
		if existing.Name == e.Name {
			x.Entries[i] = e
			return
		}
	}
	x.Entries = append(x.Entries, e)
	sort.Slice(x.Entries, func(i, j int) bool {
		return x.Entries[i].Name < x.Entries[j].Name
	})
}

// Remove deletes the entry for a path, reporting whether it existed.
func (x *Index) Remove(name string) bool {
	for i, e := range x.Entries {
		if e.Name == name {
			x.Entries = append(x.Entries[:i], x.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Parse decodes the binary index format: a 12-byte header (magic,
// big-endian version, big-endian entry count) followed by the entries,
// each padded to a multiple of 8 bytes. Only version 2 is supported, and
// the extended entry flag is a hard error rather than a skip.
func Parse(data []byte) (*Index, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: truncated header", ErrFormat)
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return nil, fmt.Errorf("%w: bad signature %q", ErrFormat, data[:4])
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}
	count := binary.BigEndian.Uint32(data[8:12])

	x := &Index{Version: version}
	pos := 12

	for i := uint32(0); i < count; i++ {
		if len(data)-pos < entryFixedSize+2 {
			return nil, fmt.Errorf("%w: truncated entry %d", ErrFormat, i)
		}
		field := func(off int) uint32 {
			return binary.BigEndian.Uint32(data[pos+off:])
		}

		e := &Entry{
			CtimeSec:  field(0),
			CtimeNsec: field(4),
			MtimeSec:  field(8),
			MtimeNsec: field(12),
			Dev:       field(16),
			Ino:       field(20),
			UID:       field(28),
			GID:       field(32),
			Size:      field(36),
		}

		if data[pos+24] != 0 || data[pos+25] != 0 {
			return nil, fmt.Errorf("%w: entry %d: reserved bytes not zero", ErrFormat, i)
		}
		mode := binary.BigEndian.Uint16(data[pos+26:])
		e.ModeType = mode >> 12
		e.ModePerms = mode & 0o777
		switch e.ModeType {
		case ModeTypeRegular, ModeTypeSymlink, ModeTypeGitlink:
		default:
			return nil, fmt.Errorf("%w: entry %d: invalid mode type %#o", ErrFormat, i, e.ModeType)
		}

		e.Hash = object.Hash(hex.EncodeToString(data[pos+40 : pos+60]))

		flags := binary.BigEndian.Uint16(data[pos+60:])
		e.AssumeValid = flags&0x8000 != 0
		if flags&0x4000 != 0 {
			return nil, fmt.Errorf("%w: entry %d: extended flag is unsupported", ErrFormat, i)
		}
		e.Stage = (flags >> 12) & 0b11
		nameLen := int(flags & nameLenSentinel)

		namePos := pos + entryFixedSize
		if nameLen < nameLenSentinel {
			if len(data) < namePos+nameLen+1 {
				return nil, fmt.Errorf("%w: entry %d: truncated name", ErrFormat, i)
			}
			if data[namePos+nameLen] != 0 {
				return nil, fmt.Errorf("%w: entry %d: name not NUL-terminated", ErrFormat, i)
			}
			e.Name = string(data[namePos : namePos+nameLen])
		} else {
			// Name length saturated the 12-bit field; scan for the NUL.
			end := bytes.IndexByte(data[namePos:], 0)
			if end < 0 {
				return nil, fmt.Errorf("%w: entry %d: name not NUL-terminated", ErrFormat, i)
			}
			e.Name = string(data[namePos : namePos+end])
		}

		consumed := entryFixedSize + len(e.Name) + 1
		padded := consumed + (8-consumed%8)%8
		if len(data) < pos+padded {
			return nil, fmt.Errorf("%w: entry %d: truncated padding", ErrFormat, i)
		}
		pos += padded

		x.Entries = append(x.Entries, e)
	}

	return x, nil
}

// Serialize encodes the index. Padding is recomputed from the actual
// name length so Parse and Serialize always agree on alignment; the
// flags name-length field is capped at the sentinel per the format.
func (x *Index) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magic[:])

	var word [4]byte
	binary.BigEndian.PutUint32(word[:], x.Version)
	buf.Write(word[:])
	binary.BigEndian.PutUint32(word[:], uint32(len(x.Entries)))
	buf.Write(word[:])

	put32 := func(v uint32) {
		binary.BigEndian.PutUint32(word[:], v)
		buf.Write(word[:])
	}
	put16 := func(v uint16) {
		buf.WriteByte(byte(v >> 8))
		buf.WriteByte(byte(v))
	}

	for _, e := range x.Entries {
		put32(e.CtimeSec)
		put32(e.CtimeNsec)
		put32(e.MtimeSec)
		put32(e.MtimeNsec)
		put32(e.Dev)
		put32(e.Ino)
		buf.Write([]byte{0, 0})
		put16(e.ModeType<<12 | e.ModePerms)
		put32(e.UID)
		put32(e.GID)
		put32(e.Size)

		raw, err := hex.DecodeString(string(e.Hash))
		if err != nil || len(raw) != 20 {
			return nil, fmt.Errorf("%w: entry %q: invalid hash %q", ErrFormat, e.Name, e.Hash)
		}
		buf.Write(raw)

		nameLen := len(e.Name)
		if nameLen > nameLenSentinel {
			nameLen = nameLenSentinel
		}
		flags := uint16(nameLen)
		if e.AssumeValid {
			flags |= 0x8000
		}
		flags |= (e.Stage & 0b11) << 12
		put16(flags)

		// The true name is always written in full, NUL-terminated,
		// regardless of the capped length field.
		buf.WriteString(e.Name)
		buf.WriteByte(0)

		consumed := entryFixedSize + len(e.Name) + 1
		for p := (8 - consumed%8) % 8; p > 0; p-- {
			buf.WriteByte(0)
		}
	}

	return buf.Bytes(), nil
}
