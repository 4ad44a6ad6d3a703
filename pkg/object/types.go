package object

// Hash is a 40-character hex-encoded SHA-1 digest identifying an object's
// canonical serialization.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
	TypeTag    ObjectType = "tag"
)

// ParseObjectType validates a type string read from an object header.
func ParseObjectType(s string) (ObjectType, error) {
	switch t := ObjectType(s); t {
	case TypeBlob, TypeTree, TypeCommit, TypeTag:
		return t, nil
	default:
		return "", formatErrorf("unknown object type %q", s)
	}
}

const (
	// Tree mode strings in Git's canonical (zero-stripped) form.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
	TreeModeSymlink    = "120000"
	TreeModeGitlink    = "160000"
)

// FileType is the object kind encoded in the high two octal digits of a
// tree entry mode.
type FileType int

const (
	FileTypeTree    FileType = iota // 04: directory
	FileTypeBlob                    // 10: regular file
	FileTypeSymlink                 // 12: symbolic link
	FileTypeGitlink                 // 16: nested repository
)

// FileTypeFromOctal maps the leading two octal digits of a six-digit mode
// to a FileType.
func FileTypeFromOctal(octal string) (FileType, error) {
	switch octal {
	case "04":
		return FileTypeTree, nil
	case "10":
		return FileTypeBlob, nil
	case "12":
		return FileTypeSymlink, nil
	case "16":
		return FileTypeGitlink, nil
	default:
		return 0, formatErrorf("unknown file type %q", octal)
	}
}

func (ft FileType) String() string {
	switch ft {
	case FileTypeTree:
		return "tree"
	case FileTypeBlob:
		return "blob"
	case FileTypeSymlink:
		return "symlink"
	case FileTypeGitlink:
		return "commit"
	default:
		return "unknown"
	}
}

// ObjectType returns the object kind a tree entry of this file type
// points at.
func (ft FileType) ObjectType() ObjectType {
	switch ft {
	case FileTypeTree:
		return TypeTree
	case FileTypeGitlink:
		return TypeCommit
	default:
		return TypeBlob
	}
}

// Blob holds raw file data verbatim.
type Blob struct {
	Data []byte
}
