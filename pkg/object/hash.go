package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
)

var hashPattern = regexp.MustCompile(`^[0-9a-f]{4,40}$`)

// HashBytes computes the raw SHA-1 hash of data and returns it as a
// lowercase hex-encoded Hash.
func HashBytes(data []byte) Hash {
	sum := sha1.Sum(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the SHA-1 of the canonical envelope
// "type len\0content", which is the object's identity.
func HashObject(objType ObjectType, data []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// IsHashPrefix reports whether name looks like a full or abbreviated
// object id: 4 to 40 lowercase hex characters.
func IsHashPrefix(name string) bool {
	return hashPattern.MatchString(name)
}
