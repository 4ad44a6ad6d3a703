//go:build !linux

package repo

import (
	"os"

	"github.com/gritvcs/grit/pkg/index"
)

// statIndexEntry on platforms without Stat_t timestamps records the
// modification time for both timestamp pairs and leaves the
// device/inode/owner fields zero. Status falls back to content hashing
// more often as a result, which is correct, just slower.
func statIndexEntry(absPath string) (*index.Entry, error) {
	info, err := os.Lstat(absPath)
	if err != nil {
		return nil, err
	}

	modeType := uint16(index.ModeTypeRegular)
	if info.Mode()&os.ModeSymlink != 0 {
		modeType = index.ModeTypeSymlink
	}

	mtime := info.ModTime()
	return &index.Entry{
		CtimeSec:  uint32(mtime.Unix()),
		CtimeNsec: uint32(mtime.Nanosecond()),
		MtimeSec:  uint32(mtime.Unix()),
		MtimeNsec: uint32(mtime.Nanosecond()),
		ModeType:  modeType,
		ModePerms: uint16(info.Mode().Perm()),
		Size:      uint32(info.Size()),
	}, nil
}
