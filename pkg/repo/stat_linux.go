//go:build linux

package repo

import (
	"fmt"
	"os"
	"syscall"

	"github.com/gritvcs/grit/pkg/index"
)

// statIndexEntry captures the filesystem metadata an index entry
// records: timestamps at nanosecond granularity, device, inode, owner,
// and the mode split into object type and permission bits.
func statIndexEntry(absPath string) (*index.Entry, error) {
	info, err := os.Lstat(absPath)
	if err != nil {
		return nil, err
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("stat %q: no system metadata", absPath)
	}

	modeType := uint16(index.ModeTypeRegular)
	if info.Mode()&os.ModeSymlink != 0 {
		modeType = index.ModeTypeSymlink
	}

	return &index.Entry{
		CtimeSec:  uint32(st.Ctim.Sec),
		CtimeNsec: uint32(st.Ctim.Nsec),
		MtimeSec:  uint32(st.Mtim.Sec),
		MtimeNsec: uint32(st.Mtim.Nsec),
		Dev:       uint32(st.Dev),
		Ino:       uint32(st.Ino),
		ModeType:  modeType,
		ModePerms: uint16(st.Mode & 0o777),
		UID:       st.Uid,
		GID:       st.Gid,
		Size:      uint32(info.Size()),
	}, nil
}
