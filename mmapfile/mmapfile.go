// Package mmapfile wraps ksys's raw open/fstat/mmap syscalls into the
// loader's file-acquisition contract: open a path for reading or logging,
// then map the whole file into a byte view the elf parser can borrow from
// directly.
package mmapfile

import (
	"github.com/quietside/elfboot/ksys"
)

const logFilePermissions = 0o644

// OpenForRead opens path read-only, matching the §4.9 open-for-read
// contract: READ_ONLY, zero permissions.
func OpenForRead(path string) (int, error) {
	return ksys.Open(nulTerminate(path), ksys.OpenReadOnly, 0)
}

// OpenForLog opens path for append-only writing, creating it if absent.
// Defined for parity with the original interface; the core parse path
// never calls it.
func OpenForLog(path string) (int, error) {
	return ksys.Open(
		nulTerminate(path),
		ksys.OpenWriteOnly|ksys.OpenCreate|ksys.OpenAppend,
		logFilePermissions)
}

func nulTerminate(path string) string {
	if len(path) > 0 && path[len(path)-1] == 0 {
		return path
	}
	return path + "\x00"
}

// MappedFile is a byte view over a whole mapped file. Whether the
// underlying protection bits allow writing is recorded in Writable;
// mutating Content when Writable is false is a programming error this
// package does not itself guard against (matching the teacher's thin
// syscall-wrapper style elsewhere in this tree).
type MappedFile struct {
	Content  []byte
	Writable bool
}

// MapFile fstats fd to obtain the file size, then mmaps it PROT_READ |
// PROT_WRITE, MAP_PRIVATE, offset 0, letting the kernel choose the
// address.
func MapFile(fd int) (MappedFile, error) {
	stat, err := ksys.Fstat(fd)
	if err != nil {
		return MappedFile{}, err
	}

	if stat.Size == 0 {
		return MappedFile{Content: []byte{}, Writable: true}, nil
	}

	content, err := ksys.Mmap(
		0,
		uintptr(stat.Size),
		ksys.ProtRead|ksys.ProtWrite,
		ksys.MapPrivate,
		fd,
		0)
	if err != nil {
		return MappedFile{}, err
	}

	return MappedFile{Content: content, Writable: true}, nil
}
