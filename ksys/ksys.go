// Package ksys exposes the loader's direct-syscall surface: open, read,
// write, fstat and mmap issued via golang.org/x/sys/unix raw syscall
// numbers rather than the higher-level os package, so the per-kernel
// error-decoding split stays real code instead of being hidden behind the
// standard library.
package ksys

// OpenMode mirrors the logical open flags the loader needs, independent of
// any one kernel's numeric encoding.
type OpenMode uint32

const (
	OpenReadOnly  OpenMode = 1 << iota // O_RDONLY
	OpenWriteOnly                      // O_WRONLY
	OpenReadWrite                      // O_RDWR
	OpenCreate                         // O_CREAT
	OpenAppend                         // O_APPEND
)

// MmapProt mirrors mmap's protection bits.
type MmapProt uint32

const (
	ProtNone MmapProt = 0
	ProtRead MmapProt = 1 << iota
	ProtWrite
	ProtExec
)

// MmapFlags mirrors mmap's mapping-kind bits.
type MmapFlags uint32

const (
	MapShared MmapFlags = 1 << iota
	MapPrivate
	MapFixed
	MapAnon
)

// Stat holds the subset of fstat's output the loader actually consumes.
type Stat struct {
	Size int64
}

func (prot MmapProt) String() string {
	rwx := []byte{'-', '-', '-'}
	if prot&ProtRead != 0 {
		rwx[0] = 'r'
	}
	if prot&ProtWrite != 0 {
		rwx[1] = 'w'
	}
	if prot&ProtExec != 0 {
		rwx[2] = 'x'
	}
	return string(rwx)
}
