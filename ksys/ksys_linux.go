//go:build linux

package ksys

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/quietside/elfboot/loaderror"
)

// Linux's syscall convention: the return value is the result, or -errno on
// failure.  There is no separate flag to check.

func openModeToLinux(mode OpenMode) int {
	flags := 0
	if mode&OpenWriteOnly != 0 {
		flags |= unix.O_WRONLY
	}
	if mode&OpenReadWrite != 0 {
		flags |= unix.O_RDWR
	}
	if mode&OpenCreate != 0 {
		flags |= unix.O_CREAT
	}
	if mode&OpenAppend != 0 {
		flags |= unix.O_APPEND
	}
	return flags
}

// Open issues the raw open(2) syscall. path must be NUL-terminated; passing
// a path without a trailing NUL is a programming error.
func Open(path string, mode OpenMode, perm uint32) (int, error) {
	if len(path) == 0 || path[len(path)-1] != 0 {
		panic("ksys.Open: path must be NUL-terminated")
	}

	fd, _, errno := unix.Syscall(
		unix.SYS_OPEN,
		uintptr(unsafe.Pointer(&[]byte(path)[0])),
		uintptr(openModeToLinux(mode)),
		uintptr(perm))
	if errno != 0 {
		return -1, loaderror.Errno(loaderror.KindOpen, "open failed", int(errno))
	}

	return int(fd), nil
}

func Read(fd int, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	n, _, errno := unix.Syscall(
		unix.SYS_READ,
		uintptr(fd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)))
	if errno != 0 {
		return 0, loaderror.Errno(loaderror.KindRead, "read failed", int(errno))
	}

	return int(n), nil
}

func Write(fd int, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	n, _, errno := unix.Syscall(
		unix.SYS_WRITE,
		uintptr(fd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)))
	if errno != 0 {
		return 0, loaderror.Errno(loaderror.KindWrite, "write failed", int(errno))
	}

	return int(n), nil
}

func Fstat(fd int) (Stat, error) {
	var raw unix.Stat_t

	_, _, errno := unix.Syscall(
		unix.SYS_FSTAT,
		uintptr(fd),
		uintptr(unsafe.Pointer(&raw)),
		0)
	if errno != 0 {
		return Stat{}, loaderror.Errno(loaderror.KindFstat, "fstat failed", int(errno))
	}

	return Stat{Size: raw.Size}, nil
}

func mmapProtToLinux(prot MmapProt) int {
	flags := unix.PROT_NONE
	if prot&ProtRead != 0 {
		flags |= unix.PROT_READ
	}
	if prot&ProtWrite != 0 {
		flags |= unix.PROT_WRITE
	}
	if prot&ProtExec != 0 {
		flags |= unix.PROT_EXEC
	}
	return flags
}

func mmapFlagsToLinux(flags MmapFlags) int {
	result := 0
	if flags&MapShared != 0 {
		result |= unix.MAP_SHARED
	}
	if flags&MapPrivate != 0 {
		result |= unix.MAP_PRIVATE
	}
	if flags&MapFixed != 0 {
		result |= unix.MAP_FIXED
	}
	if flags&MapAnon != 0 {
		result |= unix.MAP_ANON
	}
	return result
}

// Mmap issues the raw mmap(2) syscall. addr is a hint only unless flags
// includes MapFixed.
func Mmap(addr uintptr, length uintptr, prot MmapProt, flags MmapFlags, fd int, offset int64) ([]byte, error) {
	ptr, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		addr,
		length,
		uintptr(mmapProtToLinux(prot)),
		uintptr(mmapFlagsToLinux(flags)),
		uintptr(fd),
		uintptr(offset))
	if errno != 0 {
		return nil, loaderror.Errno(loaderror.KindMmap, "mmap failed", int(errno))
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), int(length)), nil
}

func Exit(code byte) {
	unix.Syscall(unix.SYS_EXIT, uintptr(code), 0, 0)
	panic("unreachable: exit syscall returned")
}
