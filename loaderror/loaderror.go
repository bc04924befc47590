// Package loaderror defines the closed error taxonomy the loader maps to a
// single-byte process exit code: high nibble selects the error kind, low
// nibble carries errno%16 for the syscall-backed kinds.
package loaderror

import "fmt"

type Kind int

const (
	KindOpen Kind = iota
	KindWrite
	KindRead
	KindFstat
	KindFormat
	KindElf
	KindCli
	KindUtf8
	KindTransmute
	KindMmap
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindWrite:
		return "write"
	case KindRead:
		return "read"
	case KindFstat:
		return "fstat"
	case KindFormat:
		return "format"
	case KindElf:
		return "elf"
	case KindCli:
		return "cli"
	case KindUtf8:
		return "utf8"
	case KindTransmute:
		return "transmute"
	case KindMmap:
		return "mmap"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", int(k))
	}
}

// Error is the closed taxonomy every failure in this module ultimately
// becomes. Errno is only meaningful for the syscall-backed kinds (Open,
// Write, Read, Fstat, Mmap); it is ignored otherwise.
type Error struct {
	Kind  Kind
	Errno int
	Msg   string
	Err   error
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Errno(kind Kind, msg string, errno int) *Error {
	return &Error{Kind: kind, Errno: errno, Msg: msg}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode computes the single-byte process exit code: high nibble is the
// error kind, low nibble is errno%16 for syscall-backed kinds and 0
// otherwise.
func (e *Error) ExitCode() byte {
	low := 0
	switch e.Kind {
	case KindOpen, KindWrite, KindRead, KindFstat, KindMmap:
		low = e.Errno % 16
		if low < 0 {
			low = -low
		}
	}
	return byte(int(e.Kind)*16 + low)
}

// PanicExitCode is returned by entry.Run when the core panics, matching the
// original freestanding panic handler's behavior of always exiting 2.
const PanicExitCode = 2
