// Package rawview interprets byte slices as fixed-layout records without
// copying, the Go analogue of the original loader's TransmuteSafe trait.
// Every reinterpretation is guarded by an explicit size and alignment check
// against the live buffer; nothing here reads past what the caller handed
// in.
package rawview

import (
	"fmt"
	"unsafe"

	"github.com/quietside/elfboot/loaderror"
)

// Head reinterprets the first sizeof(T) bytes of buf as *T. buf must be at
// least sizeof(T) long and aligned to T's requirements; callers that only
// have a byte slice sourced from an mmap or a read buffer should expect
// Go's allocator/mmap page alignment to satisfy every record this module
// defines (all ELF64 record alignments here are <= 8).
func Head[T any](buf []byte) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))

	if len(buf) < size {
		return nil, loaderror.New(
			loaderror.KindTransmute,
			fmt.Sprintf(
				"buffer too short: need %d bytes, have %d", size, len(buf)))
	}

	ptr := unsafe.Pointer(&buf[0])
	if uintptr(ptr)%uintptr(align) != 0 {
		return nil, loaderror.New(
			loaderror.KindTransmute,
			fmt.Sprintf("buffer not aligned to %d bytes", align))
	}

	return (*T)(ptr), nil
}

// Slice reinterprets buf[:n*sizeof(T)] as a []T of length n without
// copying.
func Slice[T any](buf []byte, n int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))

	if n < 0 {
		return nil, loaderror.New(loaderror.KindTransmute, "negative element count")
	}
	if n == 0 {
		return []T{}, nil
	}

	needed := size * n
	if len(buf) < needed {
		return nil, loaderror.New(
			loaderror.KindTransmute,
			fmt.Sprintf(
				"buffer too short: need %d bytes for %d elements, have %d",
				needed, n, len(buf)))
	}

	ptr := unsafe.Pointer(&buf[0])
	if uintptr(ptr)%uintptr(align) != 0 {
		return nil, loaderror.New(
			loaderror.KindTransmute,
			fmt.Sprintf("buffer not aligned to %d bytes", align))
	}

	return unsafe.Slice((*T)(ptr), n), nil
}

// SizeOf reports sizeof(T), used by callers that need to advance a cursor
// past a record they just viewed.
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
