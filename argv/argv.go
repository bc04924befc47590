// Package argv is the Go-native replacement for the original's raw
// argc/argv walk: os.Args already gives the process its arguments without
// any pointer-chasing, but the accessor contract (length, nth argument as
// a byte slice up to a NUL) is kept so callers written against it don't
// care whether they run under a freestanding entry shim or the Go
// runtime's own startup path.
package argv

import (
	"bytes"
	"os"
)

type Argv struct {
	args []string
}

// FromOSArgs builds an Argv over the process's actual os.Args.
func FromOSArgs() Argv {
	return Argv{args: os.Args}
}

// FromStrings builds an Argv over an explicit argument list, for tests.
func FromStrings(args []string) Argv {
	return Argv{args: args}
}

// Len returns argc.
func (a Argv) Len() int {
	return len(a.args)
}

// Arg returns argument n as a byte slice truncated at the first embedded
// NUL, mirroring the "scan to NUL" contract of the original raw argv walk.
// Panics if n is out of range, matching the original's unchecked pointer
// arithmetic.
func (a Argv) Arg(n int) []byte {
	raw := []byte(a.args[n])
	if end := bytes.IndexByte(raw, 0); end != -1 {
		return raw[:end]
	}
	return raw
}

// String is a convenience accessor for callers that want the argument as
// a string rather than a byte slice.
func (a Argv) String(n int) string {
	return string(a.Arg(n))
}
