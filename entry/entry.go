// Package entry stands in for the original's hand-written _start/start
// assembly shim. The Go runtime already owns process entry and stack
// alignment before main ever runs, so there is nothing left for this
// package to do at that layer; what it keeps is the shim's second half:
// turning whatever the core returns into the taxonomy-derived exit code
// from loaderror, and turning a panic into the fixed exit code 2 with a
// stack trace on stderr, exactly like the original's panic handler.
package entry

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/quietside/elfboot/loaderror"
)

// Run invokes core and maps its result to a process exit: a nil error
// exits 0, a *loaderror.Error exits with its ExitCode, any other error
// exits as a generic Elf failure, and a panic recovered from core prints
// its message and a stack trace to stderr and exits loaderror.PanicExitCode.
//
// Run never returns; like the shim it replaces, it is meant to be the
// last thing main calls.
func Run(core func() error) {
	defer func() {
		if r := recover(); r != nil {
			// A fixed runtime.Caller(n) skip depth only lands on the offending
			// line for an explicit single-frame panic(...) call; a
			// runtime-triggered panic (nil deref, index out of range) unwinds
			// through extra runtime frames first. debug.Stack() captures the
			// whole goroutine trace instead, so the actual call site is always
			// in there somewhere.
			fmt.Fprintf(os.Stderr, "panic: %v\n%s", r, debug.Stack())
			os.Exit(loaderror.PanicExitCode)
		}
	}()

	err := core()
	if err == nil {
		os.Exit(0)
	}

	loadErr, ok := err.(*loaderror.Error)
	if !ok {
		loadErr = loaderror.Wrap(loaderror.KindElf, "unclassified failure", err)
	}

	fmt.Fprintln(os.Stderr, loadErr.Error())
	os.Exit(int(loadErr.ExitCode()))
}
