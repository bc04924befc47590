package loaderror_test

import (
	"errors"
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"

	"github.com/quietside/elfboot/loaderror"
)

type LoaderErrorSuite struct{}

func TestLoaderError(t *testing.T) {
	suite.RunTests(t, &LoaderErrorSuite{})
}

func (LoaderErrorSuite) TestExitCodeEncodesKindAndErrno(t *testing.T) {
	err := loaderror.Errno(loaderror.KindOpen, "opening file", 2)
	expect.Equal(t, byte(0*16+2), err.ExitCode())

	err = loaderror.Errno(loaderror.KindMmap, "mapping file", 12)
	expect.Equal(t, byte(9*16+12), err.ExitCode())
}

func (LoaderErrorSuite) TestExitCodeIgnoresErrnoForNonSyscallKinds(t *testing.T) {
	err := loaderror.New(loaderror.KindElf, "bad magic")
	expect.Equal(t, byte(5*16), err.ExitCode())

	err = loaderror.New(loaderror.KindCli, "missing argument")
	expect.Equal(t, byte(6*16), err.ExitCode())
}

func (LoaderErrorSuite) TestErrnoWrapsModulo16(t *testing.T) {
	err := loaderror.Errno(loaderror.KindRead, "reading file", 33)
	expect.Equal(t, byte(2*16+1), err.ExitCode())
}

func (LoaderErrorSuite) TestUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := loaderror.Wrap(loaderror.KindFstat, "stat failed", inner)
	expect.True(t, errors.Is(err, inner))
}
