package argv_test

import (
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"

	"github.com/quietside/elfboot/argv"
)

type ArgvSuite struct{}

func TestArgv(t *testing.T) {
	suite.RunTests(t, &ArgvSuite{})
}

func (ArgvSuite) TestLenMatchesArgumentCount(t *testing.T) {
	a := argv.FromStrings([]string{"elfboot", "a.out"})
	expect.Equal(t, 2, a.Len())
}

func (ArgvSuite) TestArgTruncatesAtEmbeddedNul(t *testing.T) {
	a := argv.FromStrings([]string{"elfboot", "a.out\x00trailing"})
	expect.Equal(t, "a.out", a.String(1))
}

func (ArgvSuite) TestArgWithoutNulIsUnchanged(t *testing.T) {
	a := argv.FromStrings([]string{"elfboot", "a.out"})
	expect.Equal(t, "a.out", a.String(1))
}

func (ArgvSuite) TestArgOutOfRangePanics(t *testing.T) {
	a := argv.FromStrings([]string{"elfboot"})

	defer func() {
		expect.NotNil(t, recover())
	}()
	a.Arg(5)
}
