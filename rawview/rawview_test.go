package rawview_test

import (
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"

	"github.com/quietside/elfboot/rawview"
)

type record struct {
	A uint32
	B uint32
}

type RawViewSuite struct{}

func TestRawView(t *testing.T) {
	suite.RunTests(t, &RawViewSuite{})
}

func (RawViewSuite) TestHeadReinterpretsLeadingBytes(t *testing.T) {
	buf := make([]byte, 16)
	buf[0] = 0x01
	buf[4] = 0x02

	rec, err := rawview.Head[record](buf)
	expect.Nil(t, err)
	expect.Equal(t, uint32(0x01), rec.A)
	expect.Equal(t, uint32(0x02), rec.B)
}

func (RawViewSuite) TestHeadRejectsShortBuffer(t *testing.T) {
	buf := make([]byte, 4)

	_, err := rawview.Head[record](buf)
	expect.NotNil(t, err)
}

func (RawViewSuite) TestSliceReinterpretsRepeatedElements(t *testing.T) {
	buf := make([]byte, 16)
	buf[8] = 0x07

	recs, err := rawview.Slice[record](buf, 2)
	expect.Nil(t, err)
	expect.Equal(t, 2, len(recs))
	expect.Equal(t, uint32(0x07), recs[1].A)
}

func (RawViewSuite) TestSliceRejectsShortBuffer(t *testing.T) {
	buf := make([]byte, 8)

	_, err := rawview.Slice[record](buf, 2)
	expect.NotNil(t, err)
}

func (RawViewSuite) TestSliceOfZeroElementsIsEmpty(t *testing.T) {
	recs, err := rawview.Slice[record](nil, 0)
	expect.Nil(t, err)
	expect.Equal(t, 0, len(recs))
}

func (RawViewSuite) TestSizeOfMatchesStructLayout(t *testing.T) {
	expect.Equal(t, 8, rawview.SizeOf[record]())
}
