package disasm_test

import (
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"

	"github.com/quietside/elfboot/disasm"
)

type DisasmSuite struct{}

func TestDisasm(t *testing.T) {
	suite.RunTests(t, &DisasmSuite{})
}

func (DisasmSuite) TestPreviewRecognizesEndbr64LandingPad(t *testing.T) {
	content := []byte{0xf3, 0x0f, 0x1e, 0xfa, 0xc3} // endbr64; ret

	instructions, err := disasm.Preview(content, 0, 0x401000, 2)
	expect.Nil(t, err)
	expect.Equal(t, 2, len(instructions))
	expect.True(t, instructions[0].IsEndbr64)
	expect.Equal(t, uint64(0x401000), instructions[0].Address)
	expect.False(t, instructions[1].IsEndbr64)
	expect.Equal(t, uint64(0x401004), instructions[1].Address)
}

func (DisasmSuite) TestPreviewStopsAtUndecodableBytes(t *testing.T) {
	content := []byte{0xc3, 0xff} // ret; truncated/invalid opcode

	instructions, err := disasm.Preview(content, 0, 0x401000, 5)
	expect.Nil(t, err)
	expect.Equal(t, 1, len(instructions))
}

func (DisasmSuite) TestPreviewRejectsOffsetPastEndOfFile(t *testing.T) {
	content := []byte{0xc3}

	_, err := disasm.Preview(content, 10, 0x401000, 1)
	expect.NotNil(t, err)
}

func (DisasmSuite) TestPreviewZeroCountReturnsEmpty(t *testing.T) {
	content := []byte{0xc3}

	instructions, err := disasm.Preview(content, 0, 0x401000, 0)
	expect.Nil(t, err)
	expect.Equal(t, 0, len(instructions))
}
