package elf_test

import (
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"

	"github.com/quietside/elfboot/elf"
)

type EnumsSuite struct{}

func TestEnums(t *testing.T) {
	suite.RunTests(t, &EnumsSuite{})
}

// TestEnumRoundTripOverFullByteRange exercises every raw u8 enumerant value
// for the byte-sized tagged fields: Raw() must always return the value
// that was set, and whenever Known() reports true the value must be one
// this package actually names a constant for.
func (EnumsSuite) TestEnumRoundTripOverFullByteRange(t *testing.T) {
	for u := 0; u <= 0xFF; u++ {
		osAbi := elf.OperatingSystemABI(u)
		expect.Equal(t, byte(u), osAbi.Raw())
		if osAbi.Known() {
			expect.True(
				t,
				osAbi == elf.OperatingSystemABIUnixSystemV ||
					osAbi == elf.OperatingSystemABILinux)
		}

		class := elf.Class(u)
		expect.Equal(t, byte(u), class.Raw())
		if class.Known() {
			expect.True(t, class == elf.Class32 || class == elf.Class64)
		}

		encoding := elf.DataEncoding(u)
		expect.Equal(t, byte(u), encoding.Raw())
		if encoding.Known() {
			expect.True(
				t,
				encoding == elf.DataEncodingTwosComplementLittleEndian ||
					encoding == elf.DataEncodingTwosComplementBigEndian)
		}
	}
}

// TestMachineEnumRoundTripOverU16Range covers the u16 enumerant range the
// property names explicitly.
func (EnumsSuite) TestMachineEnumRoundTripOverU16Range(t *testing.T) {
	for u := 0; u <= 0x1FF; u++ {
		arch := elf.MachineArchitecture(u)
		expect.Equal(t, uint16(u), arch.Raw())

		if arch.Known() {
			expect.True(
				t,
				arch == elf.MachineArchitectureX86 ||
					arch == elf.MachineArchitectureX86_64 ||
					arch == elf.MachineArchitectureAarch64)
		}

		ft := elf.FileType(u)
		expect.Equal(t, uint16(u), ft.Raw())
		if ft.Known() {
			expect.True(t, ft <= elf.FileTypeCore)
		}
	}
}

func (EnumsSuite) TestSymbolTypeAndBindingKnownRanges(t *testing.T) {
	for u := 0; u <= 0xFF; u++ {
		st := elf.SymbolType(u & 0xf)
		expect.Equal(t, st.Known(), st <= elf.SymbolTypeTLSObject)

		sb := elf.SymbolBinding(u & 0xf)
		expect.Equal(t, sb.Known(), sb <= elf.SymbolBindingWeak)
	}
}
