package elf_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pattyshack/gt/testing/expect"
	"github.com/pattyshack/gt/testing/suite"

	"github.com/quietside/elfboot/elf"
)

// buildMinimalHeader returns a 64-byte little-endian ELF64 header with zero
// program and section header counts, mutated by each opt in order.
func buildMinimalHeader(opts ...func([]byte)) []byte {
	buf := make([]byte, elf.Elf64HeaderSize)

	copy(buf[0:4], elf.IdentifierMagic)
	buf[4] = byte(elf.Class64)
	buf[5] = byte(elf.DataEncodingTwosComplementLittleEndian)
	buf[6] = byte(elf.IdentifierVersion)
	buf[7] = byte(elf.OperatingSystemABIUnixSystemV)
	buf[8] = byte(elf.ABIVersion)
	// buf[9:16] identifier padding, already zero

	binary.LittleEndian.PutUint16(buf[16:18], uint16(elf.FileTypeExecutable))
	binary.LittleEndian.PutUint16(buf[18:20], uint16(elf.MachineArchitectureX86_64))
	binary.LittleEndian.PutUint32(buf[20:24], elf.FormatVersion)
	binary.LittleEndian.PutUint64(buf[24:32], 0x401000) // e_entry
	binary.LittleEndian.PutUint64(buf[32:40], 0)        // e_phoff
	binary.LittleEndian.PutUint64(buf[40:48], 0)        // e_shoff
	binary.LittleEndian.PutUint32(buf[48:52], 0)        // e_flags
	binary.LittleEndian.PutUint16(buf[52:54], uint16(elf.Elf64HeaderSize))
	binary.LittleEndian.PutUint16(buf[54:56], uint16(elf.Elf64ProgramHeaderEntrySize))
	binary.LittleEndian.PutUint16(buf[56:58], 0) // e_phnum
	binary.LittleEndian.PutUint16(buf[58:60], uint16(elf.Elf64SectionHeaderEntrySize))
	binary.LittleEndian.PutUint16(buf[60:62], 0) // e_shnum
	binary.LittleEndian.PutUint16(buf[62:64], 0) // e_shstrndx

	for _, opt := range opts {
		opt(buf)
	}

	return buf
}

type FileSuite struct{}

func TestFile(t *testing.T) {
	suite.RunTests(t, &FileSuite{})
}

func (FileSuite) TestMinimalElfParsesWithEmptyTablesAndNoSections(t *testing.T) {
	buf := buildMinimalHeader()

	file, err := elf.ParseBytes(buf)
	expect.Nil(t, err)
	expect.Equal(t, 0, len(file.ProgramHeaders))
	expect.Equal(t, 0, len(file.Sections))

	_, ok := file.GetSection(".symtab")
	expect.False(t, ok)
}

func (FileSuite) TestCorruptedMagicFails(t *testing.T) {
	buf := buildMinimalHeader(func(b []byte) {
		b[0] = 0x00
	})

	_, err := elf.ParseBytes(buf)
	expect.NotNil(t, err)
	expect.True(t, bytes.Contains([]byte(err.Error()), []byte("magic")))
}

func (FileSuite) TestBadHeaderSizeFails(t *testing.T) {
	buf := buildMinimalHeader(func(b []byte) {
		binary.LittleEndian.PutUint16(b[52:54], 63)
	})

	_, err := elf.ParseBytes(buf)
	expect.NotNil(t, err)
	expect.True(t, bytes.Contains([]byte(err.Error()), []byte("e_ehsize")))
}

func (FileSuite) TestClass32Rejected(t *testing.T) {
	buf := buildMinimalHeader(func(b []byte) {
		b[4] = byte(elf.Class32)
	})

	_, err := elf.ParseBytes(buf)
	expect.NotNil(t, err)
}

func (FileSuite) TestBigEndianRejected(t *testing.T) {
	buf := buildMinimalHeader(func(b []byte) {
		b[5] = byte(elf.DataEncodingTwosComplementBigEndian)
	})

	_, err := elf.ParseBytes(buf)
	expect.NotNil(t, err)
}

func (FileSuite) TestUnsupportedMachineRejected(t *testing.T) {
	buf := buildMinimalHeader(func(b []byte) {
		binary.LittleEndian.PutUint16(b[18:20], uint16(elf.MachineArchitectureAarch64))
	})

	_, err := elf.ParseBytes(buf)
	expect.NotNil(t, err)
}

func (FileSuite) TestSectionStringTableIndexOutOfRangeFails(t *testing.T) {
	// one section header entry, pointing e_shstrndx at a nonexistent entry.
	shOff := uint64(elf.Elf64HeaderSize)
	buf := buildMinimalHeader(func(b []byte) {
		binary.LittleEndian.PutUint64(b[40:48], shOff)
		binary.LittleEndian.PutUint16(b[60:62], 1) // e_shnum = 1
		binary.LittleEndian.PutUint16(b[62:64], 5) // e_shstrndx out of range
	})

	sectionHeader := make([]byte, elf.Elf64SectionHeaderEntrySize)
	buf = append(buf, sectionHeader...)

	_, err := elf.ParseBytes(buf)
	expect.NotNil(t, err)
}

func (FileSuite) TestSectionStringTableIndexOnePastLastEntryFails(t *testing.T) {
	// one section header entry (index 0); e_shstrndx points one past it
	// (index 1, equal to len(Sections)) instead of at a wildly out-of-range
	// value - the off-by-one edge `idx == len(Sections)` must still fail,
	// not panic on the slice index.
	shOff := uint64(elf.Elf64HeaderSize)
	buf := buildMinimalHeader(func(b []byte) {
		binary.LittleEndian.PutUint64(b[40:48], shOff)
		binary.LittleEndian.PutUint16(b[60:62], 1) // e_shnum = 1
		binary.LittleEndian.PutUint16(b[62:64], 1) // e_shstrndx == len(Sections)
	})

	sectionHeader := make([]byte, elf.Elf64SectionHeaderEntrySize)
	buf = append(buf, sectionHeader...)

	_, err := elf.ParseBytes(buf)
	expect.NotNil(t, err)
}

func (FileSuite) TestStringTableSectionMissingTrailingNulFailsToParse(t *testing.T) {
	// A single SHT_STRTAB section whose content is missing the trailing NUL
	// the string-pool construction check requires. e_shstrndx is left 0
	// (no name table), so this exercises the construction check every
	// string-table-typed section goes through during parsing, independent
	// of whether it ends up bound as .shstrtab; parsing the whole file must
	// fail with Elf, not silently accept the pool.
	headerSize := uint64(elf.Elf64HeaderSize)
	sectionHeaderSize := uint64(elf.Elf64SectionHeaderEntrySize)
	shOff := headerSize
	poolOff := shOff + sectionHeaderSize
	pool := []byte{0x00, 'a', 'b'} // missing trailing NUL

	buf := buildMinimalHeader(func(b []byte) {
		binary.LittleEndian.PutUint64(b[40:48], shOff)
		binary.LittleEndian.PutUint16(b[60:62], 1) // e_shnum = 1
		binary.LittleEndian.PutUint16(b[62:64], 0) // e_shstrndx = undefined
	})

	sectionHeader := make([]byte, elf.Elf64SectionHeaderEntrySize)
	binary.LittleEndian.PutUint32(sectionHeader[4:8], uint32(elf.SectionTypeStringTable))
	binary.LittleEndian.PutUint64(sectionHeader[24:32], poolOff)
	binary.LittleEndian.PutUint64(sectionHeader[32:40], uint64(len(pool)))

	buf = append(buf, sectionHeader...)
	buf = append(buf, pool...)

	_, err := elf.ParseBytes(buf)
	expect.NotNil(t, err)
}

func (FileSuite) TestStringPoolMissingTrailingNulFails(t *testing.T) {
	header := elf.SectionHeaderEntry{}
	_, err := elf.NewValidatedStringTableSection(header, []byte{0x00, 'a', 'b'})
	expect.NotNil(t, err)
}

func (FileSuite) TestStringPoolLookupContract(t *testing.T) {
	header := elf.SectionHeaderEntry{}
	table, err := elf.NewValidatedStringTableSection(
		header, []byte{0x00, 'a', 'b', 'c', 0x00})
	expect.Nil(t, err)

	zero, err := table.Lookup(0)
	expect.Nil(t, err)
	expect.Equal(t, []byte{0}, zero)

	name, err := table.Lookup(1)
	expect.Nil(t, err)
	expect.Equal(t, "abc", string(name))

	_, err = table.Lookup(100)
	expect.NotNil(t, err)
}
