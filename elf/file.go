package elf

import (
	"fmt"
	"io"

	"github.com/quietside/elfboot/loaderror"
	"github.com/quietside/elfboot/rawview"
)

// Resources:
// https://refspecs.linuxfoundation.org/

type machineSpec struct {
	MachineArchitecture
	DataEncoding
	OperatingSystemABI
}

var (
	// NOTE: For now, only supports linux system v abi
	supportedArchitecture = map[MachineArchitecture]machineSpec{
		MachineArchitectureX86_64: machineSpec{
			MachineArchitecture: MachineArchitectureX86_64,
			DataEncoding:        DataEncodingTwosComplementLittleEndian,
			OperatingSystemABI:  OperatingSystemABIUnixSystemV,
		},
	}
)

func elfErrorf(format string, args ...any) error {
	return loaderror.New(loaderror.KindElf, fmt.Sprintf(format, args...))
}

type File struct {
	ElfHeader
	Sections       []Section
	ProgramHeaders []ProgramHeaderEntry
}

func (file *File) GetSection(name string) (Section, bool) {
	for _, section := range file.Sections {
		if section.Name() == name {
			return section, true
		}
	}

	return nil, false
}

// parser views the mapped file buffer through rawview: every header and
// record is interpreted in place, with no byte-order decoding. The parsed
// File keeps ProgramHeaders as a view over the buffer; the ELF header,
// each symbol entry, and the contents of raw and string-table sections
// are copied out of it.
type parser struct {
	content []byte

	File
}

func Parse(reader io.Reader) (*File, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, loaderror.Wrap(loaderror.KindRead, "failed to read elf file", err)
	}

	return ParseBytes(content)
}

func ParseBytes(content []byte) (*File, error) {
	p := parser{
		content: content,
	}

	err := p.parse()
	if err != nil {
		return nil, err
	}

	return &p.File, nil
}

func (p *parser) parse() error {
	// NOTE: identifier (e_ident) has no endian-ness.  We must parse identifier
	// to determine the elf file's endian-ness before interpreting any
	// multi-byte header field.
	err := p.parseIdentifier()
	if err != nil {
		return err
	}

	err = p.parseHeader()
	if err != nil {
		return err
	}

	err = p.parseSectionHeaders()
	if err != nil {
		return err
	}

	err = p.parseProgramHeaders()
	if err != nil {
		return err
	}

	return nil
}

func (p *parser) parseIdentifier() error {
	id, err := rawview.Head[Identifier](p.content)
	if err != nil {
		return err
	}

	if id.Magic != [4]byte{IdentifierMagic[0], IdentifierMagic[1], IdentifierMagic[2], IdentifierMagic[3]} {
		return elfErrorf("invalid elf magic number")
	}

	switch id.Class {
	case Class32:
		return elfErrorf("32-bit elfs not supported")
	case Class64:
		// proceeds
	default:
		return elfErrorf("unsupported elf class: %s", id.Class)
	}

	switch id.DataEncoding {
	case DataEncodingTwosComplementLittleEndian:
		// proceeds. This loader only ever runs on a little-endian host, so
		// once the on-disk encoding is confirmed little-endian, every
		// subsequent multi-byte field can be viewed in place with no swap.
	case DataEncodingTwosComplementBigEndian:
		return elfErrorf("big-endian elfs not supported")
	default:
		return elfErrorf("unsupported data encoding: %s", id.DataEncoding)
	}

	if id.IdentifierVersion != IdentifierVersion {
		return elfErrorf("unsupported identifier version: %d", id.IdentifierVersion)
	}

	if id.OperatingSystemABI != OperatingSystemABIUnixSystemV {
		return elfErrorf("unsupported os/abi: %s", id.OperatingSystemABI)
	}

	if id.ABIVersion != ABIVersion {
		return elfErrorf("unsupported abi version: %d", id.ABIVersion)
	}

	for _, padding := range id.Padding {
		if padding != 0 {
			return elfErrorf("invalid identifier padding")
		}
	}

	p.Identifier = *id
	return nil
}

func (p *parser) parseHeader() error {
	hdr, err := rawview.Head[ElfHeader](p.content)
	if err != nil {
		return err
	}

	spec, ok := supportedArchitecture[hdr.MachineArchitecture]
	if !ok {
		return elfErrorf("unsupported machine architecture: %s", hdr.MachineArchitecture)
	}

	if spec.DataEncoding != hdr.DataEncoding {
		return elfErrorf(
			"invalid data encoding (%s) for machine architecture (%s)",
			hdr.DataEncoding,
			hdr.MachineArchitecture)
	}

	if spec.OperatingSystemABI != hdr.OperatingSystemABI {
		return elfErrorf(
			"invalid os/abi (%s) for machine architecture (%s)",
			hdr.OperatingSystemABI,
			hdr.MachineArchitecture)
	}

	if hdr.FormatVersion != FormatVersion {
		return elfErrorf("unsupported format version: %d", hdr.FormatVersion)
	}

	if hdr.ElfHeaderSize != Elf64HeaderSize {
		return elfErrorf("unexpected e_ehsize: %d", hdr.ElfHeaderSize)
	}

	if hdr.NumProgramHeaderEntries > 0 &&
		hdr.ProgramHeaderEntrySize != Elf64ProgramHeaderEntrySize {

		return elfErrorf(
			"unexpected elf64 program header entry size: %d",
			hdr.ProgramHeaderEntrySize)
	}

	if hdr.NumSectionHeaderEntries > 0 &&
		hdr.SectionHeaderEntrySize != Elf64SectionHeaderEntrySize {

		return elfErrorf(
			"unexpected elf64 section header entry size: %d",
			hdr.SectionHeaderEntrySize)
	}

	// For simplicity, we'll disallow extended section header.  Most elf structs
	// (e.g., Elf64_Sym.st_shndx) don't support extended section indexing.
	//
	// https://docs.oracle.com/en/operating-systems/solaris/oracle-solaris/11.4/linkers-libraries/extended-section-header.html
	if hdr.SectionHeaderOffset > 0 && hdr.NumSectionHeaderEntries == 0 {
		return elfErrorf("extended section header not supported")
	}

	p.ElfHeader = *hdr
	return nil
}

func (p *parser) parseSectionHeaders() error {
	if p.NumSectionHeaderEntries == 0 {
		return nil
	}

	if p.SectionHeaderOffset >= uint64(len(p.content)) {
		return elfErrorf(
			"out of bound section header offset (%d)",
			p.SectionHeaderOffset)
	}

	sectionHeaders, err := rawview.Slice[SectionHeaderEntry](
		p.content[p.SectionHeaderOffset:],
		int(p.NumSectionHeaderEntries))
	if err != nil {
		return err
	}

	for _, header := range sectionHeaders {
		var sectionContent []byte
		if header.SectionType != SectionTypeNoSpace {
			start := header.Offset
			end := start + header.Size
			if end > uint64(len(p.content)) {
				return elfErrorf("out of bound section (%d > %d)", end, len(p.content))
			}

			sectionContent = p.content[start:end]
		}

		// TODO Relocations
		switch header.SectionType {
		case SectionTypeStringTable:
			table, err := NewValidatedStringTableSection(header, sectionContent)
			if err != nil {
				return err
			}
			p.Sections = append(p.Sections, table)
		case SectionTypeSymbolTable,
			SectionTypeDynamicSymbolTable:

			table, err := p.parseSymbolTable(header, sectionContent)
			if err != nil {
				return err
			}
			p.Sections = append(p.Sections, table)
		case SectionTypeNote:
			note, err := p.parseNote(header, sectionContent)
			if err != nil {
				return err
			}
			p.Sections = append(p.Sections, note)
		default:
			p.Sections = append(p.Sections, newRawSection(header, sectionContent))
		}
	}

	// Bind section names
	if p.SectionStringTableIndex != SectionIndexUndefined {
		idx := int(p.SectionStringTableIndex)
		if idx >= len(p.Sections) {
			return elfErrorf(
				"section name index out of bound (%d >= %d)",
				idx,
				len(p.Sections))
		}

		table, ok := p.Sections[idx].(*StringTableSection)
		if !ok {
			return elfErrorf("section name index does not point to a string table")
		}

		for _, section := range p.Sections {
			section.BindSectionNameTable(table)
		}
	}

	// Bind sh_link section
	// See elf spec. Figure 1-12. sh_link and sh_info Interpretation.
	for _, section := range p.Sections {
		hdr := section.Header()

		if hdr.Link == 0 { // section 0 is always undefined
			continue
		}

		switch hdr.SectionType {
		case SectionTypeDynamic,
			SectionTypeSymbolTable,
			SectionTypeDynamicSymbolTable:
			if hdr.Link >= uint32(len(p.Sections)) {
				return elfErrorf(
					"string table index out of bound (%d >= %d)",
					hdr.Link,
					len(p.Sections))
			}

			table, ok := p.Sections[hdr.Link].(*StringTableSection)
			if !ok {
				return elfErrorf("string table index does not point to a string table")
			}

			section.BindStringTable(table)
		case SectionTypeSymbolHashTable,
			SectionTypeRelocationWithAddends,
			SectionTypeRelocationNoAddends:

			if hdr.Link >= uint32(len(p.Sections)) {
				return elfErrorf(
					"symbol table index out of bound (%d >= %d)",
					hdr.Link,
					len(p.Sections))
			}

			table, ok := p.Sections[hdr.Link].(*SymbolTableSection)
			if !ok {
				return elfErrorf(
					"symbol table index (%d) does not point to a symbol table (%s)",
					hdr.Link,
					p.Sections[hdr.Link].Name())
			}

			section.BindSymbolTable(table)
		}
	}

	// Bind sh_info section
	for _, section := range p.Sections {
		hdr := section.Header()

		if hdr.Info == 0 { // section 0 is always undefined
			continue
		}

		switch hdr.SectionType {
		case SectionTypeRelocationWithAddends, SectionTypeRelocationNoAddends:
			if hdr.Info >= uint32(len(p.Sections)) {
				return elfErrorf(
					"relocations index out of bound (%d >= %d)",
					hdr.Info,
					len(p.Sections))
			}

			// TODO relocations type
			relocations, ok := p.Sections[hdr.Info].(*RawSection)
			if !ok {
				return elfErrorf("relocations index does not point to relocations")
			}

			section.BindRelocations(relocations)
		}
	}

	return nil
}

func (p *parser) parseSymbolTable(
	header SectionHeaderEntry,
	content []byte,
) (
	*SymbolTableSection,
	error,
) {
	if header.EntrySize != Elf64SymbolEntrySize {
		return nil, elfErrorf("unexpected symbol table entry size (%d)", header.EntrySize)
	}

	if len(content)%Elf64SymbolEntrySize != 0 {
		return nil, elfErrorf("invalid symbol table size (%d)", len(content))
	}

	numEntries := len(content) / Elf64SymbolEntrySize
	rawEntries, err := rawview.Slice[SymbolEntry](content, numEntries)
	if err != nil {
		return nil, err
	}

	table := &SymbolTableSection{
		BaseSection: newBaseSection(header),
	}

	symbols := make([]*Symbol, 0, numEntries)
	for _, entry := range rawEntries {
		symbols = append(
			symbols,
			&Symbol{
				SymbolEntry: entry,
				Parent:      table,
			})
	}

	table.Symbols = symbols
	return table, nil
}

func (p *parser) parseProgramHeaders() error {
	if p.NumProgramHeaderEntries == 0 {
		return nil
	}

	if p.ProgramHeaderOffset >= uint64(len(p.content)) {
		return elfErrorf(
			"out of bound program header offset (%d)",
			p.ProgramHeaderOffset)
	}

	programHeaders, err := rawview.Slice[ProgramHeaderEntry](
		p.content[p.ProgramHeaderOffset:],
		int(p.NumProgramHeaderEntries))
	if err != nil {
		return err
	}

	p.ProgramHeaders = programHeaders
	return nil
}

func (p *parser) parseNote(
	header SectionHeaderEntry,
	content []byte,
) (
	*NoteSection,
	error,
) {
	entries := []NoteEntry{}

	// NOTE: even though Elf64_Nhdr is defined, it looks like tools continue to
	// use Elf32_Nhdr / 4-byte aligned note entries.
	for len(content) > 0 {
		if len(content)%4 != 0 {
			return nil, elfErrorf("failed to parse note section: not 4-byte aligned")
		}

		noteHdr, err := rawview.Head[NoteHeader](content)
		if err != nil {
			return nil, err
		}
		content = content[NoteHeaderSize:]

		if len(content) < int(noteHdr.NameSize) {
			return nil, elfErrorf("failed to parse note entry: not enough name bytes")
		}

		name := string(content[:noteHdr.NameSize])

		// make descStart 4 byte aligned.
		descStart := ((noteHdr.NameSize + 3) / 4) * 4
		if int(descStart) > len(content) {
			return nil, elfErrorf("failed to parse note entry: name padding out of bound")
		}

		content = content[descStart:]

		if len(content) < int(noteHdr.DescriptionSize) {
			return nil, elfErrorf("failed to parse note entry: not enough description bytes")
		}

		desc := string(content[:noteHdr.DescriptionSize])

		entries = append(
			entries,
			NoteEntry{
				Name:        name,
				Description: desc,
				Type:        noteHdr.Type,
			})

		// make nextEntryStart 4 byte aligned.
		nextEntryStart := ((noteHdr.DescriptionSize + 3) / 4) * 4
		if int(nextEntryStart) > len(content) {
			return nil, elfErrorf("failed to parse note entry: description padding out of bound")
		}

		content = content[nextEntryStart:]
	}

	return newNoteSection(header, entries), nil
}
