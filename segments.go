// Package elfboot ties the mapped-file, parser, and syscall-surface
// packages together into the loader's actual job: read an ELF64 binary
// off disk and compute what it would take to load it.
//
// This package stops short of ever calling mmap(MAP_FIXED) against a
// target address or transferring control to the loaded entry point —
// the original's load.rs does both, but doing so here would hand a Go
// process's own address space to untrusted segment placement with no
// guardrail the Go runtime can recover from. PlanSegments instead
// produces the placement a loader would carry out, as plain data, so a
// caller (or a test) can inspect or render it without ever taking the
// unsafe step.
package elfboot

import (
	"sort"

	"github.com/quietside/elfboot/elf"
	"github.com/quietside/elfboot/ksys"
	"github.com/quietside/elfboot/loaderror"
	"github.com/quietside/elfboot/mmapfile"
)

// Program is a fully parsed binary plus the raw bytes it was parsed
// from, kept alongside each other since segment planning needs both the
// parsed program headers and the underlying file descriptor's size.
type Program struct {
	*elf.File

	raw []byte
}

// Open reads path, maps it, and parses it as an ELF64 binary. The
// returned *Program borrows directly from the mapped view; it is only
// valid for as long as the process keeps running (the mapping is never
// explicitly unmapped, matching a freestanding loader that never
// outlives the one binary it loads).
func Open(path string) (*Program, error) {
	fd, err := mmapfile.OpenForRead(path)
	if err != nil {
		return nil, err
	}

	mapped, err := mmapfile.MapFile(fd)
	if err != nil {
		return nil, err
	}

	file, err := elf.ParseBytes(mapped.Content)
	if err != nil {
		return nil, err
	}

	return &Program{File: file, raw: mapped.Content}, nil
}

// RawContent returns the bytes the program was parsed from.
func (p *Program) RawContent() []byte {
	return p.raw
}

// NewProgramForTesting parses content directly, skipping the
// filesystem and mmap layer Open goes through. Exported for tests in
// this module that want to exercise PlanSegments against a synthetic
// in-memory binary.
func NewProgramForTesting(content []byte) (*Program, error) {
	file, err := elf.ParseBytes(content)
	if err != nil {
		return nil, err
	}

	return &Program{File: file, raw: content}, nil
}

// Mapping describes one PT_LOAD segment's placement: the virtual
// address range it occupies once loaded (taken from the program header
// as is, without page alignment), the memory protection it should
// carry, and the file range backing the portion of
// that range that isn't zero-filled.
type Mapping struct {
	VirtualAddress uint64
	MemorySize     uint64
	FileOffset     uint64
	FileSize       uint64
	Protection     ksys.MmapProt
}

// Overlaps reports whether two mappings' virtual address ranges
// intersect.
func (m Mapping) Overlaps(other Mapping) bool {
	mEnd := m.VirtualAddress + m.MemorySize
	otherEnd := other.VirtualAddress + other.MemorySize
	return m.VirtualAddress < otherEnd && other.VirtualAddress < mEnd
}

// PlanSegments computes the Mapping for every PT_LOAD program header,
// sorted by virtual address, without ever issuing a real mmap call.
// This is the loader's actual placement decision expressed as data,
// standing in for the original's direct mmap(MAP_FIXED, ...) loop over
// the same header list.
func PlanSegments(p *Program) ([]Mapping, error) {
	mappings := make([]Mapping, 0, len(p.ProgramHeaders))

	for _, header := range p.ProgramHeaders {
		if header.ProgramType != elf.ProgramLoadable {
			continue
		}

		if header.FileImageSize > header.MemoryImageSize {
			return nil, loaderror.New(
				loaderror.KindElf,
				"PT_LOAD segment's file size exceeds its memory size")
		}

		if header.ContentOffset+header.FileImageSize > uint64(len(p.raw)) {
			return nil, loaderror.New(
				loaderror.KindElf,
				"PT_LOAD segment's file range runs past end of file")
		}

		mappings = append(mappings, Mapping{
			VirtualAddress: header.VirtualAddress,
			MemorySize:     header.MemoryImageSize,
			FileOffset:     header.ContentOffset,
			FileSize:       header.FileImageSize,
			Protection:     segmentProtection(header.ProgramFlags),
		})
	}

	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].VirtualAddress < mappings[j].VirtualAddress
	})

	for i := 1; i < len(mappings); i++ {
		if mappings[i-1].Overlaps(mappings[i]) {
			return nil, loaderror.New(
				loaderror.KindElf, "overlapping PT_LOAD segments")
		}
	}

	return mappings, nil
}

func segmentProtection(flags elf.ProgramFlags) ksys.MmapProt {
	prot := ksys.ProtNone
	if flags&elf.ProgramFlagReadableBit != 0 {
		prot |= ksys.ProtRead
	}
	if flags&elf.ProgramFlagWritableBit != 0 {
		prot |= ksys.ProtWrite
	}
	if flags&elf.ProgramFlagExecutableBit != 0 {
		prot |= ksys.ProtExec
	}
	return prot
}

// EntryPoint returns the virtual address execution would begin at, per
// the parsed header's e_entry field.
func (p *Program) EntryPoint() uint64 {
	return uint64(p.EntryPointAddress)
}
