package elf

// Known reports whether the identification class is one of the recognised
// ELF class discriminants. The zero value and any other byte pattern are a
// valid Class (every byte is a valid inhabitant of the type); Known merely
// tells the caller whether that raw value corresponds to a named variant.
func (class Class) Known() bool {
	return class == Class32 || class == Class64
}

func (encoding DataEncoding) Known() bool {
	return encoding == DataEncodingTwosComplementLittleEndian ||
		encoding == DataEncodingTwosComplementBigEndian
}

func (osAbi OperatingSystemABI) Known() bool {
	return osAbi == OperatingSystemABIUnixSystemV || osAbi == OperatingSystemABILinux
}

func (ft FileType) Known() bool {
	return ft <= FileTypeCore
}

func (arch MachineArchitecture) Known() bool {
	switch arch {
	case MachineArchitectureX86, MachineArchitectureX86_64, MachineArchitectureAarch64:
		return true
	default:
		return false
	}
}

// Note: MachineArchitectureNone (0) is a valid raw discriminant ELF itself
// reserves (EM_NONE) but is not in this loader's recognised set; Known
// reports false for it. Known's recognised set (x86, x86-64, aarch64) is
// wider than what the header validator accepts, which is x86-64 only.

func (segType ProgramType) Known() bool {
	if segType <= ProgramTLS {
		return true
	}
	switch segType {
	case ProgramGNUEhFrame, ProgramGNUStack, ProgramGNURelro:
		return true
	default:
		return false
	}
}

func (stype SectionType) Known() bool {
	if stype <= SectionTypeDynamicSymbolTable {
		return true
	}
	if stype >= SectionTypeInitArray && stype <= SectionTypeNum {
		return true
	}
	switch stype {
	case SectionTypeGNUHash, SectionTypeGNUVerdef, SectionTypeGNUVerneed, SectionTypeGNUVersym:
		return true
	default:
		return false
	}
}

// Raw returns the underlying integer discriminant unconditionally, matching
// the tagged-enum decoder's "raw read" operation for fields whose width
// isn't already the field's own Go type.
func (class Class) Raw() byte              { return byte(class) }
func (encoding DataEncoding) Raw() byte    { return byte(encoding) }
func (osAbi OperatingSystemABI) Raw() byte { return byte(osAbi) }
func (ft FileType) Raw() uint16            { return uint16(ft) }
func (arch MachineArchitecture) Raw() uint16 {
	return uint16(arch)
}
func (segType ProgramType) Raw() uint32 { return uint32(segType) }
func (stype SectionType) Raw() uint32   { return uint32(stype) }

// Known reports whether the symbol type nibble is one of the recognised
// STT_* discriminants. Symbol accessors never hard-fail on an unrecognized
// nibble (String already renders an "Unknown(n)" form for it); Known lets a
// caller that wants the stricter accessor contract decide for itself.
func (st SymbolType) Known() bool {
	return st <= SymbolTypeTLSObject
}

func (sb SymbolBinding) Known() bool {
	return sb <= SymbolBindingWeak
}

func (st SymbolType) Raw() byte    { return byte(st) }
func (sb SymbolBinding) Raw() byte { return byte(sb) }
