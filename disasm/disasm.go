// Package disasm previews the instructions at an address inside a
// mapped binary's file content, the way a loader's pre-flight check
// might confirm it's about to hand control to a plausible entry point.
// It never touches a running process's memory - everything it decodes
// comes straight from the file bytes elfboot already mapped.
package disasm

import (
	"bytes"
	"fmt"

	"golang.org/x/arch/x86/x86asm"

	"github.com/quietside/elfboot/loaderror"
)

const maxX64InstructionLength = 15

var (
	endbr64 = []byte{0xf3, 0x0f, 0x1e, 0xfa}
	endbr32 = []byte{0xf3, 0x0f, 0x1e, 0xfb}
)

// Instruction is one decoded instruction, or one of the endbr32/endbr64
// landing-pad markers x86asm doesn't itself name.
type Instruction struct {
	Address   uint64
	IsEndbr64 bool
	IsEndbr32 bool
	x86asm.Inst
}

func (inst Instruction) String() string {
	if inst.IsEndbr64 {
		return fmt.Sprintf("0x%016x: endbr64", inst.Address)
	}
	if inst.IsEndbr32 {
		return fmt.Sprintf("0x%016x: endbr32", inst.Address)
	}

	return fmt.Sprintf(
		"0x%016x: %s", inst.Address, x86asm.GNUSyntax(inst.Inst, inst.Address, nil))
}

// Preview decodes up to count instructions starting at fileOffset within
// content, labeling each with the virtual address it would execute at
// once loaded (fileOffset's corresponding vaddr, passed in by the
// caller since disasm has no notion of segment placement itself).
func Preview(
	content []byte,
	fileOffset uint64,
	vaddr uint64,
	count int,
) (
	[]Instruction,
	error,
) {
	if count < 0 {
		return nil, loaderror.New(loaderror.KindElf, "negative instruction count")
	}
	if count == 0 {
		return nil, nil
	}

	if fileOffset > uint64(len(content)) {
		return nil, loaderror.New(loaderror.KindElf, "disasm offset past end of file")
	}

	data := content[fileOffset:]
	address := vaddr
	result := make([]Instruction, 0, count)

	for len(data) > 0 && len(result) < count {
		window := data
		if len(window) > maxX64InstructionLength {
			window = window[:maxX64InstructionLength]
		}

		var inst x86asm.Inst
		isEndbr64 := false
		isEndbr32 := false
		length := 0

		switch {
		case len(window) >= len(endbr64) && bytes.Equal(window[:len(endbr64)], endbr64):
			isEndbr64 = true
			length = len(endbr64)
		case len(window) >= len(endbr32) && bytes.Equal(window[:len(endbr32)], endbr32):
			isEndbr32 = true
			length = len(endbr32)
		default:
			decoded, err := x86asm.Decode(window, 64)
			if err != nil {
				return result, nil
			}
			inst = decoded
			length = decoded.Len
		}

		result = append(result, Instruction{
			Address:   address,
			IsEndbr64: isEndbr64,
			IsEndbr32: isEndbr32,
			Inst:      inst,
		})

		data = data[length:]
		address += uint64(length)
	}

	return result, nil
}
