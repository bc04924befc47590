// Command elfboot parses an ELF64 binary, plans how its PT_LOAD
// segments would be mapped, and prints what it found. It takes the
// place of the original's freestanding entry point: given exactly one
// path argument, it does what that loader's _start would have done up
// through the point of handing control to the loaded program, minus
// ever actually doing so.
package main

import (
	"flag"
	"fmt"

	"github.com/quietside/elfboot"
	"github.com/quietside/elfboot/disasm"
	"github.com/quietside/elfboot/elf"
	"github.com/quietside/elfboot/elfconfig"
	"github.com/quietside/elfboot/entry"
	"github.com/quietside/elfboot/explore"
	"github.com/quietside/elfboot/loaderror"
)

func main() {
	entry.Run(run)
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	disassemble := flag.Bool("disasm", false, "preview instructions at the entry point")
	exploreFlag := flag.Bool("explore", false, "start an interactive REPL after printing")
	flag.Parse()

	cfg := elfconfig.Default()
	if *configPath != "" {
		loaded, err := elfconfig.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if flag.NArg() != 1 {
		return loaderror.New(loaderror.KindCli, "usage: elfboot [flags] <path>")
	}

	path := flag.Arg(0)

	program, err := elfboot.Open(path)
	if err != nil {
		return err
	}

	printSummary(program)

	mappings, err := elfboot.PlanSegments(program)
	if err != nil {
		return err
	}

	printMappings(mappings)

	showDisasm := cfg.Disassemble
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "disasm" {
			showDisasm = *disassemble
		}
	})

	if showDisasm {
		if err := printDisasm(program, mappings, cfg.DisassembleCount); err != nil {
			return err
		}
	}

	if *exploreFlag {
		return explore.Run(program.File)
	}

	return nil
}

func printSummary(program *elfboot.Program) {
	fmt.Printf("Header: %v\n", program.ElfHeader)

	fmt.Println("Sections:", len(program.Sections))
	for i, section := range program.Sections {
		fmt.Printf("  [%d] %s: %v\n", i, section.Name(), section.Header())

		switch s := section.(type) {
		case *elf.StringTableSection:
			fmt.Printf("    string entries: %d\n", s.NumEntries())
		case *elf.SymbolTableSection:
			for j, sym := range s.Symbols {
				fmt.Printf(
					"    %d: %x %d %s %s %s\n",
					j, sym.Value, sym.Size, sym.Type(), sym.Binding(), sym.PrettyName())
			}
		case *elf.NoteSection:
			for j, note := range s.Entries {
				fmt.Printf("    %d: %s type=%d\n", j, note.Name, note.Type)
			}
		}
	}

	fmt.Println("Program headers:", len(program.ProgramHeaders))
	for i, header := range program.ProgramHeaders {
		fmt.Printf("  [%d] %v\n", i, header)
	}
}

func printMappings(mappings []elfboot.Mapping) {
	fmt.Println("Planned segment mappings:")
	for _, m := range mappings {
		fmt.Printf(
			"  vaddr=%#x memsz=%#x fileoff=%#x filesz=%#x prot=%v\n",
			m.VirtualAddress, m.MemorySize, m.FileOffset, m.FileSize, m.Protection)
	}
}

func printDisasm(program *elfboot.Program, mappings []elfboot.Mapping, count int) error {
	entryVaddr := program.EntryPoint()

	var containing *elfboot.Mapping
	for i := range mappings {
		m := &mappings[i]
		if entryVaddr >= m.VirtualAddress && entryVaddr < m.VirtualAddress+m.FileSize {
			containing = m
			break
		}
	}
	if containing == nil {
		return loaderror.New(loaderror.KindElf, "entry point is not inside any PT_LOAD segment")
	}

	fileOffset := containing.FileOffset + (entryVaddr - containing.VirtualAddress)

	instructions, err := disasm.Preview(program.RawContent(), fileOffset, entryVaddr, count)
	if err != nil {
		return err
	}

	fmt.Println("Entry point preview:")
	for _, inst := range instructions {
		fmt.Printf("  %s\n", inst)
	}

	return nil
}
