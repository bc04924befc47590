// Package explore is a tiny readline REPL for poking at an already
// parsed binary: list sections, dump a symbol table, or look up what
// symbol covers an address. It is enrichment on top of the one-shot
// dump elfboot prints by default, not a replacement for it.
package explore

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/quietside/elfboot/elf"
)

// Run starts the REPL over file, reading commands until EOF or
// interrupt.
func Run(file *elf.File) error {
	rl, err := readline.New("elfboot> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := dispatch(file, line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func dispatch(file *elf.File, line string) error {
	fields := strings.Fields(line)
	name := fields[0]
	args := fields[1:]

	switch {
	case strings.HasPrefix("sections", name):
		return cmdSections(file)
	case strings.HasPrefix("symbols", name):
		return cmdSymbols(file, args)
	case strings.HasPrefix("symbolat", name):
		return cmdSymbolAt(file, args)
	case strings.HasPrefix("help", name):
		fmt.Println("commands: sections, symbols <table>, symbolat <address>, help")
		return nil
	default:
		return fmt.Errorf("unknown command: %s", name)
	}
}

func cmdSections(file *elf.File) error {
	for i, section := range file.Sections {
		fmt.Printf("[%d] %s\n", i, section.Name())
	}
	return nil
}

func cmdSymbols(file *elf.File, args []string) error {
	name := ".symtab"
	if len(args) > 0 {
		name = args[0]
	}

	section, ok := file.GetSection(name)
	if !ok {
		return fmt.Errorf("no such section: %s", name)
	}

	table, ok := section.(*elf.SymbolTableSection)
	if !ok {
		return fmt.Errorf("%s is not a symbol table", name)
	}

	for i, symbol := range table.Symbols {
		fmt.Printf("%d: %x %s\n", i, symbol.Value, symbol.PrettyName())
	}
	return nil
}

func cmdSymbolAt(file *elf.File, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: symbolat <address>")
	}

	addr, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", args[0], err)
	}

	for _, section := range file.Sections {
		table, ok := section.(*elf.SymbolTableSection)
		if !ok {
			continue
		}

		if symbol := table.SymbolSpans(elf.FileAddress(addr)); symbol != nil {
			fmt.Printf("%s+0x%x\n", symbol.PrettyName(), addr-uint64(symbol.Value))
			return nil
		}
	}

	fmt.Println("no symbol covers that address")
	return nil
}
