package main

import (
	"fmt"
	"os"
	"strings"

	"gobf/pkg/asm"
	"gobf/pkg/diag"
	"gobf/pkg/machine"
	"gobf/pkg/terminal"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [--strict] <filepath>\n", os.Args[0])
	os.Exit(2)
}

func main() {
	args := os.Args[1:]
	strict := false

	switch len(args) {
	case 1:
	case 2:
		if args[0] != "--strict" {
			usage()
		}
		strict = true
		args = args[1:]
	default:
		usage()
	}
	path := args[0]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read source file %q: %v\n", path, err)
		os.Exit(1)
	}

	logger := diag.New(os.Stderr)

	assembler := asm.NewAssembler()
	assembler.Diag = logger
	program, err := assembler.Assemble(strings.Split(string(source), "\n"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembly failed: %v\n", err)
		os.Exit(1)
	}

	m := machine.NewMachine()
	m.Strict = strict
	m.Input = terminal.NewReader(os.Stdin)
	m.Diag = logger
	m.Load(program)

	if err := m.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
}
