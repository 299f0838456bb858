package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gobf/pkg/asm"
	"gobf/pkg/diag"
	"gobf/pkg/machine"
)

func main() {
	inPath := flag.String("in", "", "input source file path")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in <file> to list its instruction stream")
		flag.Usage()
		os.Exit(2)
	}

	source, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input file %q: %v\n", *inPath, err)
		os.Exit(1)
	}

	assembler := asm.NewAssembler()
	assembler.Diag = diag.New(os.Stderr)
	program, err := assembler.Assemble(strings.Split(string(source), "\n"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembly failed: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "index\top\tjump\tline")
	for i, inst := range program {
		jump := ""
		if inst.Op == machine.OpLoopOpen || inst.Op == machine.OpLoopClose {
			jump = strconv.Itoa(inst.Jump)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i, inst.Op, jump, inst.Line)
	}
	w.Flush()

	fmt.Printf("assembled %d instructions from %s\n", len(program), *inPath)
}
