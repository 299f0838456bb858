package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"gobf/pkg/asm"
	"gobf/pkg/diag"
	"gobf/pkg/machine"
	"gobf/pkg/terminal"
)

const (
	historyFile = ".gobf_history"
	prompt      = "bf> "
)

const helpText = `commands:
  :tape    show the cells around the data pointer
  :reset   zero the tape and both pointers
  :strict  toggle strict mode
  :help    show this help
  :quit    exit
anything else is assembled and run on the persistent machine.
`

func main() {
	strict := flag.Bool("strict", false, "fault on pointer/cell boundary conditions instead of wrapping")
	logPath := flag.String("log", "", "append JSON diagnostics to this file")
	flag.Parse()

	logger := diag.New(os.Stderr)
	if *logPath != "" {
		l, closer, err := diag.NewWithFile(os.Stderr, *logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %q: %v\n", *logPath, err)
			os.Exit(1)
		}
		defer closer.Close()
		logger = l
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	assembler := asm.NewAssembler()
	assembler.Diag = logger

	m := machine.NewMachine()
	m.Strict = *strict
	m.Diag = logger
	m.Input = terminal.NewReader(os.Stdin)

	fmt.Println("gobf REPL. Ctrl+D exits. Type :help for commands.")
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(trimmed, ":") {
			if quit := runCommand(trimmed, m); quit {
				return
			}
			continue
		}

		program, err := assembler.AssembleString(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		m.Load(program)
		if err := m.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func runCommand(cmd string, m *machine.Machine) bool {
	switch cmd {
	case ":quit", ":q":
		return true
	case ":reset":
		m.Reset()
		fmt.Println("machine reset")
	case ":strict":
		m.Strict = !m.Strict
		fmt.Printf("strict mode %v\n", m.Strict)
	case ":tape":
		printTape(m)
	case ":help":
		fmt.Print(helpText)
	default:
		fmt.Printf("unknown command %s\n", cmd)
	}
	return false
}

// printTape shows a 16-cell window around the data pointer.
func printTape(m *machine.Machine) {
	start := m.DP - 8
	if start < 0 {
		start = 0
	}
	end := start + 16
	if end > machine.TapeSize {
		end = machine.TapeSize
		start = end - 16
	}
	for i := start; i < end; i++ {
		marker := "  "
		if i == m.DP {
			marker = "> "
		}
		fmt.Printf("%s[%5d] %3d\n", marker, i, m.Tape[i])
	}
}
