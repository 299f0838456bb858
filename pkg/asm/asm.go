package asm

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"gobf/pkg/machine"
)

// commentStarts are the characters that open a rest-of-line comment.
var commentStarts = map[rune]bool{
	'#': true,
	'/': true,
	';': true,
}

// charClass is the closed set of character classes the scanner
// distinguishes. Classifying up front keeps the warning path
// unreachable for any recognized class.
type charClass int

const (
	classOpcode charClass = iota
	classComment
	classSpace
	classUnknown
)

func classify(r rune) (machine.Opcode, charClass) {
	if r < 128 {
		if op, ok := machine.OpcodeForGlyph(byte(r)); ok {
			return op, classOpcode
		}
	}
	if commentStarts[r] {
		return 0, classComment
	}
	if unicode.IsSpace(r) {
		return 0, classSpace
	}
	return 0, classUnknown
}

type Assembler struct {
	// Diag receives unrecognized-character warnings. If nil,
	// slog.Default() is used.
	Diag *slog.Logger
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble compiles source lines with a default Assembler.
func Assemble(lines []string) (machine.Program, error) {
	return NewAssembler().Assemble(lines)
}

// AssembleString splits src on newlines and assembles it.
func (a *Assembler) AssembleString(src string) (machine.Program, error) {
	return a.Assemble(strings.Split(src, "\n"))
}

// Assemble scans the source lines in order and produces the executable
// instruction stream. Loop brackets are resolved to mutual jump
// targets; unbalanced brackets are a fatal error naming the line.
func (a *Assembler) Assemble(lines []string) (machine.Program, error) {
	var program machine.Program
	var scopeOpens []int

	for i, line := range lines {
		lineNo := i + 1

	scan:
		for _, r := range line {
			op, class := classify(r)
			switch class {
			case classOpcode:
				program = append(program, machine.Instruction{Op: op, Line: lineNo})
				idx := len(program) - 1

				switch op {
				case machine.OpLoopOpen:
					scopeOpens = append(scopeOpens, idx)
				case machine.OpLoopClose:
					if len(scopeOpens) == 0 {
						return nil, fmt.Errorf("unmatched ']' on line %d", lineNo)
					}
					open := scopeOpens[len(scopeOpens)-1]
					scopeOpens = scopeOpens[:len(scopeOpens)-1]
					program[open].Jump = idx
					program[idx].Jump = open
				}

			case classComment:
				break scan

			case classSpace:
				// skip

			case classUnknown:
				a.diag().Warn("unrecognized character, ignoring", "line", lineNo, "char", string(r))
			}
		}
	}

	if len(scopeOpens) > 0 {
		open := scopeOpens[len(scopeOpens)-1]
		return nil, fmt.Errorf("unmatched '[' on line %d", program[open].Line)
	}

	return program, nil
}

func (a *Assembler) diag() *slog.Logger {
	if a.Diag != nil {
		return a.Diag
	}
	return slog.Default()
}
