package machine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// TapeSize is the number of byte cells on the tape.
const TapeSize = 32768

type Opcode uint8

const (
	OpMoveLeft Opcode = iota
	OpMoveRight
	OpIncrement
	OpDecrement
	OpOutput
	OpInput
	OpLoopOpen
	OpLoopClose
)

// Glyph returns the source character for an opcode.
func (o Opcode) Glyph() byte {
	switch o {
	case OpMoveLeft:
		return '<'
	case OpMoveRight:
		return '>'
	case OpIncrement:
		return '+'
	case OpDecrement:
		return '-'
	case OpOutput:
		return '.'
	case OpInput:
		return ','
	case OpLoopOpen:
		return '['
	case OpLoopClose:
		return ']'
	}
	return '?'
}

func (o Opcode) String() string {
	return string(o.Glyph())
}

// OpcodeForGlyph maps a source character to its opcode.
func OpcodeForGlyph(b byte) (Opcode, bool) {
	switch b {
	case '<':
		return OpMoveLeft, true
	case '>':
		return OpMoveRight, true
	case '+':
		return OpIncrement, true
	case '-':
		return OpDecrement, true
	case '.':
		return OpOutput, true
	case ',':
		return OpInput, true
	case '[':
		return OpLoopOpen, true
	case ']':
		return OpLoopClose, true
	}
	return 0, false
}

// Instruction is one executable unit emitted by the assembler.
// Jump is the index of the matching bracket and is meaningful only
// for OpLoopOpen and OpLoopClose. Line is the 1-based source line.
type Instruction struct {
	Op   Opcode
	Jump int
	Line int
}

// Program is a compiled instruction stream. It is immutable after
// assembly; the machine only reads it.
type Program []Instruction

// Machine owns all mutable run state: the tape, the data pointer and
// the instruction pointer. A fresh Machine is zeroed and ready to run.
type Machine struct {
	Tape [TapeSize]byte
	DP   int
	IP   int

	// Strict turns pointer and cell boundary conditions into fatal
	// faults instead of wrapping.
	Strict bool

	Program Program

	// Output is where output instructions write. If nil, os.Stdout is used.
	Output io.Writer

	// Input supplies one byte per input instruction. If nil, os.Stdin
	// is read a byte at a time.
	Input io.ByteReader

	// Diag receives non-fatal diagnostics. If nil, slog.Default() is used.
	Diag *slog.Logger
}

func NewMachine() *Machine {
	return &Machine{}
}

// Load installs a program and rewinds the instruction pointer. The
// tape is left as is, so a machine can run several programs over the
// same cells.
func (m *Machine) Load(p Program) {
	m.Program = p
	m.IP = 0
}

// Reset zeroes the tape and both pointers.
func (m *Machine) Reset() {
	m.Tape = [TapeSize]byte{}
	m.DP = 0
	m.IP = 0
}

func (m *Machine) outputSink() io.Writer {
	if m.Output != nil {
		return m.Output
	}
	return os.Stdout
}

func (m *Machine) inputSource() io.ByteReader {
	if m.Input != nil {
		return m.Input
	}
	return stdinReader{}
}

func (m *Machine) diag() *slog.Logger {
	if m.Diag != nil {
		return m.Diag
	}
	return slog.Default()
}

type flusher interface {
	Flush() error
}

// Run executes the loaded program until the instruction pointer runs
// off the end of the stream or a fault occurs.
func (m *Machine) Run() error {
	for {
		done, err := m.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Step executes a single instruction. It returns done=true once the
// instruction pointer has reached the end of the program.
func (m *Machine) Step() (bool, error) {
	if m.IP >= len(m.Program) {
		return true, nil
	}

	inst := m.Program[m.IP]

	switch inst.Op {
	case OpMoveLeft:
		if m.DP > 0 {
			m.DP--
		} else if m.Strict {
			return false, &Fault{Err: ErrPointerUnderflow, Line: inst.Line}
		} else {
			m.DP = TapeSize - 1
		}
		m.IP++

	case OpMoveRight:
		if m.DP < TapeSize-1 {
			m.DP++
		} else if m.Strict {
			return false, &Fault{Err: ErrPointerOverflow, Line: inst.Line}
		} else {
			m.DP = 0
		}
		m.IP++

	case OpIncrement:
		if m.Strict && m.Tape[m.DP] == 255 {
			return false, &Fault{Err: ErrCellOverflow, Line: inst.Line}
		}
		m.Tape[m.DP]++
		m.IP++

	case OpDecrement:
		if m.Strict && m.Tape[m.DP] == 0 {
			return false, &Fault{Err: ErrCellUnderflow, Line: inst.Line}
		}
		m.Tape[m.DP]--
		m.IP++

	case OpOutput:
		sink := m.outputSink()
		if _, err := sink.Write([]byte{m.Tape[m.DP]}); err != nil {
			return false, fmt.Errorf("output write failed on line %d: %w", inst.Line, err)
		}
		// Output must be visible before the next input is requested.
		if f, ok := sink.(flusher); ok {
			if err := f.Flush(); err != nil {
				return false, fmt.Errorf("output flush failed on line %d: %w", inst.Line, err)
			}
		}
		m.IP++

	case OpInput:
		b, err := m.inputSource().ReadByte()
		if err != nil {
			return false, &Fault{Err: fmt.Errorf("%w: %v", ErrInputFailed, err), Line: inst.Line}
		}
		m.Tape[m.DP] = b
		m.IP++

	case OpLoopOpen:
		if m.Tape[m.DP] == 0 {
			m.IP = inst.Jump + 1
		} else {
			m.IP++
		}

	case OpLoopClose:
		if m.Tape[m.DP] != 0 {
			m.IP = inst.Jump + 1
		} else {
			m.IP++
		}

	default:
		// Unreachable for assembler-produced programs.
		m.diag().Warn("unknown instruction, skipping", "line", inst.Line, "opcode", uint8(inst.Op))
		m.IP++
	}

	return m.IP >= len(m.Program), nil
}

// stdinReader reads single unbuffered bytes from os.Stdin.
type stdinReader struct{}

func (stdinReader) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := os.Stdin.Read(buf[:])
	if n == 1 {
		return buf[0], nil
	}
	if err == nil {
		err = io.EOF
	}
	return 0, err
}
