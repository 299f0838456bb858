package machine

import (
	"io"
	"strings"
	"testing"
)

// benchProgram pairs brackets without the testing.T plumbing of the
// test helper.
func benchProgram(src string) Program {
	var prog Program
	var opens []int
	for _, c := range []byte(src) {
		op, ok := OpcodeForGlyph(c)
		if !ok {
			panic("bad glyph in bench program")
		}
		prog = append(prog, Instruction{Op: op, Line: 1})
		idx := len(prog) - 1
		switch op {
		case OpLoopOpen:
			opens = append(opens, idx)
		case OpLoopClose:
			open := opens[len(opens)-1]
			opens = opens[:len(opens)-1]
			prog[open].Jump = idx
			prog[idx].Jump = open
		}
	}
	return prog
}

// BenchmarkRun_Linear measures raw dispatch overhead with a straight
// block of increments.
func BenchmarkRun_Linear(b *testing.B) {
	prog := benchProgram(strings.Repeat("+", 1000))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := NewMachine()
		m.Output = io.Discard
		m.Load(prog)
		if err := m.Run(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRun_Loop measures jump-heavy execution: a clear loop that
// iterates 255 times per run.
func BenchmarkRun_Loop(b *testing.B) {
	prog := benchProgram("-[-]")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := NewMachine()
		m.Output = io.Discard
		m.Load(prog)
		if err := m.Run(); err != nil {
			b.Fatal(err)
		}
	}
}
