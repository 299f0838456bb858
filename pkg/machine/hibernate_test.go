package machine

import (
	"io"
	"path/filepath"
	"testing"
)

func TestHibernateRoundTrip(t *testing.T) {
	prog := compile(t, "+++[>+<-]")

	m := newSilentMachine()
	m.Strict = true
	m.Load(prog)

	// Run partway into the loop, then snapshot.
	for i := 0; i < 5; i++ {
		done, err := m.Step()
		if err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if done {
			t.Fatalf("program finished before snapshot point")
		}
	}

	data, err := m.HibernateToBytes()
	if err != nil {
		t.Fatalf("HibernateToBytes() error = %v", err)
	}

	restored := NewMachine()
	restored.Output = io.Discard
	if err := restored.RestoreFromBytes(data); err != nil {
		t.Fatalf("RestoreFromBytes() error = %v", err)
	}

	if restored.IP != m.IP || restored.DP != m.DP || restored.Strict != m.Strict {
		t.Errorf("restored state IP=%d DP=%d strict=%v, want IP=%d DP=%d strict=%v",
			restored.IP, restored.DP, restored.Strict, m.IP, m.DP, m.Strict)
	}
	if restored.Tape != m.Tape {
		t.Errorf("restored tape differs from snapshot")
	}
	if len(restored.Program) != len(prog) {
		t.Fatalf("restored program length = %d, want %d", len(restored.Program), len(prog))
	}
	for i := range prog {
		if restored.Program[i] != prog[i] {
			t.Errorf("restored instruction %d = %+v, want %+v", i, restored.Program[i], prog[i])
		}
	}

	// The resumed run must finish with the same tape as an
	// uninterrupted one.
	if err := restored.Run(); err != nil {
		t.Fatalf("resumed Run() error = %v", err)
	}
	reference := newSilentMachine()
	reference.Load(prog)
	if err := reference.Run(); err != nil {
		t.Fatalf("reference Run() error = %v", err)
	}
	if restored.Tape != reference.Tape {
		t.Errorf("resumed run diverged from uninterrupted run")
	}
}

func TestHibernateFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.zip")

	m := newSilentMachine()
	m.Load(compile(t, "++>++"))
	if err := m.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := m.HibernateToFile(path); err != nil {
		t.Fatalf("HibernateToFile() error = %v", err)
	}

	restored := NewMachine()
	if err := restored.RestoreFromFile(path); err != nil {
		t.Fatalf("RestoreFromFile() error = %v", err)
	}
	if restored.Tape[0] != 2 || restored.Tape[1] != 2 || restored.DP != 1 {
		t.Errorf("restored cells = %d,%d DP=%d, want 2,2 DP=1",
			restored.Tape[0], restored.Tape[1], restored.DP)
	}
}

func TestRestoreRejectsGarbage(t *testing.T) {
	m := NewMachine()
	if err := m.RestoreFromBytes([]byte("not a zip archive")); err == nil {
		t.Errorf("RestoreFromBytes() accepted garbage input")
	}
}

func TestRestoreRejectsTruncatedArchive(t *testing.T) {
	m := newSilentMachine()
	m.Load(compile(t, "+"))
	data, err := m.HibernateToBytes()
	if err != nil {
		t.Fatalf("HibernateToBytes() error = %v", err)
	}

	if err := m.RestoreFromBytes(data[:len(data)/2]); err == nil {
		t.Errorf("RestoreFromBytes() accepted a truncated archive")
	}

	// Sanity: the intact archive still restores.
	if err := m.RestoreFromBytes(data); err != nil {
		t.Errorf("RestoreFromBytes() on intact archive: %v", err)
	}
}
