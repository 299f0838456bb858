package terminal

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestReadBytesFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	defer r.Close()

	if _, err := w.Write([]byte{10, 'Z'}); err != nil {
		t.Fatalf("write error = %v", err)
	}
	w.Close()

	rd := NewReader(r)
	for _, want := range []byte{10, 'Z'} {
		b, err := rd.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte() error = %v", err)
		}
		if b != want {
			t.Errorf("ReadByte() = %d, want %d", b, want)
		}
	}

	if _, err := rd.ReadByte(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadByte() at end = %v, want io.EOF", err)
	}
}

func TestReadBytesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.bin")
	if err := os.WriteFile(path, []byte{0, 255}, 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	defer f.Close()

	rd := NewReader(f)
	for _, want := range []byte{0, 255} {
		b, err := rd.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte() error = %v", err)
		}
		if b != want {
			t.Errorf("ReadByte() = %d, want %d", b, want)
		}
	}
	if _, err := rd.ReadByte(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadByte() at end = %v, want io.EOF", err)
	}
}

func TestClosedSourceReportsError(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	w.Close()
	rd := NewReader(r)
	r.Close()

	if _, err := rd.ReadByte(); err == nil {
		t.Errorf("ReadByte() on closed source succeeded")
	}
}
