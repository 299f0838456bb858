package terminal

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrInterrupted is returned when Ctrl-C arrives during a raw-mode read.
var ErrInterrupted = errors.New("interrupted")

// Reader reads single bytes from a file handle. When the handle is a
// terminal, each read switches into raw mode so the byte arrives
// unbuffered and unechoed.
type Reader struct {
	f     *os.File
	isTTY bool
}

func NewReader(f *os.File) *Reader {
	return &Reader{f: f, isTTY: term.IsTerminal(int(f.Fd()))}
}

// ReadByte blocks until one byte is available or the source fails.
// In raw mode Ctrl-D is reported as io.EOF and Ctrl-C as ErrInterrupted.
func (r *Reader) ReadByte() (byte, error) {
	if !r.isTTY {
		return r.readPlain()
	}

	fd := int(r.f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return r.readPlain()
	}
	defer term.Restore(fd, oldState)

	b, err := r.readPlain()
	if err != nil {
		return 0, err
	}
	switch b {
	case 0x04: // Ctrl-D, end of transmission
		return 0, io.EOF
	case 0x03: // Ctrl-C
		return 0, ErrInterrupted
	}
	return b, nil
}

func (r *Reader) readPlain() (byte, error) {
	var buf [1]byte
	n, err := r.f.Read(buf[:])
	if n == 1 {
		return buf[0], nil
	}
	if err == nil {
		err = io.EOF
	}
	return 0, err
}
