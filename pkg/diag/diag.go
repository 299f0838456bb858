package diag

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Level controls the verbosity of every logger built by this package.
var Level = new(slog.LevelVar)

// New returns a text diagnostic logger writing to w.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level}))
}

// NewWithFile returns a logger fanning out to a text handler on w and a
// JSON handler appending to the file at path. The returned closer owns
// the file handle.
func NewWithFile(w io.Writer, path string) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level}),
		slog.NewJSONHandler(f, &slog.HandlerOptions{Level: Level}),
	}
	return slog.New(slogmulti.Fanout(handlers...)), f, nil
}
