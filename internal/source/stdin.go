package source

import (
	"fmt"
	"io"
	"os"

	"github.com/clarabennett2626/logaudit/internal/parser"
)

// StdinOption configures a StdinSource.
type StdinOption func(*StdinSource)

// WithReader overrides the default stdin reader (useful for testing).
func WithReader(r io.Reader) StdinOption {
	return func(s *StdinSource) { s.reader = r }
}

// WithMaxBytes caps how much input is accepted.
func WithMaxBytes(n int64) StdinOption {
	return func(s *StdinSource) { s.maxBytes = n }
}

// WithFormat sets the format of piped input. Stdin has no extension, so
// this defaults to plain.
func WithFormat(f parser.Format) StdinOption {
	return func(s *StdinSource) { s.format = f }
}

// StdinSource reads a complete payload from standard input, such as:
//
//	cat app.log | logaudit scan
//	kubectl logs pod | logaudit scan --search timeout
//	cat export.csv | logaudit scan --format tabular
type StdinSource struct {
	reader   io.Reader
	maxBytes int64
	format   parser.Format
}

// NewStdinSource creates a new StdinSource with the given options.
func NewStdinSource(opts ...StdinOption) *StdinSource {
	s := &StdinSource{
		reader:   os.Stdin,
		maxBytes: DefaultMaxBytes,
		format:   parser.FormatPlain,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// IsPipe reports whether stdin appears to be a pipe (not a terminal).
func IsPipe() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}

// Read consumes stdin until EOF and returns it as a payload.
func (s *StdinSource) Read() (Payload, error) {
	if s.format == parser.FormatUnknown {
		return Payload{}, fmt.Errorf("stdin: %w", ErrUnsupportedFormat)
	}
	text, err := readAll(s.reader, s.maxBytes)
	if err != nil {
		return Payload{}, fmt.Errorf("stdin read error: %w", err)
	}
	return Payload{Name: "stdin", Text: text, Format: s.format}, nil
}
