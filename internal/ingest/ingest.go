// Package ingest turns a fully materialized log payload into a collection
// of classified entries.
package ingest

import (
	"errors"
	"strings"

	"github.com/clarabennett2626/logaudit/internal/parser"
)

// ErrEmptyInput is returned when the payload has no non-blank line.
var ErrEmptyInput = errors.New("file is empty")

// HeaderMode controls whether the first tabular record is a header.
type HeaderMode int

const (
	// HeaderAuto inspects the first record with parser.DetectHeader.
	HeaderAuto HeaderMode = iota
	// HeaderPresent always treats the first record as a header.
	HeaderPresent
	// HeaderAbsent always treats the first record as data.
	HeaderAbsent
)

func (h HeaderMode) String() string {
	switch h {
	case HeaderPresent:
		return "yes"
	case HeaderAbsent:
		return "no"
	default:
		return "auto"
	}
}

// ParseHeaderMode maps "auto", "yes"/"true", "no"/"false" to a HeaderMode.
func ParseHeaderMode(s string) (HeaderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return HeaderAuto, nil
	case "yes", "true", "present":
		return HeaderPresent, nil
	case "no", "false", "absent":
		return HeaderAbsent, nil
	default:
		return HeaderAuto, errors.New("invalid header mode: " + s)
	}
}

// progressEvery is how many lines pass between progress reports.
const progressEvery = 100

// Option configures a single Ingest call.
type Option func(*options)

type options struct {
	header   HeaderMode
	progress func(fraction float64)
}

// WithHeader overrides header detection for tabular input.
func WithHeader(h HeaderMode) Option {
	return func(o *options) { o.header = h }
}

// WithProgress registers a callback that receives the fraction of lines
// processed, every 100 lines and once more with 1 when done.
func WithProgress(fn func(fraction float64)) Option {
	return func(o *options) { o.progress = fn }
}

// Result is the outcome of a successful ingestion.
type Result struct {
	Entries []parser.LogEntry
	// Header holds the header columns when the first tabular record was
	// consumed as a header.
	Header []string
	// Lines is the number of lines the payload was split into.
	Lines int
}

// Ingest splits text on newlines, parses every non-blank line with the
// parser for format, and classifies it against keywords. Entry IDs are
// line indexes in text. Ingestion is all-or-nothing: on error no entries
// are returned.
func Ingest(text string, format parser.Format, keywords []string, opts ...Option) (Result, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	lines := strings.Split(text, "\n")
	if !hasContent(lines) {
		return Result{}, ErrEmptyInput
	}

	var header []string
	start := 0
	if format == parser.FormatTabular && useHeader(lines, o.header) {
		header = parser.SplitFields(strings.TrimSpace(lines[0]))
		start = 1
	}

	kws := append([]string(nil), keywords...)
	p := parser.NewParser(format, header, kws)
	total := len(lines)
	entries := make([]parser.LogEntry, 0, total-start)

	for i := start; i < total; i++ {
		line := lines[i]
		if strings.TrimSpace(line) != "" {
			entries = append(entries, p.Parse(line, i))
		}
		if o.progress != nil && i%progressEvery == 0 {
			o.progress(float64(i) / float64(total))
		}
	}
	if o.progress != nil {
		o.progress(1)
	}

	return Result{Entries: entries, Header: header, Lines: total}, nil
}

// useHeader decides whether lines[0] is a header. Auto detection needs more
// than one line.
func useHeader(lines []string, mode HeaderMode) bool {
	switch mode {
	case HeaderPresent:
		return true
	case HeaderAbsent:
		return false
	default:
		return len(lines) > 1 && parser.DetectHeader(lines[0])
	}
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}
