// Package source supplies complete log payloads from files, compressed
// files and stdin, and watches files for changes.
package source

import (
	"errors"

	"github.com/clarabennett2626/logaudit/internal/parser"
)

// ErrUnsupportedFormat is returned for files whose extension does not map
// to a known format.
var ErrUnsupportedFormat = errors.New("unsupported file type: please use a .txt, .log, or .csv file")

// Payload is a fully materialized input ready for ingestion.
type Payload struct {
	// Name identifies which file/source produced this payload.
	Name string
	// Text is the decoded content.
	Text string
	// Format is derived from the file extension or supplied by the caller.
	Format parser.Format
}
