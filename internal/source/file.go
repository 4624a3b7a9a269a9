package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/clarabennett2626/logaudit/internal/parser"
)

// DefaultMaxBytes caps the decoded size of a payload (64 MB).
const DefaultMaxBytes int64 = 64 << 20

// FileConfig holds configuration for loading a file.
type FileConfig struct {
	// MaxBytes is the largest decoded payload accepted. 0 means DefaultMaxBytes.
	MaxBytes int64
}

// LoadFile reads path into a Payload. The format comes from the extension;
// a trailing .gz or .zst is decompressed first and the inner extension
// decides (app.log.gz is plain).
func LoadFile(path string, cfg FileConfig) (Payload, error) {
	inner, codec := splitCompression(path)
	format := parser.FormatForPath(inner)
	if format == parser.FormatUnknown {
		return Payload{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return Payload{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r, closeFn, err := decoder(f, codec)
	if err != nil {
		return Payload{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer closeFn()

	text, err := readAll(r, cfg.MaxBytes)
	if err != nil {
		return Payload{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Payload{Name: path, Text: text, Format: format}, nil
}

// splitCompression strips a compression suffix and reports which codec it
// named ("gz", "zst" or "").
func splitCompression(path string) (string, string) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		return path[:len(path)-len(".gz")], "gz"
	case strings.HasSuffix(lower, ".zst"):
		return path[:len(path)-len(".zst")], "zst"
	default:
		return path, ""
	}
}

func decoder(r io.Reader, codec string) (io.Reader, func(), error) {
	switch codec {
	case "gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { gz.Close() }, nil
	case "zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	default:
		return r, func() {}, nil
	}
}

// readAll reads r fully, failing if more than max bytes are available.
func readAll(r io.Reader, max int64) (string, error) {
	if max <= 0 {
		max = DefaultMaxBytes
	}
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return "", err
	}
	if int64(len(b)) > max {
		return "", fmt.Errorf("payload exceeds %d bytes", max)
	}
	return string(b), nil
}
