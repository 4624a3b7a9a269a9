package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/clarabennett2626/logaudit/internal/parser"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFile_Formats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		format parser.Format
	}{
		{"app.log", parser.FormatPlain},
		{"notes.txt", parser.FormatPlain},
		{"export.CSV", parser.FormatTabular},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			writeFile(t, path, []byte("line1\nline2\n"))

			p, err := LoadFile(path, FileConfig{})
			if err != nil {
				t.Fatal(err)
			}
			if p.Format != tt.format {
				t.Errorf("Format = %v, want %v", p.Format, tt.format)
			}
			if p.Text != "line1\nline2\n" {
				t.Errorf("Text = %q", p.Text)
			}
			if p.Name != path {
				t.Errorf("Name = %q, want %q", p.Name, path)
			}
		})
	}
}

func TestLoadFile_Unsupported(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"data.json", "image.png.gz", "noext"} {
		path := filepath.Join(dir, name)
		writeFile(t, path, []byte("x"))
		_, err := LoadFile(path, FileConfig{})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("LoadFile(%s) err = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("/nonexistent/file.log", FileConfig{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Error("missing file reported as unsupported")
	}
}

func TestLoadFile_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte("time,level,message\nt1,error,boom\n"))
	zw.Close()

	path := filepath.Join(t.TempDir(), "export.csv.gz")
	writeFile(t, path, buf.Bytes())

	p, err := LoadFile(path, FileConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Format != parser.FormatTabular {
		t.Errorf("Format = %v, want tabular", p.Format)
	}
	if !strings.Contains(p.Text, "t1,error,boom") {
		t.Errorf("Text = %q", p.Text)
	}
}

func TestLoadFile_Zstd(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	zw.Write([]byte("2024-01-15 10:30:00 ERROR boom\n"))
	zw.Close()

	path := filepath.Join(t.TempDir(), "app.log.zst")
	writeFile(t, path, buf.Bytes())

	p, err := LoadFile(path, FileConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Format != parser.FormatPlain || p.Text != "2024-01-15 10:30:00 ERROR boom\n" {
		t.Errorf("payload = %+v", p)
	}
}

func TestLoadFile_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log.gz")
	writeFile(t, path, []byte("not gzip"))
	if _, err := LoadFile(path, FileConfig{}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoadFile_MaxBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.log")
	writeFile(t, path, []byte(strings.Repeat("x", 100)))

	if _, err := LoadFile(path, FileConfig{MaxBytes: 99}); err == nil {
		t.Error("expected size error")
	}
	if _, err := LoadFile(path, FileConfig{MaxBytes: 100}); err != nil {
		t.Errorf("exact limit rejected: %v", err)
	}
}

func nextPayload(t *testing.T, w *Watcher, timeout time.Duration) Payload {
	t.Helper()
	select {
	case p, ok := <-w.Payloads():
		if !ok {
			t.Fatal("payload channel closed")
		}
		return p
	case <-time.After(timeout):
		t.Fatal("timeout waiting for reload")
	}
	return Payload{}
}

func TestWatcher_ReloadOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	writeFile(t, path, []byte("initial\n"))

	w := NewWatcher(WatchConfig{Path: path, Debounce: 20 * time.Millisecond, PollInterval: 100 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	f, _ := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	f.WriteString("appended\n")
	f.Close()

	p := nextPayload(t, w, 3*time.Second)
	if p.Text != "initial\nappended\n" {
		t.Errorf("reloaded text = %q", p.Text)
	}
	if p.Format != parser.FormatPlain {
		t.Errorf("Format = %v", p.Format)
	}
}

func TestWatcher_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	writeFile(t, path, []byte("before\n"))

	w := NewWatcher(WatchConfig{Path: path, Debounce: 20 * time.Millisecond, PollInterval: 100 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Simulate rotation: rename old, create new.
	os.Rename(path, path+".1")
	time.Sleep(200 * time.Millisecond)
	writeFile(t, path, []byte("after\n"))

	p := nextPayload(t, w, 5*time.Second)
	if p.Text != "after\n" {
		t.Errorf("expected rotated content, got %q", p.Text)
	}
}

func TestWatcher_MissingFile(t *testing.T) {
	w := NewWatcher(WatchConfig{Path: "/nonexistent/file.log"})
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop on unstarted watcher: %v", err)
	}
}

func TestWatcher_StopClosesChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	writeFile(t, path, []byte("x\n"))

	w := NewWatcher(WatchConfig{Path: path})
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()

	if _, ok := <-w.Payloads(); ok {
		t.Error("payloads channel still open after Stop")
	}
}
