package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchConfig holds configuration for a file watcher.
type WatchConfig struct {
	// Path is the file to watch.
	Path string
	// Debounce is how long to wait after the last change before reloading.
	Debounce time.Duration
	// PollInterval is the fallback stat interval for missed events.
	PollInterval time.Duration
	// File is passed through to LoadFile.
	File FileConfig
	// Logger receives watcher events. Nil disables logging.
	Logger *zap.Logger
}

// Watcher reloads a file whenever it changes on disk, including truncation
// and rotation, and emits the full new payload.
type Watcher struct {
	config   WatchConfig
	path     string
	payloads chan Payload
	errs     chan error
	logger   *zap.Logger
	cancel   context.CancelFunc
	once     sync.Once
	stopped  chan struct{}
}

// NewWatcher creates a watcher from the given config.
func NewWatcher(cfg WatchConfig) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 150 * time.Millisecond
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		config:   cfg,
		payloads: make(chan Payload, 4),
		errs:     make(chan error, 8),
		logger:   logger.With(zap.String("component", "watcher")),
		stopped:  make(chan struct{}),
	}
}

func (w *Watcher) Payloads() <-chan Payload { return w.payloads }
func (w *Watcher) Errors() <-chan error     { return w.errs }

// Start begins watching. It returns once the watch is established; reloads
// are delivered on Payloads until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	abs, err := filepath.Abs(w.config.Path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", w.config.Path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("file not found: %s", abs)
	}
	w.path = abs

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory so rotation (rename + create) is seen.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return fmt.Errorf("watching directory %s: %w", filepath.Dir(abs), err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	go func() {
		defer close(w.stopped)
		defer close(w.payloads)
		defer close(w.errs)
		defer fw.Close()
		w.loop(ctx, fw)
	}()

	w.logger.Info("watching file", zap.String("path", abs))
	return nil
}

// Stop cancels watching and waits for the watch goroutine to finish.
func (w *Watcher) Stop() error {
	w.once.Do(func() {
		if w.cancel != nil {
			w.cancel()
		}
	})
	if w.cancel != nil {
		<-w.stopped
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	last := w.fingerprint()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// debounce fires once after a burst of events.
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			abs, _ := filepath.Abs(event.Name)
			if abs != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				debounce.Reset(w.config.Debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.sendError(ctx, fmt.Errorf("watch error: %w", err))

		case <-ticker.C:
			// Catch changes the event stream missed.
			if fp := w.fingerprint(); fp != last {
				debounce.Reset(w.config.Debounce)
			}

		case <-debounce.C:
			fp := w.fingerprint()
			if fp == last {
				continue
			}
			last = fp
			if fp.missing {
				// Rotated away; the replacement will trigger another reload.
				continue
			}
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	p, err := LoadFile(w.path, w.config.File)
	if err != nil {
		w.logger.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
		w.sendError(ctx, err)
		return
	}
	w.logger.Debug("file reloaded", zap.String("path", w.path), zap.Int("bytes", len(p.Text)))
	select {
	case w.payloads <- p:
	case <-ctx.Done():
	}
}

type fingerprint struct {
	size    int64
	modTime time.Time
	missing bool
}

func (w *Watcher) fingerprint() fingerprint {
	st, err := os.Stat(w.path)
	if err != nil {
		return fingerprint{missing: true}
	}
	return fingerprint{size: st.Size(), modTime: st.ModTime()}
}

func (w *Watcher) sendError(ctx context.Context, err error) {
	select {
	case w.errs <- err:
	case <-ctx.Done():
	default:
	}
}
