package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clarabennett2626/logaudit/internal/analysis"
	"github.com/clarabennett2626/logaudit/internal/ingest"
	"github.com/clarabennett2626/logaudit/internal/parser"
	"github.com/clarabennett2626/logaudit/internal/session"
	"github.com/clarabennett2626/logaudit/internal/source"
	"github.com/clarabennett2626/logaudit/internal/tui"
)

type scanOptions struct {
	search  string
	flagged bool
	stats   bool
	watch   bool
	format  string
}

// report is the JSON document written by scan --output json.
type report struct {
	Session  string            `json:"session"`
	Name     string            `json:"name"`
	Format   string            `json:"format"`
	Keywords []string          `json:"keywords"`
	Entries  []parser.LogEntry `json:"entries"`
	Stats    *analysis.Stats   `json:"stats,omitempty"`
}

func newScanCmd(a *app) *cobra.Command {
	var opts scanOptions
	cmd := &cobra.Command{
		Use:   "scan [file|-]",
		Short: "Ingest a log file and print the classified entries",
		Long: `Ingest a .txt, .log or .csv file (optionally .gz or .zst compressed),
or standard input, and print every entry with its extracted timestamp,
level and matched keywords. Suspicious entries are marked with '!'.

Examples:
  logaudit scan app.log
  logaudit scan app.log.gz --flagged --stats
  logaudit scan export.csv --header no --output json
  cat app.log | logaudit scan --search "db-01"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "only show entries containing this text")
	f.BoolVarP(&opts.flagged, "flagged", "f", false, "only show suspicious entries")
	f.BoolVar(&opts.stats, "stats", false, "print keyword and level statistics")
	f.BoolVarP(&opts.watch, "watch", "w", false, "re-scan the file whenever it changes")
	f.StringVar(&opts.format, "format", "plain", "format of stdin input: plain, tabular")
	f.String("header", "auto", "tabular header row: auto, yes, no")
	f.StringP("output", "o", "text", "output format: text, json")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, args []string, opts scanOptions) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	if path == "-" && len(args) == 0 && !a.isPipe() {
		return errors.New("no input: pass a file or pipe logs to stdin")
	}
	if path != "-" && cmd.Flags().Changed("format") {
		return errors.New("--format only applies to stdin; file formats follow the extension")
	}
	if path == "-" && opts.watch {
		return errors.New("--watch needs a file")
	}
	format := parser.ParseFormat(opts.format)

	logger, err := a.newLogger(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	s := session.New(a.cfg.Keywords,
		session.WithLogger(logger),
		session.WithHeaderMode(a.cfg.Header),
	)
	s.SetSearch(opts.search)
	s.SetFlaggedOnly(opts.flagged)

	progress := ingest.WithProgress(func(f float64) {
		logger.Debug("ingest progress", zap.Float64("fraction", f))
	})

	p, err := a.readPayload(path, format)
	if err != nil {
		return err
	}
	if err := s.Load(p.Name, p.Text, p.Format, progress); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := a.printScan(out, s, opts.stats); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	// --- Watch mode ---
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	w := source.NewWatcher(source.WatchConfig{
		Path:   path,
		File:   source.FileConfig{MaxBytes: a.cfg.MaxBytes},
		Logger: logger,
	})
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()
	return a.watchScan(ctx, out, cmd.ErrOrStderr(), w, s, opts.stats, progress)
}

func (a *app) watchScan(ctx context.Context, out, errOut io.Writer, w *source.Watcher, s *session.Session, stats bool, progress ingest.Option) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case p, ok := <-w.Payloads():
			if !ok {
				return nil
			}
			if err := s.Load(p.Name, p.Text, p.Format, progress); err != nil {
				fmt.Fprintf(errOut, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "\n=== %s reloaded at %s ===\n", p.Name, s.LoadedAt().Format("15:04:05"))
			if err := a.printScan(out, s, stats); err != nil {
				return err
			}
		case err, ok := <-w.Errors():
			if ok {
				fmt.Fprintf(errOut, "Error: %v\n", err)
			}
		}
	}
}

func (a *app) printScan(out io.Writer, s *session.Session, withStats bool) error {
	entries := s.Visible()
	if entries == nil {
		entries = []parser.LogEntry{}
	}

	if a.cfg.Output == "json" {
		r := report{
			Session:  s.ID().String(),
			Name:     s.Name(),
			Format:   s.Format().String(),
			Keywords: s.Keywords(),
			Entries:  entries,
		}
		if withStats {
			st := s.Stats()
			r.Stats = &st
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	r := tui.NewRenderer(tui.DefaultConfig())
	for _, e := range entries {
		if _, err := fmt.Fprintln(out, r.RenderEntryPlain(e)); err != nil {
			return err
		}
	}
	if withStats {
		fmt.Fprintln(out)
		fmt.Fprint(out, tui.RenderStatsPlain(s.Stats(), s.Keywords()))
	}
	return nil
}
