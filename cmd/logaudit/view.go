package main

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/clarabennett2626/logaudit/internal/parser"
	"github.com/clarabennett2626/logaudit/internal/session"
	"github.com/clarabennett2626/logaudit/internal/source"
	"github.com/clarabennett2626/logaudit/internal/tui"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		watch bool
		light bool
	)
	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Browse a log file in the terminal viewer",
		Long: `Open a log file in an interactive viewer.

Keys:
  /        search (live)
  K        edit keywords, comma-separated; entries are reclassified
  s        toggle suspicious-only
  j/k g/G  scroll, top, bottom
  q        quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.newLogger(true)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if args[0] == "-" {
				return errors.New("view needs a file; use scan for stdin")
			}
			p, err := a.readPayload(args[0], parser.FormatUnknown)
			if err != nil {
				return err
			}
			s := session.New(a.cfg.Keywords,
				session.WithLogger(logger),
				session.WithHeaderMode(a.cfg.Header),
			)
			if err := s.Load(p.Name, p.Text, p.Format); err != nil {
				return err
			}

			rc := tui.DefaultConfig()
			if light {
				rc.Theme = tui.ThemeLight
			}
			prog := tea.NewProgram(tui.NewModel(s, tui.NewRenderer(rc)), tea.WithAltScreen())

			if watch {
				w := source.NewWatcher(source.WatchConfig{
					Path:   args[0],
					File:   source.FileConfig{MaxBytes: a.cfg.MaxBytes},
					Logger: logger,
				})
				if err := w.Start(cmd.Context()); err != nil {
					return err
				}
				defer w.Stop()
				tui.ListenForPayloads(w, prog)
			}

			_, err = prog.Run()
			return err
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the file whenever it changes")
	cmd.Flags().BoolVar(&light, "light", false, "use colors for light terminals")
	cmd.Flags().String("header", "auto", "tabular header row: auto, yes, no")
	return cmd
}
