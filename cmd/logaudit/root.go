package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/clarabennett2626/logaudit/internal/config"
	"github.com/clarabennett2626/logaudit/internal/logging"
	"github.com/clarabennett2626/logaudit/internal/parser"
	"github.com/clarabennett2626/logaudit/internal/source"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	stdin   io.Reader
	isPipe  func() bool
}

// boundKeys are config keys that may also be set by a flag of the same
// name (with '-' for '_').
var boundKeys = []string{
	config.KeyKeywords,
	config.KeyHeader,
	config.KeyOutput,
	config.KeyLogLevel,
	config.KeyLogFile,
	config.KeyMaxBytes,
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      config.New(),
		stdin:  stdin,
		isPipe: source.IsPipe,
	}

	root := &cobra.Command{
		Use:   "logaudit",
		Short: "LogAudit: keyword-based log triage",
		Long: `LogAudit ingests plain-text and CSV log files, extracts timestamps and
severity levels, and flags entries that contain suspicious keywords.

Examples:
  logaudit scan app.log
  logaudit scan export.csv --flagged --output json
  kubectl logs pod | logaudit scan --search timeout
  logaudit view app.log --watch`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(versionString() + "\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: $HOME/.logaudit.yaml)")
	pf.StringSliceP("keywords", "k", nil, "suspicious keywords, comma-separated (default: built-in list)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "write logs to this file instead of stderr")
	pf.Int64("max-bytes", source.DefaultMaxBytes, "largest accepted input in bytes")

	root.AddCommand(newScanCmd(a), newViewCmd(a), newVersionCmd())
	return root
}

// loadConfig binds the flags of the running command and resolves the
// configuration from flags, environment and config file.
func (a *app) loadConfig(cmd *cobra.Command) error {
	for _, key := range boundKeys {
		if f := cmd.Flags().Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) newLogger(forTUI bool) (*zap.Logger, error) {
	if forTUI {
		return logging.ForTUI(a.cfg.LogLevel, a.cfg.LogFile)
	}
	return logging.New(a.cfg.LogLevel, a.cfg.LogFile)
}

// readPayload loads path, or stdin when path is "-".
func (a *app) readPayload(path string, format parser.Format) (source.Payload, error) {
	if path == "-" {
		src := source.NewStdinSource(
			source.WithReader(a.stdin),
			source.WithMaxBytes(a.cfg.MaxBytes),
			source.WithFormat(format),
		)
		return src.Read()
	}
	return source.LoadFile(path, source.FileConfig{MaxBytes: a.cfg.MaxBytes})
}

func versionString() string {
	return fmt.Sprintf("logaudit %s (%s) built %s", version, commit, date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No config needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}
}
