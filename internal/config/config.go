// Package config loads logaudit settings from a config file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/clarabennett2626/logaudit/internal/analysis"
	"github.com/clarabennett2626/logaudit/internal/ingest"
)

// Keys shared between flags, environment and config file.
const (
	KeyKeywords = "keywords"
	KeyHeader   = "header"
	KeyOutput   = "output"
	KeyLogLevel = "log_level"
	KeyLogFile  = "log_file"
	KeyMaxBytes = "max_bytes"
)

// Config holds all application configuration.
type Config struct {
	Keywords []string
	Header   ingest.HeaderMode
	Output   string
	LogLevel string
	LogFile  string
	MaxBytes int64
}

// New returns a viper instance with defaults and environment binding
// (LOGAUDIT_KEYWORDS, LOGAUDIT_LOG_LEVEL, ...).
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyKeywords, analysis.DefaultKeywords)
	v.SetDefault(KeyHeader, "auto")
	v.SetDefault(KeyOutput, "text")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyMaxBytes, int64(64<<20))

	v.SetEnvPrefix("logaudit")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads cfgFile, or .logaudit.yaml from $HOME or the working
// directory when cfgFile is empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".logaudit")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load resolves a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	header, err := ingest.ParseHeaderMode(v.GetString(KeyHeader))
	if err != nil {
		return nil, err
	}

	output := strings.ToLower(v.GetString(KeyOutput))
	if output != "text" && output != "json" {
		return nil, fmt.Errorf("invalid output format: %s", output)
	}

	return &Config{
		Keywords: analysis.NormalizeKeywords(splitList(v.GetStringSlice(KeyKeywords))),
		Header:   header,
		Output:   output,
		LogLevel: v.GetString(KeyLogLevel),
		LogFile:  v.GetString(KeyLogFile),
		MaxBytes: v.GetInt64(KeyMaxBytes),
	}, nil
}

// splitList flattens comma-separated entries, so both a YAML list and
// LOGAUDIT_KEYWORDS="error,fail" work.
func splitList(items []string) []string {
	var out []string
	for _, it := range items {
		out = append(out, strings.Split(it, ",")...)
	}
	return out
}
