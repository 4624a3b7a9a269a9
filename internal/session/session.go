// Package session owns the current analysis: the entry collection of the
// last ingested payload, the active keyword list and the search term.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clarabennett2626/logaudit/internal/analysis"
	"github.com/clarabennett2626/logaudit/internal/ingest"
	"github.com/clarabennett2626/logaudit/internal/parser"
)

// Session is not safe for concurrent use; it is meant to be driven from a
// single loop such as a CLI command or the TUI update function.
type Session struct {
	id       uuid.UUID
	name     string
	format   parser.Format
	header   ingest.HeaderMode
	entries  []parser.LogEntry
	keywords []string
	search   string
	flagged  bool
	loadedAt time.Time
	logger   *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for session events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithHeaderMode sets the header handling used for tabular loads.
func WithHeaderMode(h ingest.HeaderMode) Option {
	return func(s *Session) { s.header = h }
}

// New creates an empty session with the given keywords.
func New(keywords []string, opts ...Option) *Session {
	s := &Session{
		keywords: analysis.NormalizeKeywords(keywords),
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With(zap.String("component", "session"))
	return s
}

// Load ingests text and, on success, replaces the current collection
// wholesale. On failure the previous collection is left untouched.
func (s *Session) Load(name, text string, format parser.Format, opts ...ingest.Option) error {
	opts = append([]ingest.Option{ingest.WithHeader(s.header)}, opts...)
	res, err := ingest.Ingest(text, format, s.keywords, opts...)
	if err != nil {
		s.logger.Warn("ingestion failed",
			zap.String("name", name),
			zap.Stringer("format", format),
			zap.Error(err))
		return fmt.Errorf("ingesting %s: %w", name, err)
	}

	s.id = uuid.New()
	s.name = name
	s.format = format
	s.entries = res.Entries
	s.loadedAt = time.Now()

	s.logger.Info("payload ingested",
		zap.String("session", s.id.String()),
		zap.String("name", name),
		zap.Stringer("format", format),
		zap.Int("lines", res.Lines),
		zap.Int("entries", len(res.Entries)),
		zap.Bool("header", res.Header != nil))
	return nil
}

// SetKeywords replaces the keyword list and reclassifies every entry.
func (s *Session) SetKeywords(keywords []string) {
	s.keywords = analysis.NormalizeKeywords(keywords)
	s.entries = analysis.Reclassify(s.entries, s.keywords)
	s.logger.Info("entries reclassified",
		zap.String("session", s.id.String()),
		zap.Strings("keywords", s.keywords),
		zap.Int("entries", len(s.entries)))
}

// SetSearch sets the free-text search term.
func (s *Session) SetSearch(term string) { s.search = term }

// SetFlaggedOnly restricts Visible to suspicious entries.
func (s *Session) SetFlaggedOnly(on bool) { s.flagged = on }

// ID returns the identifier of the last successful load, or uuid.Nil.
func (s *Session) ID() uuid.UUID { return s.id }

// Name returns the name of the loaded payload.
func (s *Session) Name() string { return s.name }

// Format returns the format of the loaded payload.
func (s *Session) Format() parser.Format { return s.format }

// LoadedAt returns when the current collection was ingested.
func (s *Session) LoadedAt() time.Time { return s.loadedAt }

// Loaded reports whether a payload has been ingested.
func (s *Session) Loaded() bool { return s.id != uuid.Nil }

// Keywords returns a copy of the active keyword list.
func (s *Session) Keywords() []string { return append([]string(nil), s.keywords...) }

// Search returns the current search term.
func (s *Session) Search() string { return s.search }

// FlaggedOnly reports whether only suspicious entries are visible.
func (s *Session) FlaggedOnly() bool { return s.flagged }

// Entries returns a copy of the full collection.
func (s *Session) Entries() []parser.LogEntry {
	return append([]parser.LogEntry(nil), s.entries...)
}

// Visible returns the entries matching the search term and, if enabled,
// the flagged-only restriction.
func (s *Session) Visible() []parser.LogEntry {
	out := analysis.Filter(s.entries, s.search)
	if s.flagged {
		out = analysis.FilterSuspicious(out)
	}
	return out
}

// Stats aggregates the full collection against the active keywords.
func (s *Session) Stats() analysis.Stats {
	return analysis.Aggregate(s.entries, s.keywords)
}
