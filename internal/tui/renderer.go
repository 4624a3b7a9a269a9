// Package tui provides terminal UI components for logaudit.
package tui

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clarabennett2626/logaudit/internal/analysis"
	"github.com/clarabennett2626/logaudit/internal/parser"
)

// Theme represents terminal color theme.
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

// ANSIMode controls how ANSI escape codes in source logs are handled.
type ANSIMode int

const (
	ANSIStrip ANSIMode = iota
	ANSIPassthrough
)

// WrapMode controls how long lines are handled.
type WrapMode int

const (
	WrapTruncate WrapMode = iota
	WrapWrap
)

// RenderConfig holds rendering configuration.
type RenderConfig struct {
	Theme         Theme
	ANSIMode      ANSIMode
	WrapMode      WrapMode
	TerminalWidth int
	ShowIDs       bool // prefix each entry with its source line number
	ShowKeywords  bool // append the matched keywords
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() RenderConfig {
	return RenderConfig{
		Theme:         ThemeDark,
		ANSIMode:      ANSIStrip,
		WrapMode:      WrapTruncate,
		TerminalWidth: 120,
		ShowIDs:       true,
		ShowKeywords:  true,
	}
}

// Renderer renders classified log entries as styled terminal output.
type Renderer struct {
	config RenderConfig
	styles themeStyles
}

type themeStyles struct {
	debug     lipgloss.Style
	info      lipgloss.Style
	warn      lipgloss.Style
	errLevel  lipgloss.Style
	fatal     lipgloss.Style
	timestamp lipgloss.Style
	message   lipgloss.Style
	lineNo    lipgloss.Style
	flag      lipgloss.Style
	keyword   lipgloss.Style
	separator lipgloss.Style
}

func darkStyles() themeStyles {
	return themeStyles{
		debug:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),           // gray
		info:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),            // blue
		warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),           // yellow
		errLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),           // red
		fatal:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // red bold
		timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),           // dim gray
		message:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")),           // white
		lineNo:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),           // dark gray
		flag:      lipgloss.NewStyle().Foreground(lipgloss.Color("202")).Bold(true), // orange
		keyword:   lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("214")),
		separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")), // dark gray
	}
}

func lightStyles() themeStyles {
	return themeStyles{
		debug:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		info:      lipgloss.NewStyle().Foreground(lipgloss.Color("27")),
		warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("172")),
		errLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		fatal:     lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		message:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")),
		lineNo:    lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		flag:      lipgloss.NewStyle().Foreground(lipgloss.Color("166")).Bold(true),
		keyword:   lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("222")),
		separator: lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	}
}

// NewRenderer creates a new Renderer with the given config.
func NewRenderer(config RenderConfig) *Renderer {
	if config.TerminalWidth <= 0 {
		config.TerminalWidth = 120
	}
	var styles themeStyles
	if config.Theme == ThemeLight {
		styles = lightStyles()
	} else {
		styles = darkStyles()
	}
	return &Renderer{config: config, styles: styles}
}

// SetWidth updates the terminal width used for truncation.
func (r *Renderer) SetWidth(w int) {
	if w > 0 {
		r.config.TerminalWidth = w
	}
}

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// RenderEntry renders a single LogEntry as a styled string.
func (r *Renderer) RenderEntry(entry parser.LogEntry) string {
	var parts []string

	// Flag + line number
	prefix := " "
	if entry.IsSuspicious() {
		prefix = r.styles.flag.Render("!")
	}
	if r.config.ShowIDs {
		prefix += r.styles.lineNo.Render(fmt.Sprintf("%5d", entry.ID+1))
	}
	parts = append(parts, prefix)

	if lvl := r.renderLevel(entry.Level); lvl != "" {
		parts = append(parts, lvl)
	}
	if entry.Timestamp != "" {
		parts = append(parts, r.styles.timestamp.Render(entry.Timestamp))
	}

	msg := r.messageText(entry)
	if msg != "" {
		parts = append(parts, r.highlight(msg, entry.MatchedKeywords))
	}

	if r.config.ShowKeywords && entry.IsSuspicious() {
		var kws []string
		for _, kw := range entry.MatchedKeywords {
			kws = append(kws, r.styles.keyword.Render(kw))
		}
		parts = append(parts, strings.Join(kws, " "))
	}

	line := strings.Join(parts, r.styles.separator.Render(" │ "))

	// Truncate or wrap
	return r.applyWrap(line)
}

// RenderEntryPlain renders without styling (for piping/testing visible text).
func (r *Renderer) RenderEntryPlain(entry parser.LogEntry) string {
	var parts []string

	prefix := " "
	if entry.IsSuspicious() {
		prefix = "!"
	}
	if r.config.ShowIDs {
		prefix += fmt.Sprintf("%5d", entry.ID+1)
	}
	parts = append(parts, prefix)

	if entry.Level != "" {
		parts = append(parts, fmt.Sprintf("%-5s", entry.Level))
	}
	if entry.Timestamp != "" {
		parts = append(parts, entry.Timestamp)
	}
	if msg := r.messageText(entry); msg != "" {
		parts = append(parts, msg)
	}
	if r.config.ShowKeywords && entry.IsSuspicious() {
		parts = append(parts, "keywords="+strings.Join(entry.MatchedKeywords, ","))
	}
	return strings.Join(parts, " │ ")
}

// messageText picks the text to show: the message, or the raw line when a
// tabular record mapped no message column.
func (r *Renderer) messageText(entry parser.LogEntry) string {
	msg := entry.Message
	if msg == "" {
		msg = strings.TrimSpace(entry.Raw)
	}
	if r.config.ANSIMode == ANSIStrip {
		msg = StripANSI(msg)
	}
	return msg
}

func (r *Renderer) renderLevel(level string) string {
	if level == "" {
		return ""
	}
	label := fmt.Sprintf("%-5s", level)
	switch level {
	case "DEBUG", "TRACE":
		return r.styles.debug.Render(label)
	case "INFO":
		return r.styles.info.Render(label)
	case "WARN", "WARNING":
		return r.styles.warn.Render(label)
	case "ERROR":
		return r.styles.errLevel.Render(label)
	case "FATAL", "CRITICAL":
		return r.styles.fatal.Render(label)
	default:
		return r.styles.message.Render(label)
	}
}

// highlight styles msg and marks every case-insensitive occurrence of the
// matched keywords.
func (r *Renderer) highlight(msg string, keywords []string) string {
	spans := keywordSpans(msg, keywords)
	if len(spans) == 0 {
		return r.styles.message.Render(msg)
	}
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s[0] > pos {
			b.WriteString(r.styles.message.Render(msg[pos:s[0]]))
		}
		b.WriteString(r.styles.keyword.Render(msg[s[0]:s[1]]))
		pos = s[1]
	}
	if pos < len(msg) {
		b.WriteString(r.styles.message.Render(msg[pos:]))
	}
	return b.String()
}

// keywordSpans returns sorted, non-overlapping byte ranges of keyword
// occurrences in msg.
func keywordSpans(msg string, keywords []string) [][2]int {
	lower := strings.ToLower(msg)
	if len(lower) != len(msg) {
		// Lowering changed byte offsets; skip highlighting.
		return nil
	}
	marked := make([]bool, len(msg))
	for _, kw := range keywords {
		k := strings.ToLower(kw)
		if k == "" {
			continue
		}
		for from := 0; from < len(lower); {
			i := strings.Index(lower[from:], k)
			if i < 0 {
				break
			}
			for j := from + i; j < from+i+len(k); j++ {
				marked[j] = true
			}
			from += i + len(k)
		}
	}
	var spans [][2]int
	for i := 0; i < len(marked); i++ {
		if !marked[i] {
			continue
		}
		start := i
		for i < len(marked) && marked[i] {
			i++
		}
		spans = append(spans, [2]int{start, i})
	}
	return spans
}

// RenderStats renders the keyword summary line.
func (r *Renderer) RenderStats(s analysis.Stats, keywords []string) string {
	parts := []string{
		fmt.Sprintf("total %d", s.Total),
		r.styles.flag.Render(fmt.Sprintf("flagged %d", s.Suspicious)),
	}
	for _, kc := range s.Ordered(keywords) {
		label := fmt.Sprintf("%s:%d", kc.Keyword, kc.Count)
		if kc.Count > 0 {
			label = r.styles.keyword.Render(label)
		} else {
			label = r.styles.lineNo.Render(label)
		}
		parts = append(parts, label)
	}
	return r.applyWrap(strings.Join(parts, " "))
}

// RenderStatsPlain renders aggregate statistics as a plain text block.
func RenderStatsPlain(s analysis.Stats, keywords []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total entries:      %d\n", s.Total)
	fmt.Fprintf(&b, "Suspicious entries: %d\n", s.Suspicious)
	if len(keywords) > 0 {
		b.WriteString("Keyword matches:\n")
		for _, kc := range s.Ordered(keywords) {
			fmt.Fprintf(&b, "  %-16s %d\n", kc.Keyword, kc.Count)
		}
	}
	if len(s.LevelCounts) > 0 {
		b.WriteString("Levels:\n")
		levels := make([]string, 0, len(s.LevelCounts))
		for l := range s.LevelCounts {
			levels = append(levels, l)
		}
		sort.Strings(levels)
		for _, l := range levels {
			fmt.Fprintf(&b, "  %-16s %d\n", l, s.LevelCounts[l])
		}
	}
	return b.String()
}

func (r *Renderer) applyWrap(line string) string {
	if r.config.WrapMode == WrapTruncate && r.config.TerminalWidth > 0 {
		// Strip ANSI to measure visible length, but truncate the raw string
		visible := StripANSI(line)
		if lipgloss.Width(visible) > r.config.TerminalWidth {
			return truncateToWidth(line, r.config.TerminalWidth-1) + "…"
		}
	}
	// WrapWrap: the terminal wraps naturally, just return as-is
	return line
}

// truncateToWidth truncates a string with ANSI codes to fit a visible width.
// Width is counted in runes.
func truncateToWidth(s string, width int) string {
	visible := 0
	inEscape := false
	var result []rune
	for _, c := range s {
		if c == '\x1b' {
			inEscape = true
			result = append(result, c)
			continue
		}
		if inEscape {
			result = append(result, c)
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
				inEscape = false
			}
			continue
		}
		if visible >= width {
			break
		}
		result = append(result, c)
		visible++
	}
	// Reset any style left open by the cut.
	if strings.Contains(s, "\x1b[") {
		result = append(result, []rune("\x1b[0m")...)
	}
	return string(result)
}
