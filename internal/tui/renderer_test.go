package tui

import (
	"strings"
	"testing"

	"github.com/clarabennett2626/logaudit/internal/analysis"
	"github.com/clarabennett2626/logaudit/internal/parser"
)

func plainRenderer(opts ...func(*RenderConfig)) *Renderer {
	cfg := DefaultConfig()
	cfg.TerminalWidth = 200 // wide enough to avoid truncation
	for _, o := range opts {
		o(&cfg)
	}
	return NewRenderer(cfg)
}

func TestRenderLevel(t *testing.T) {
	r := plainRenderer()
	for _, level := range []string{"DEBUG", "INFO", "WARN", "WARNING", "ERROR", "FATAL", "CRITICAL", "TRACE"} {
		entry := parser.LogEntry{Level: level, Message: "test", MatchedKeywords: []string{}}
		if out := r.RenderEntryPlain(entry); !strings.Contains(out, level) {
			t.Errorf("level=%q: got %q", level, out)
		}
		if out := StripANSI(r.RenderEntry(entry)); !strings.Contains(out, level) {
			t.Errorf("styled level=%q: got %q", level, out)
		}
	}
}

func TestRenderEntryPlain(t *testing.T) {
	r := plainRenderer()
	entry := parser.LogEntry{
		ID:              2,
		Timestamp:       "2024-01-15 10:30:00",
		Level:           "ERROR",
		Message:         "ERROR Database connection failed",
		MatchedKeywords: []string{"error", "fail"},
	}
	want := "!    3 │ ERROR │ 2024-01-15 10:30:00 │ ERROR Database connection failed │ keywords=error,fail"
	if got := r.RenderEntryPlain(entry); got != want {
		t.Errorf("RenderEntryPlain =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderEntryPlain_NotSuspicious(t *testing.T) {
	r := plainRenderer()
	entry := parser.LogEntry{ID: 0, Message: "all good", MatchedKeywords: []string{}}
	want := "     1 │ all good"
	if got := r.RenderEntryPlain(entry); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEntryPlain_HideIDsAndKeywords(t *testing.T) {
	r := plainRenderer(func(c *RenderConfig) {
		c.ShowIDs = false
		c.ShowKeywords = false
	})
	entry := parser.LogEntry{ID: 9, Message: "login denied", MatchedKeywords: []string{"denied"}}
	want := "! │ login denied"
	if got := r.RenderEntryPlain(entry); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEntry_Flag(t *testing.T) {
	r := plainRenderer()
	flagged := StripANSI(r.RenderEntry(parser.LogEntry{Message: "timeout", MatchedKeywords: []string{"timeout"}}))
	if !strings.HasPrefix(flagged, "!") {
		t.Errorf("suspicious entry should start with '!': %q", flagged)
	}
	clean := StripANSI(r.RenderEntry(parser.LogEntry{Message: "ok", MatchedKeywords: []string{}}))
	if strings.HasPrefix(clean, "!") {
		t.Errorf("clean entry should not be flagged: %q", clean)
	}
}

func TestKeywordSpans(t *testing.T) {
	tests := []struct {
		msg      string
		keywords []string
		want     [][2]int
	}{
		{"Access DENIED for user", []string{"denied"}, [][2]int{{7, 13}}},
		{"fail failed", []string{"fail"}, [][2]int{{0, 4}, {5, 9}}},
		{"errorfail", []string{"error", "fail"}, [][2]int{{0, 9}}},
		{"nothing here", []string{"error"}, nil},
		{"x", []string{""}, nil},
	}
	for _, tt := range tests {
		got := keywordSpans(tt.msg, tt.keywords)
		if len(got) != len(tt.want) {
			t.Errorf("keywordSpans(%q) = %v, want %v", tt.msg, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("keywordSpans(%q) = %v, want %v", tt.msg, got, tt.want)
				break
			}
		}
	}
}

func TestHighlightKeepsText(t *testing.T) {
	r := plainRenderer()
	out := StripANSI(r.highlight("Access DENIED for user", []string{"denied"}))
	if out != "Access DENIED for user" {
		t.Errorf("highlight changed text: %q", out)
	}
}

func TestStripANSI(t *testing.T) {
	input := "\x1b[31mERROR\x1b[0m something failed"
	got := StripANSI(input)
	if got != "ERROR something failed" {
		t.Errorf("StripANSI=%q, want %q", got, "ERROR something failed")
	}
}

func TestANSIPassthrough(t *testing.T) {
	r := plainRenderer(func(c *RenderConfig) { c.ANSIMode = ANSIPassthrough })
	entry := parser.LogEntry{Message: "\x1b[31mred text\x1b[0m", MatchedKeywords: []string{}}
	out := r.RenderEntryPlain(entry)
	if !strings.Contains(out, "\x1b[31m") {
		t.Error("ANSI codes should pass through")
	}
}

func TestANSIStrip(t *testing.T) {
	r := plainRenderer(func(c *RenderConfig) { c.ANSIMode = ANSIStrip })
	entry := parser.LogEntry{Message: "\x1b[31mred text\x1b[0m", MatchedKeywords: []string{}}
	out := r.RenderEntryPlain(entry)
	if strings.Contains(out, "\x1b[") {
		t.Error("ANSI codes should be stripped")
	}
	if !strings.Contains(out, "red text") {
		t.Error("text content should remain")
	}
}

func TestTruncation(t *testing.T) {
	r := plainRenderer(func(c *RenderConfig) {
		c.TerminalWidth = 30
		c.WrapMode = WrapTruncate
	})
	entry := parser.LogEntry{Message: "This is a very long message that should be truncated at the terminal width boundary"}
	out := r.RenderEntry(entry)
	plain := StripANSI(out)
	// ellipsis "…" is 3 bytes in UTF-8 but 1 visible char
	visibleLen := len([]rune(plain))
	if visibleLen > 30 {
		t.Errorf("expected truncated output <=30 runes, got %d: %q", visibleLen, plain)
	}
	if !strings.HasSuffix(plain, "…") {
		t.Error("truncated output should end with ellipsis")
	}
}

func TestWrapMode(t *testing.T) {
	r := plainRenderer(func(c *RenderConfig) {
		c.TerminalWidth = 30
		c.WrapMode = WrapWrap
	})
	entry := parser.LogEntry{Message: "This is a long message that should not be truncated in wrap mode"}
	out := r.RenderEntry(entry)
	plain := StripANSI(out)
	if strings.HasSuffix(plain, "…") {
		t.Error("wrap mode should not truncate")
	}
}

func TestSetWidth(t *testing.T) {
	r := plainRenderer()
	r.SetWidth(0)
	if r.config.TerminalWidth != 200 {
		t.Errorf("SetWidth(0) changed width to %d", r.config.TerminalWidth)
	}
	r.SetWidth(40)
	if r.config.TerminalWidth != 40 {
		t.Errorf("width = %d, want 40", r.config.TerminalWidth)
	}
}

func TestDarkTheme(t *testing.T) {
	r := NewRenderer(RenderConfig{Theme: ThemeDark, TerminalWidth: 200})
	entry := parser.LogEntry{Level: "ERROR", Message: "fail", MatchedKeywords: []string{"fail"}}
	out := r.RenderEntry(entry)
	if !strings.Contains(out, "ERROR") {
		t.Errorf("expected ERROR in output: %q", out)
	}
}

func TestLightTheme(t *testing.T) {
	r := NewRenderer(RenderConfig{Theme: ThemeLight, TerminalWidth: 200})
	entry := parser.LogEntry{Level: "INFO", Message: "ok"}
	out := r.RenderEntry(entry)
	if !strings.Contains(out, "INFO") {
		t.Errorf("expected INFO in output: %q", out)
	}
}

func TestRenderEntry_RawFallback(t *testing.T) {
	r := plainRenderer()
	entry := parser.LogEntry{Raw: "  raw log line here  "}
	out := r.RenderEntryPlain(entry)
	if !strings.Contains(out, "raw log line here") {
		t.Errorf("should fall back to Raw when Message empty: %q", out)
	}
}

func TestRenderStats(t *testing.T) {
	r := plainRenderer()
	stats := analysis.Stats{
		Total:         5,
		Suspicious:    2,
		KeywordCounts: map[string]int{"error": 2, "timeout": 0},
	}
	out := StripANSI(r.RenderStats(stats, []string{"error", "timeout"}))
	for _, want := range []string{"total 5", "flagged 2", "error:2", "timeout:0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if strings.Index(out, "error:2") > strings.Index(out, "timeout:0") {
		t.Error("keywords should keep their configured order")
	}
}

func TestRenderStatsPlain(t *testing.T) {
	stats := analysis.Stats{
		Total:         4,
		Suspicious:    1,
		KeywordCounts: map[string]int{"error": 1},
		LevelCounts:   map[string]int{"INFO": 3, "ERROR": 1},
	}
	got := RenderStatsPlain(stats, []string{"error"})
	want := "Total entries:      4\n" +
		"Suspicious entries: 1\n" +
		"Keyword matches:\n" +
		"  error            1\n" +
		"Levels:\n" +
		"  ERROR            1\n" +
		"  INFO             3\n"
	if got != want {
		t.Errorf("RenderStatsPlain =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderStatsPlain_NoKeywords(t *testing.T) {
	got := RenderStatsPlain(analysis.Stats{Total: 1}, nil)
	if strings.Contains(got, "Keyword matches") || strings.Contains(got, "Levels") {
		t.Errorf("unexpected sections in %q", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TerminalWidth != 120 {
		t.Errorf("default width=%d, want 120", cfg.TerminalWidth)
	}
	if cfg.Theme != ThemeDark {
		t.Error("default theme should be dark")
	}
	if cfg.ANSIMode != ANSIStrip {
		t.Error("default ANSI mode should be strip")
	}
	if !cfg.ShowIDs || !cfg.ShowKeywords {
		t.Error("default should show IDs and keywords")
	}
}

func BenchmarkRenderEntry(b *testing.B) {
	r := plainRenderer()
	entry := parser.LogEntry{
		ID:              41,
		Timestamp:       "2024-01-15 10:30:00",
		Level:           "ERROR",
		Message:         "ERROR Database connection failed after timeout",
		MatchedKeywords: []string{"error", "fail", "timeout"},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RenderEntry(entry)
	}
}
