package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clarabennett2626/logaudit/internal/session"
	"github.com/clarabennett2626/logaudit/internal/source"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#333333")).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Background(lipgloss.Color("#333333")).
			Bold(true).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#C0392B")).
			Padding(0, 1)
)

// PayloadMsg carries a freshly loaded payload (e.g. from a file watcher)
// into the TUI. It replaces the current collection.
type PayloadMsg struct {
	Payload source.Payload
}

// ErrMsg carries a source error into the TUI.
type ErrMsg struct {
	Err error
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeKeywords
)

// Model is the main TUI model for logaudit.
type Model struct {
	width  int
	height int
	ready  bool

	session  *session.Session
	renderer *Renderer

	// Rendered visible entries.
	lines []string

	// Virtual scrolling state.
	offset     int  // index of the first visible line
	autoScroll bool // stick to bottom when the collection is reloaded

	// Input line state for search and keyword editing.
	mode       inputMode
	input      []rune
	prevSearch string

	err error
}

// NewModel creates a TUI model over s.
func NewModel(s *session.Session, r *Renderer) Model {
	if r == nil {
		r = NewRenderer(DefaultConfig())
	}
	m := Model{session: s, renderer: r}
	m.refresh()
	return m
}

// refresh re-renders the visible entries from the session.
func (m *Model) refresh() {
	visible := m.session.Visible()
	m.lines = make([]string, 0, len(visible))
	for _, e := range visible {
		m.lines = append(m.lines, m.renderer.RenderEntry(e))
	}
	if m.autoScroll {
		m.offset = m.maxOffset()
	}
	m.clampOffset()
}

// viewHeight returns the number of lines available for log display
// (total height minus title, summary and status bars).
func (m Model) viewHeight() int {
	h := m.height - 3
	if h < 1 {
		return 1
	}
	return h
}

// maxOffset returns the maximum valid scroll offset.
func (m Model) maxOffset() int {
	max := len(m.lines) - m.viewHeight()
	if max < 0 {
		return 0
	}
	return max
}

// clampOffset ensures offset is within valid bounds.
func (m *Model) clampOffset() {
	if m.offset < 0 {
		m.offset = 0
	}
	if max := m.maxOffset(); m.offset > max {
		m.offset = max
	}
}

// isAtBottom returns true if the viewport is scrolled to the bottom.
func (m Model) isAtBottom() bool {
	return m.offset >= m.maxOffset()
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode != modeNormal {
			m.updateInput(msg)
			return m, nil
		}
		return m.updateNormal(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.renderer.SetWidth(msg.Width)
		m.refresh()

	case PayloadMsg:
		p := msg.Payload
		if err := m.session.Load(p.Name, p.Text, p.Format); err != nil {
			// The previous collection stays on screen.
			m.err = err
			return m, nil
		}
		m.err = nil
		m.refresh()

	case ErrMsg:
		m.err = msg.Err
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		m.prevSearch = m.session.Search()
		m.input = []rune(m.prevSearch)
	case "K":
		m.mode = modeKeywords
		m.input = []rune(strings.Join(m.session.Keywords(), ", "))
	case "s":
		m.session.SetFlaggedOnly(!m.session.FlaggedOnly())
		m.offset = 0
		m.refresh()
	case "esc":
		if m.session.Search() != "" {
			m.session.SetSearch("")
			m.refresh()
		}
		m.err = nil
	case "j", "down":
		m.autoScroll = false
		m.offset++
		m.clampOffset()
		if m.isAtBottom() {
			m.autoScroll = true
		}
	case "k", "up":
		m.autoScroll = false
		m.offset--
		m.clampOffset()
	case "g", "home":
		m.autoScroll = false
		m.offset = 0
	case "G", "end":
		m.offset = m.maxOffset()
		m.autoScroll = true
	case "pgdown", "f", "ctrl+f":
		m.autoScroll = false
		m.offset += m.viewHeight()
		m.clampOffset()
		if m.isAtBottom() {
			m.autoScroll = true
		}
	case "pgup", "b", "ctrl+b":
		m.autoScroll = false
		m.offset -= m.viewHeight()
		m.clampOffset()
	case "d", "ctrl+d":
		m.autoScroll = false
		m.offset += m.viewHeight() / 2
		m.clampOffset()
		if m.isAtBottom() {
			m.autoScroll = true
		}
	case "u", "ctrl+u":
		m.autoScroll = false
		m.offset -= m.viewHeight() / 2
		m.clampOffset()
	}
	return m, nil
}

// updateInput edits the input line. Search is applied as the user types;
// keywords are applied on enter.
func (m *Model) updateInput(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.mode == modeKeywords {
			m.session.SetKeywords(strings.Split(string(m.input), ","))
		}
		m.mode = modeNormal
		m.input = nil
		m.refresh()
		return
	case tea.KeyEsc:
		if m.mode == modeSearch {
			m.session.SetSearch(m.prevSearch)
		}
		m.mode = modeNormal
		m.input = nil
		m.refresh()
		return
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	default:
		return
	}
	if m.mode == modeSearch {
		m.session.SetSearch(string(m.input))
		m.offset = 0
		m.refresh()
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	// Title bar.
	title := titleStyle.Render("LogAudit")
	if name := m.session.Name(); name != "" {
		title += " " + name
	}
	b.WriteString(title)
	b.WriteByte('\n')

	// Keyword summary.
	b.WriteString(m.renderer.RenderStats(m.session.Stats(), m.session.Keywords()))
	b.WriteByte('\n')

	// Log viewport; virtual scrolling renders only the visible slice.
	vh := m.viewHeight()
	if len(m.lines) == 0 {
		empty := "  No log entries."
		if m.session.Loaded() && (m.session.Search() != "" || m.session.FlaggedOnly()) {
			empty = "  No entries match the current filter."
		}
		for i := 0; i < vh; i++ {
			if i == vh/2-1 {
				b.WriteString(empty)
			}
			b.WriteByte('\n')
		}
	} else {
		end := m.offset + vh
		if end > len(m.lines) {
			end = len(m.lines)
		}
		start := m.offset
		if start < 0 {
			start = 0
		}
		// Render visible lines.
		rendered := 0
		for i := start; i < end; i++ {
			b.WriteString(m.lines[i])
			b.WriteByte('\n')
			rendered++
		}
		// Pad remaining lines.
		for i := rendered; i < vh; i++ {
			b.WriteByte('\n')
		}
	}

	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) statusLine() string {
	switch m.mode {
	case modeSearch:
		return statusBarStyle.Render("/" + string(m.input) + "█")
	case modeKeywords:
		return statusBarStyle.Render("keywords: " + string(m.input) + "█")
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	total := len(m.session.Entries())
	scrollInfo := "bottom"
	if len(m.lines) > 0 && !m.isAtBottom() {
		pct := 0
		if m.maxOffset() > 0 {
			pct = m.offset * 100 / m.maxOffset()
		}
		scrollInfo = fmt.Sprintf("%d%%", pct)
	}

	left := statusKeyStyle.Render("Entries:") + statusBarStyle.Render(fmt.Sprintf(" %d/%d ", len(m.lines), total))
	filter := ""
	if q := m.session.Search(); q != "" {
		filter = statusKeyStyle.Render("Search:") + statusBarStyle.Render(fmt.Sprintf(" %s ", q))
	}
	if m.session.FlaggedOnly() {
		filter += statusKeyStyle.Render("Flagged only")
	}
	right := statusKeyStyle.Render("Pos:") + statusBarStyle.Render(fmt.Sprintf(" %s ", scrollInfo))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(filter) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	statusLine := left + filter + strings.Repeat(" ", gap) + right
	// Fill background.
	return statusBarStyle.Render(statusLine)
}

// ListenForPayloads forwards reloads and errors from a watcher to the
// program. Use with tea.Program.Send from a goroutine.
func ListenForPayloads(w *source.Watcher, prog *tea.Program) {
	go func() {
		for p := range w.Payloads() {
			prog.Send(PayloadMsg{Payload: p})
		}
	}()
	go func() {
		for err := range w.Errors() {
			prog.Send(ErrMsg{Err: err})
		}
	}()
}
