package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"airshield-sim/internal/config"
	"airshield-sim/internal/threat"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// trackMsg carries a track log line for the viewport.
type trackMsg struct{ line string }

// eventMsg carries an event log line.
type eventMsg struct{ line string }

// countersMsg carries a counters update.
type countersMsg struct{ Counters }

const maxTUILogLines = 1000

// TUIWriter renders threat tracks using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.SimulationConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

func statusGlyph(status string) string {
	switch threat.Status(status) {
	case threat.StatusIntercepted:
		return "✓"
	case threat.StatusImpacted:
		return "✗"
	default:
		return "➤"
	}
}

// Write implements TrackWriter.
func (w *TUIWriter) Write(row TrackRow) error {
	line := fmt.Sprintf("[%s] %s threat=%s lat=%.4f lng=%.4f spd=%.4f status=%s",
		row.Timestamp.Format(time.RFC3339),
		statusGlyph(row.Status),
		shortID(row.ThreatID), row.Lat, row.Lng, row.Speed, row.Status)
	if row.DetectedBy != "" {
		line += " radar=" + row.DetectedBy
	}
	if row.InterceptorID != "" {
		line += fmt.Sprintf(" interceptor=%s (%.4f,%.4f)", row.InterceptorID, row.InterceptorLat, row.InterceptorLng)
	}
	w.program.Send(trackMsg{line: line})
	return nil
}

// WriteBatch outputs multiple track rows.
func (w *TUIWriter) WriteBatch(rows []TrackRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEvent implements EventWriter.
func (w *TUIWriter) WriteEvent(row EventRow) error {
	line := fmt.Sprintf("[%s] %-9s %s", row.Timestamp.Format(time.RFC3339), strings.ToUpper(row.Kind), row.Message)
	w.program.Send(eventMsg{line: line})
	return nil
}

// WriteEvents outputs multiple events.
func (w *TUIWriter) WriteEvents(rows []EventRow) error {
	for _, r := range rows {
		_ = w.WriteEvent(r)
	}
	return nil
}

// UpdateCounters pushes the current counters into the footer.
func (w *TUIWriter) UpdateCounters(c Counters) {
	w.program.Send(countersMsg{Counters: c})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg          *config.SimulationConfig
	table        table.Model
	trackVP      viewport.Model
	eventVP      viewport.Model
	trackLines   []string
	eventLines   []string
	counters     Counters
	wrap         bool
	autoscroll   bool
	help         bool
	height       int
	headerHeight int
}

func newTUIModel(cfg *config.SimulationConfig) tuiModel {
	cols := []table.Column{
		{Title: "Unit", Width: 18},
		{Title: "Role", Width: 12},
		{Title: "Range (km)", Width: 10},
		{Title: "Shot Speed", Width: 10},
	}
	var rows []table.Row
	for _, u := range cfg.Units {
		rows = append(rows, table.Row{
			u.Name, u.Role,
			fmt.Sprintf("%.0f", u.RangeKM),
			fmt.Sprintf("%.3f", u.ShotSpeed),
		})
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		trackVP:    viewport.New(0, 0),
		eventVP:    viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.trackVP.Width = msg.Width
		m.eventVP.Width = msg.Width
		m.height = msg.Height
		m.headerHeight = lipgloss.Height(m.table.View())
		m.resize()
		m.refresh()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refresh()
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.trackVP.GotoBottom()
				m.eventVP.GotoBottom()
			}
		case "h", "?":
			m.help = !m.help
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.trackVP.LineDown(1)
				m.eventVP.LineDown(1)
			case "k", "up":
				m.trackVP.LineUp(1)
				m.eventVP.LineUp(1)
			case "pgdown", "ctrl+n":
				m.trackVP.LineDown(10)
				m.eventVP.LineDown(10)
			case "pgup", "ctrl+p":
				m.trackVP.LineUp(10)
				m.eventVP.LineUp(10)
			}
		}
	case trackMsg:
		m.trackLines = append(m.trackLines, msg.line)
		if len(m.trackLines) > maxTUILogLines {
			m.trackLines = m.trackLines[len(m.trackLines)-maxTUILogLines:]
		}
		m.refresh()
	case eventMsg:
		m.eventLines = append(m.eventLines, msg.line)
		if len(m.eventLines) > maxTUILogLines {
			m.eventLines = m.eventLines[len(m.eventLines)-maxTUILogLines:]
		}
		m.refresh()
	case countersMsg:
		m.counters = msg.Counters
	}
	return m, nil
}

func (m *tuiModel) resize() {
	eventHeight := m.height / 4
	if eventHeight < 3 {
		eventHeight = 3
	}
	m.eventVP.Height = eventHeight
	trackHeight := m.height - m.headerHeight - eventHeight - 5
	if trackHeight < 0 {
		trackHeight = 0
	}
	m.trackVP.Height = trackHeight
}

func (m *tuiModel) refresh() {
	m.trackVP.SetContent(m.renderLines(m.trackLines, m.trackVP.Width))
	m.eventVP.SetContent(m.renderLines(m.eventLines, m.eventVP.Width))
	if m.autoscroll {
		m.trackVP.GotoBottom()
		m.eventVP.GotoBottom()
	}
}

func (m *tuiModel) renderLines(lines []string, width int) string {
	if len(lines) == 0 {
		return "none"
	}
	if !m.wrap || width <= 0 {
		return strings.Join(lines, "\n")
	}
	wrapped := make([]string, len(lines))
	for i, l := range lines {
		wrapped[i] = wordwrap.String(l, width)
	}
	return strings.Join(wrapped, "\n")
}

func (m tuiModel) renderFooter() string {
	moving := m.counters.Launched - m.counters.Intercepted - m.counters.Impacted
	style := lipgloss.NewStyle().Bold(true)
	return fmt.Sprintf("%s launched=%d moving=%d intercepted=%d impacted=%d | q quit | w wrap | s scroll | ? help",
		style.Render("COUNTERS"), m.counters.Launched, moving, m.counters.Intercepted, m.counters.Impacted)
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle word wrap",
		" s  toggle auto-scroll",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.trackVP.Width)
	sections := []string{
		m.table.View(),
		divider,
		m.trackVP.View(),
		divider,
		"Events:",
		m.eventVP.View(),
		divider,
		m.renderFooter(),
	}
	return strings.Join(sections, "\n")
}
