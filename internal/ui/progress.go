package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"chamber/internal/driver"
)

type rowState uint8

const (
	rowQueued rowState = iota
	rowWorking
	rowDone
	rowCached
	rowFailed
)

func (s rowState) final() bool { return s >= rowDone }

// stages lists the per-file stages in the order a check runs them; weight
// is the share of a file's bar filled once the stage has started.
var stages = map[driver.Stage]struct {
	label  string
	weight float64
}{
	driver.StageLoad:    {"loading", 0.1},
	driver.StageParse:   {"parsing", 0.4},
	driver.StageAnalyze: {"analyzing", 0.8},
	driver.StageFormat:  {"formatting", 0.8},
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	errStyle    = lipgloss.NewStyle().Faint(true)
	stateStyles = map[rowState]lipgloss.Style{
		rowQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		rowWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		rowDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		rowCached:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		rowFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

type fileRow struct {
	path  string
	state rowState
	stage driver.Stage
	err   error
}

func (r fileRow) label() string {
	switch r.state {
	case rowWorking:
		return stages[r.stage].label
	case rowDone:
		return "done"
	case rowCached:
		return "cached"
	case rowFailed:
		return "error"
	}
	return "queued"
}

func (r fileRow) share() float64 {
	if r.state.final() {
		return 1
	}
	if r.state == rowWorking {
		return stages[r.stage].weight
	}
	return 0
}

type progressModel struct {
	title   string
	events  <-chan driver.ProgressEvent
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	width   int
	done    bool

	finishedN, failedN, cachedN int
}

type eventMsg driver.ProgressEvent
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that lists files and their
// check status. It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.ProgressEvent) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = stateStyles[rowWorking]

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.rows[i] = fileRow{path: file}
		m.byPath[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.ProgressEvent(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	lead := m.spinner.View()
	if m.done {
		lead = "done:"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %s (%d/%d)", lead, m.title, m.finishedN, len(m.rows))))
	b.WriteString("\n\n")

	const labelWidth = 10
	pathWidth := max(m.width-labelWidth-4, 20)
	for _, row := range m.rows {
		label := stateStyles[row.state].Render(fmt.Sprintf("%*s", labelWidth, row.label()))
		fmt.Fprintf(&b, "  %s %s", label, truncate(row.path, pathWidth))
		if row.err != nil {
			b.WriteString(" " + errStyle.Render(truncate(row.err.Error(), pathWidth/2)))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	if m.failedN > 0 || m.cachedN > 0 {
		fmt.Fprintf(&b, "%d failed, %d from cache\n", m.failedN, m.cachedN)
	}
	return b.String()
}

// next waits for one event; a closed channel ends the program.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// applyEvent moves a row forward. Final rows and unknown files are ignored.
func (m *progressModel) applyEvent(ev driver.ProgressEvent) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok || m.rows[i].state.final() {
		return nil
	}
	row := &m.rows[i]
	switch ev.Status {
	case driver.StatusQueued:
		row.state = rowQueued
	case driver.StatusWorking:
		if _, known := stages[ev.Stage]; !known {
			return nil
		}
		row.state = rowWorking
	case driver.StatusDone:
		row.state = rowDone
	case driver.StatusCached:
		row.state = rowCached
		m.cachedN++
	case driver.StatusError:
		row.state = rowFailed
		row.err = ev.Err
		m.failedN++
	default:
		return nil
	}
	row.stage = ev.Stage
	if row.state.final() {
		m.finishedN++
	}

	var total float64
	for _, r := range m.rows {
		total += r.share()
	}
	return m.bar.SetPercent(total / float64(len(m.rows)))
}

// truncate cuts value to width display cells, ending with "..." when there
// is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
