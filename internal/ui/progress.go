package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mcfc/internal/buildpipeline"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	elapsedStyle = lipgloss.NewStyle().Faint(true)
)

// stage weights for the overall bar; an entry that finished counts as 1
var stageWeight = map[buildpipeline.Stage]float64{
	buildpipeline.StageParse:    0.2,
	buildpipeline.StageGenerate: 0.5,
	buildpipeline.StageWrite:    0.8,
	buildpipeline.StageRun:      0.9,
}

var stageVerb = map[buildpipeline.Stage]string{
	buildpipeline.StageParse:    "parsing",
	buildpipeline.StageGenerate: "generating",
	buildpipeline.StageWrite:    "writing",
	buildpipeline.StageRun:      "running",
}

type entryRow struct {
	module  string
	label   string
	stage   buildpipeline.Stage
	final   bool
	failed  bool
	elapsed time.Duration
}

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []entryRow
	byName  map[string]int
	phase   string
	width   int
	closed  bool
}

type eventMsg buildpipeline.Event
type closedMsg struct{}

// NewProgressModel renders pipeline events for the given entry modules,
// one row per entry plus an overall bar.
func NewProgressModel(title string, entries []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]entryRow, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
		width:   80,
	}
	for _, e := range entries {
		m.byName[e] = len(m.rows)
		m.rows = append(m.rows, entryRow{module: e, label: "queued"})
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) finished() int {
	n := 0
	for _, r := range m.rows {
		if r.final {
			n++
		}
	}
	return n
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := m.title
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	header += fmt.Sprintf(" [%d/%d]", m.finished(), len(m.rows))
	if m.closed {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-26, 20)
	for _, r := range m.rows {
		fmt.Fprintf(&b, "  %s %s", r.style().Render(fmt.Sprintf("%12s", r.label)), truncate(r.module, nameWidth))
		if r.final && r.elapsed > 0 {
			b.WriteString(" " + elapsedStyle.Render(r.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (r entryRow) style() lipgloss.Style {
	switch {
	case r.failed:
		return failStyle
	case r.final:
		return doneStyle
	case r.label == "queued":
		return idleStyle
	default:
		return activeStyle
	}
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	label := eventLabel(ev)
	if ev.File == "" {
		if label != "" {
			m.phase = label
		}
		return nil
	}
	i, ok := m.byName[ev.File]
	if !ok || label == "" {
		return nil
	}
	r := &m.rows[i]
	r.label = label
	r.stage = ev.Stage
	r.elapsed += ev.Elapsed
	switch ev.Status {
	case buildpipeline.StatusError:
		r.final, r.failed = true, true
	case buildpipeline.StatusDone:
		// write is the last stage of a build, run the last of a run
		r.final = ev.Stage == buildpipeline.StageWrite || ev.Stage == buildpipeline.StageRun
	default:
		r.final = false
	}
	if !r.final && ev.Status == buildpipeline.StatusDone {
		r.label = stageVerb[ev.Stage]
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	total := 0.0
	for _, r := range m.rows {
		if r.final {
			total++
			continue
		}
		total += stageWeight[r.stage]
	}
	return total / float64(len(m.rows))
}

func eventLabel(ev buildpipeline.Event) string {
	switch ev.Status {
	case buildpipeline.StatusQueued:
		return "queued"
	case buildpipeline.StatusDone:
		return "done"
	case buildpipeline.StatusError:
		return "error"
	case buildpipeline.StatusWorking:
		return stageVerb[ev.Stage]
	}
	return ""
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
