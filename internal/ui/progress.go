package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"vuec/internal/buildpipeline"
)

type rowState uint8

const (
	rowQueued rowState = iota
	rowWorking
	rowDone
	rowCached
	rowFailed
)

// templateRow is one template line of the view.
type templateRow struct {
	path  string
	state rowState
	// stage is the stage last reported; stageDone marks it finished.
	stage     buildpipeline.Stage
	stageDone bool
	elapsed   time.Duration
}

func (r templateRow) label() string {
	switch r.state {
	case rowQueued:
		return "queued"
	case rowDone:
		return "done"
	case rowCached:
		return "cached"
	case rowFailed:
		return "error"
	}
	return stageVerb(r.stage)
}

// fraction of the row's work that is behind it.
func (r templateRow) fraction() float64 {
	switch r.state {
	case rowQueued:
		return 0
	case rowDone, rowCached, rowFailed:
		return 1
	}
	n := float64(len(buildpipeline.Stages))
	for i, st := range buildpipeline.Stages {
		if st != r.stage {
			continue
		}
		if r.stageDone {
			return float64(i+1) / n
		}
		return float64(i) / n
	}
	return 0
}

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []templateRow
	byPath  map[string]int
	width   int
	done    bool
}

type eventMsg buildpipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that follows compile events
// for files until events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		rows:    make([]templateRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.rows[i] = templateRow{path: file}
		m.byPath[pathKey(file)] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
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
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
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

// apply folds one pipeline event into its row. Events for files the model
// was not created with are ignored.
func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	i, ok := m.byPath[pathKey(ev.File)]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	switch ev.Status {
	case buildpipeline.StatusQueued:
		*row = templateRow{path: row.path}
	case buildpipeline.StatusWorking:
		row.state, row.stage, row.stageDone = rowWorking, ev.Stage, false
	case buildpipeline.StatusDone:
		row.stage, row.stageDone = ev.Stage, true
		row.elapsed += ev.Elapsed
		row.state = rowWorking
		if ev.Stage == buildpipeline.StageEmit {
			row.state = rowDone
		}
	case buildpipeline.StatusCached:
		row.state = rowCached
	case buildpipeline.StatusError:
		row.state = rowFailed
	default:
		return nil
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.fraction()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	header := m.spinner.View() + " " + m.title
	if m.done {
		header = "done: " + m.title
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-28, 20)
	var counts [rowFailed + 1]int
	for _, r := range m.rows {
		counts[r.state]++
		line := fmt.Sprintf("  %s %s", rowStyle(r.state).Render(fmt.Sprintf("%12s", r.label())), truncate(r.path, nameWidth))
		if r.state == rowDone {
			line += fmt.Sprintf(" %8.1fms", float64(r.elapsed)/float64(time.Millisecond))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	fmt.Fprintf(&b, "\n%d/%d templates, %d cached, %d failed\n",
		counts[rowDone]+counts[rowCached]+counts[rowFailed], len(m.rows), counts[rowCached], counts[rowFailed])
	return b.String()
}

func stageVerb(stage buildpipeline.Stage) string {
	switch stage {
	case buildpipeline.StageScan:
		return "scanning"
	case buildpipeline.StageParse:
		return "parsing"
	case buildpipeline.StageConvert:
		return "converting"
	case buildpipeline.StageTransform:
		return "optimizing"
	case buildpipeline.StageEmit:
		return "emitting"
	}
	return "working"
}

func rowStyle(state rowState) lipgloss.Style {
	color := "7"
	switch state {
	case rowDone, rowCached:
		color = "2"
	case rowFailed:
		color = "1"
	case rowWorking:
		color = "6"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// события приходят с путём, нормализованным source.FileSet
func pathKey(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
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
