package console

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tracker reports progress for a batch of work items: a live progress
// bar on a terminal, plain alert lines otherwise.
type Tracker struct {
	console *Console
	total   int
	program *tea.Program

	mu   sync.Mutex
	done int
}

// NewTracker starts tracking total work items. Wait must be called when
// all items have been advanced.
func (c *Console) NewTracker(title string, total int) *Tracker {
	t := &Tracker{console: c, total: total}
	if !c.interactive || total == 0 {
		return t
	}

	t.program = tea.NewProgram(newTrackerModel(title, total, c.palette), tea.WithOutput(c.w))
	go func() {
		_, _ = t.program.Run()
	}()
	return t
}

// Advance records one completed item. Safe for concurrent use.
func (t *Tracker) Advance(label string) {
	t.mu.Lock()
	t.done++
	done := t.done
	t.mu.Unlock()

	if t.program != nil {
		t.program.Send(advanceMsg{label: label})
		return
	}
	t.console.Infof("(%d/%d) %s", done, t.total, label)
}

// Wait stops the tracker and blocks until the display has shut down.
func (t *Tracker) Wait() {
	if t.program == nil {
		return
	}
	t.program.Send(finishMsg{})
	t.program.Wait()
	t.console.Line()
}

type (
	advanceMsg struct{ label string }
	finishMsg  struct{}
)

type trackerModel struct {
	spin  spinner.Model
	bar   progress.Model
	title string
	total int
	done  int
	label string
}

func newTrackerModel(title string, total int, p Palette) trackerModel {
	spin := spinner.New(
		spinner.WithSpinner(spinner.Dots),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(p.Secondary)),
	)
	bar := progress.New(
		progress.WithGradient(string(p.Primary), string(p.Secondary)),
		progress.WithWidth(30),
	)
	return trackerModel{spin: spin, bar: bar, title: title, total: total}
}

func (m trackerModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m trackerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		m.done++
		m.label = msg.label
		return m, nil

	case finishMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m trackerModel) View() string {
	pct := float64(m.done) / float64(m.total)
	return fmt.Sprintf("%s %s %s %d/%d %s",
		m.spin.View(),
		m.title,
		m.bar.ViewAs(pct),
		m.done,
		m.total,
		m.label,
	)
}
