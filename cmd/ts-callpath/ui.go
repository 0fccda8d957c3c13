// # cmd/ts-callpath/ui.go
package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3B82F6")).
				Bold(true)

	spinnerStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#64748B")).
				Italic(true)
)

// buildProgressMsg reports a step of the pipeline starting, so the
// spinner view can show which step is running.
type buildProgressMsg string

// buildDoneMsg carries the final node/edge counts and ends the program.
type buildDoneMsg struct {
	nodes, edges int
	err          error
}

type spinnerModel struct {
	spin   spinner.Model
	status string
	done   bool
	result buildDoneMsg
}

func newSpinnerModel() spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	return spinnerModel{spin: s, status: "starting"}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case buildProgressMsg:
		m.status = string(msg)
		return m, nil
	case buildDoneMsg:
		m.done = true
		m.result = msg
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s %s\n",
		m.spin.View(), spinnerTitleStyle.Render("ts-callpath"), spinnerStatusStyle.Render(m.status))
}

// runWithSpinner drives work on a goroutine while a bubbletea spinner
// animates on the terminal, forwarding progress strings from progressCh
// into the view. work's returned counts/error become the program's final
// buildDoneMsg.
func runWithSpinner(progressCh <-chan string, work func() (nodes, edges int, err error)) (int, int, error) {
	m := newSpinnerModel()
	p := tea.NewProgram(m)

	go func() {
		for msg := range progressCh {
			p.Send(buildProgressMsg(msg))
		}
	}()

	go func() {
		nodes, edges, err := work()
		p.Send(buildDoneMsg{nodes: nodes, edges: edges, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return 0, 0, err
	}
	res := final.(spinnerModel).result
	return res.nodes, res.edges, res.err
}
