package ui

// spinner.go provides a blocking spinner for long-running operations.

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// actionDoneMsg signals the action completed
type actionDoneMsg struct{}

// blockingSpinnerModel runs a spinner while an action executes
type blockingSpinnerModel struct {
	spinner   spinner.Model
	title     string
	action    func()
	done      bool
	cancelled bool
}

// ErrCancelled is returned when the user interrupts a spinner with ctrl+c.
// It wraps context.Canceled so callers stop the same way as on SIGINT.
var ErrCancelled = fmt.Errorf("interrupted: %w", context.Canceled)

// RunWithSpinner executes an action while displaying a spinner.
// On ctrl+c it returns ErrCancelled without waiting for the action; the caller
// must cancel whatever the action is blocked on.
//
// Example:
//
//	var table models.RawTable
//	var fetchErr error
//	err := RunWithSpinner("Fetching nytimes.com...", func() {
//	    table, fetchErr = client.FetchSite(ctx, "nytimes.com")
//	})
//	if err != nil { return err }
//	if fetchErr != nil { return fetchErr }
func RunWithSpinner(title string, action func()) error {
	m := blockingSpinnerModel{
		spinner: NewAppSpinner(),
		title:   title,
		action:  action,
	}

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("spinner program error: %w", err)
	}

	if final := finalModel.(blockingSpinnerModel); final.cancelled {
		return ErrCancelled
	}
	return nil
}

func (m blockingSpinnerModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.runAction(),
	)
}

func (m blockingSpinnerModel) runAction() tea.Cmd {
	return func() tea.Msg {
		m.action()
		return actionDoneMsg{}
	}
}

func (m blockingSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Allow ctrl+c to cancel
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m blockingSpinnerModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), RenderNormal(m.title))
}
