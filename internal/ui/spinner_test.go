package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestErrCancelledIsContextCanceled(t *testing.T) {
	require.True(t, errors.Is(ErrCancelled, context.Canceled))
}

func TestSpinnerCtrlC(t *testing.T) {
	m := blockingSpinnerModel{spinner: NewAppSpinner(), title: "Fetching"}
	updated, cmd := m.Update(keyCtrlC())
	require.NotNil(t, cmd)
	require.True(t, updated.(blockingSpinnerModel).cancelled)
	require.Empty(t, updated.View())
}

func keyCtrlC() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyCtrlC}
}
