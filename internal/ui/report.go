package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// PrintHeader prints a styled header for an analysis run
func PrintHeader(title string, sites, snapshots int) {
	header := TitleStyle.Render(title)
	stats := HintStyle.Render(fmt.Sprintf("%d sites, %d snapshots", sites, snapshots))

	fmt.Println()
	fmt.Println(header)
	fmt.Println(stats)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	successStyle := lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	fmt.Println(successStyle.Render(message))
}

// PrintWarning prints a non-fatal problem
func PrintWarning(message string) {
	warnStyle := lipgloss.NewStyle().
		Foreground(ColorAccent)
	fmt.Println(warnStyle.Render("Warning: " + message))
}

// PrintError prints an error message
func PrintError(message string) {
	errorStyle := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Bold(true)
	fmt.Println(errorStyle.Render("Error: " + message))
}
