package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/thesavant42/waybackpulse/internal/api"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	// Remove null bytes and other control characters (except whitespace)
	result := strings.Map(func(r rune) rune {
		// Keep printable characters and normal whitespace (space, tab, newline)
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1 // Remove the character
		}
		return r
	}, s)
	return result
}

// splitSites turns free-form input into "domain[=label]" entries.
// Commas, spaces and newlines all separate entries.
func splitSites(input string) []string {
	return strings.FieldsFunc(sanitizeInput(input), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// PromptForSites asks for the domains to analyze when none were given on the
// command line or in the environment.
func PromptForSites() ([]string, error) {
	var input string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Enter domains to analyze").
				Description("Comma or newline separated, optional label after '=' (e.g., nytimes.com, theguardian.com=guardian)").
				Placeholder("nytimes.com, theguardian.com").
				Value(&input).
				Validate(func(s string) error {
					entries := splitSites(s)
					if len(entries) == 0 {
						return fmt.Errorf("enter at least one domain")
					}
					if _, err := api.ParseTargets(entries); err != nil {
						return err
					}
					return nil
				}),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("prompt cancelled: %w", err)
	}

	return splitSites(input), nil
}
