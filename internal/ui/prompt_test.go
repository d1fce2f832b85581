package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	require.Equal(t, "nytimes.com", sanitizeInput("nyt\x00imes.com"))
	require.Equal(t, "a\tb\nc", sanitizeInput("a\tb\nc\x07"))
}

func TestSplitSites(t *testing.T) {
	got := splitSites("nytimes.com, theguardian.com=guardian\n\nbbc.co.uk\x00")
	require.Equal(t, []string{"nytimes.com", "theguardian.com=guardian", "bbc.co.uk"}, got)
	require.Empty(t, splitSites(" ,\n "))
}
