package parser

import "strings"

const (
	BackgroundMarker = "&"
	RedirectOut      = ">"
)

// Parse splits a line on spaces, tabs and newlines. There is no quoting.
func Parse(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n'
	})
}

// IsKillSwitch reports whether the line is a bare "&".
func IsKillSwitch(tokens []string) bool {
	return len(tokens) == 1 && tokens[0] == BackgroundMarker
}

// ParseWithBackground detects a trailing & and returns the remaining tokens and
// the background flag. jobs and wait never run in the background.
func ParseWithBackground(tokens []string) ([]string, bool) {
	if len(tokens) < 2 || tokens[len(tokens)-1] != BackgroundMarker {
		return tokens, false
	}
	switch tokens[0] {
	case "jobs", "wait":
		return tokens, false
	}
	return tokens[:len(tokens)-1], true
}

// CommandText rebuilds the display form of a command.
func CommandText(tokens []string) string {
	return strings.Join(tokens, " ")
}
