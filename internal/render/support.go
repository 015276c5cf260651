// Package render realizes the block tree on a terminal: an ANSI text
// renderer plus the inline-image capability probe.
package render

import (
	"os"
	"strings"

	"golang.org/x/term"

	"git.home.luguber.info/inful/docview/internal/imageload"
	"git.home.luguber.info/inful/docview/internal/markdown"
)

// LoadSupport probes the terminal for an inline-image protocol. It
// returns nil when stdout is not a terminal or no protocol is
// advertised; probe failures of any kind collapse to the same nil
// "unavailable" outcome.
func LoadSupport() *markdown.Support {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	mode, ok := detectMode(os.Getenv("TERM"), os.Getenv("TERM_PROGRAM"))
	if !ok {
		return nil
	}
	return SupportFor(mode)
}

// SupportFor returns the capability for a known protocol mode.
func SupportFor(mode string) *markdown.Support {
	return &markdown.Support{
		Mode: mode,
		New: func(outcome imageload.Outcome) (markdown.ImageRenderer, error) {
			return newInlineImage(mode, outcome)
		},
	}
}

// detectMode maps terminal identity to a graphics protocol.
func detectMode(termEnv, termProgram string) (string, bool) {
	switch {
	case strings.Contains(termEnv, "kitty"), strings.Contains(termEnv, "ghostty"):
		return "kitty", true
	case termProgram == "iTerm.app", termProgram == "WezTerm", termProgram == "mintty":
		return "iterm", true
	}
	return "", false
}
