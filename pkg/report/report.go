// Package report renders terminal output for custodia: status lines and the
// banner boxes used for breach and quarantine notices.
package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)

	criticalBox = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 2)
	warningBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(0, 2)
)

// DisableColor forces plain ASCII output (for --no-color and dumb terminals).
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// OK formats a success fragment.
func OK(s string) string { return okStyle.Render(s) }

// Warn formats a warning fragment.
func Warn(s string) string { return warnStyle.Render(s) }

// Err formats an error fragment.
func Err(s string) string { return errStyle.Render(s) }

// Dim formats secondary information.
func Dim(s string) string { return dimStyle.Render(s) }

// Header formats a section header.
func Header(s string) string { return titleStyle.Render(s) }

// Critical renders a red banner box for breach notices.
func Critical(title string, lines ...string) string {
	body := errStyle.Render(title)
	if len(lines) > 0 {
		body += "\n" + strings.Join(lines, "\n")
	}
	return criticalBox.Render(body)
}

// Warning renders a yellow banner box for non-fatal notices.
func Warning(title string, lines ...string) string {
	body := warnStyle.Render(title)
	if len(lines) > 0 {
		body += "\n" + strings.Join(lines, "\n")
	}
	return warningBox.Render(body)
}
