package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const minWidth = 40

var width = 80

// SetWidth sets the terminal width that bars, section rules and wrapped
// text are sized to. Values below 40 are raised to 40; zero keeps 80.
func SetWidth(n int) {
	switch {
	case n == 0:
		width = 80
	case n < minWidth:
		width = minWidth
	default:
		width = n
	}
}

// BarWidth is the cell count of score and completion bars: a quarter of the
// line.
func BarWidth() int {
	return width / 4
}

// Wrap word-wraps text to the configured width, indenting every line by
// indent spaces.
func Wrap(text string, indent int) string {
	wrapped := lipgloss.NewStyle().Width(width - indent).Render(text)
	pad := strings.Repeat(" ", indent)
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = pad + strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
