package output

import (
	"fmt"
	"strings"
)

// ScoreBar renders a visual bar for a 0-100 health score, colored by the
// health label thresholds.
// Zero cells means BarWidth.
// Example: "████████░░ 80/100"
func ScoreBar(score int, cells int) string {
	bar := bar(float64(score), cells)

	var style func(string) string
	switch {
	case score >= 80:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case score >= 50:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%d/100", score)))
}

// CompletionBar renders step progress.
// Example: "█████░░░░░ 4/8 (50%)"
func CompletionBar(completed, total int, pct float64, cells int) string {
	return fmt.Sprintf("%s %s",
		StyleHeader.Render(bar(pct, cells)),
		StyleMuted.Render(fmt.Sprintf("%d/%d (%.0f%%)", completed, total, pct)))
}

func bar(pct float64, cells int) string {
	if cells <= 0 {
		cells = BarWidth()
	}
	filled := int((pct / 100.0) * float64(cells))
	if filled > cells {
		filled = cells
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
}

// Section prints a styled section header with a horizontal rule spanning
// the configured width.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", width-2))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
