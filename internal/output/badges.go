package output

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/recommend"
)

// HealthBadge renders a health label in its color.
func HealthBadge(l analysis.HealthLabel) string {
	text := strings.ReplaceAll(string(l), "_", " ")
	switch l {
	case analysis.HealthExcellent:
		return StyleSuccess.Render(text)
	case analysis.HealthGood:
		return StyleWarning.Render(text)
	default:
		return StyleError.Render(text)
	}
}

// PriorityBadge renders a recommendation priority, e.g. "[HIGH]".
func PriorityBadge(p recommend.Priority) string {
	text := "[" + strings.ToUpper(string(p)) + "]"
	switch p {
	case recommend.PriorityHigh:
		return StyleError.Render(text)
	case recommend.PriorityMedium:
		return StyleWarning.Render(text)
	default:
		return StyleMuted.Render(text)
	}
}

// StatusBadge renders a project lifecycle status.
func StatusBadge(s analysis.Status) string {
	switch s {
	case analysis.StatusActive, analysis.StatusReview:
		return StyleBold.Render(string(s))
	case analysis.StatusComplete:
		return StyleSuccess.Render(string(s))
	default:
		return StyleMuted.Render(string(s))
	}
}

// OutcomeBadge renders an automation outcome state.
func OutcomeBadge(s automation.State) string {
	switch s {
	case automation.StateApplied:
		return StyleSuccess.Render(string(s))
	case automation.StateFailed:
		return StyleError.Render(string(s))
	default:
		return StyleMuted.Render(string(s))
	}
}

// Ago renders t relative to now, e.g. "3 days ago". A nil time renders
// as "never".
func Ago(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return humanize.RelTime(*t, now, "ago", "from now")
}

// Date renders a calendar date with a relative hint, e.g.
// "2026-03-21 (6 days from now)".
func Date(t, now time.Time) string {
	return t.Format("2006-01-02") + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
}
