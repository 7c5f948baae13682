package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/ui/theme"
)

// UsageBar displays how much of a limit has been used, followed by a
// caption.
type UsageBar struct {
	Used    int
	Limit   int
	Caption string
	Warn    bool
	Width   int
}

// NewUsageBar creates a usage bar.
func NewUsageBar(used, limit int, caption string, warn bool, width int) UsageBar {
	return UsageBar{
		Used:    used,
		Limit:   limit,
		Caption: caption,
		Warn:    warn,
		Width:   width,
	}
}

// Percent returns the used fraction in [0, 1].
func (u UsageBar) Percent() float64 {
	if u.Limit <= 0 {
		return 0
	}
	p := float64(u.Used) / float64(u.Limit)
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return p
}

// View renders the bar and caption.
func (u UsageBar) View() string {
	captionStyle := theme.Hint
	fill := theme.Secondary
	if u.Warn {
		captionStyle = theme.Warning
		fill = theme.Accent
	}
	caption := captionStyle.Render(u.Caption)

	barWidth := u.Width - lipgloss.Width(caption) - 2
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * u.Percent())
	empty := barWidth - filled

	filledStr := lipgloss.NewStyle().
		Background(fill).
		Render(strings.Repeat(" ", filled))

	emptyStr := lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	return filledStr + emptyStr + "  " + caption
}
