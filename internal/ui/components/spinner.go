package components

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 100 * time.Millisecond

var lastSpinnerID atomic.Int64

// SpinnerTickMsg advances the Spinner with the matching ID by one frame.
type SpinnerTickMsg struct {
	ID   int64
	Time time.Time
}

// Spinner is a loading indicator. Each Start begins a new tick chain and
// orphans the previous one, so at most one chain drives a spinner.
type Spinner struct {
	Label string
	id    int64
	frame int
}

// NewSpinner creates a spinner with the given label.
func NewSpinner(label string) Spinner {
	return Spinner{Label: label}
}

// Start resets the animation and schedules the first frame.
func (s Spinner) Start() (Spinner, tea.Cmd) {
	s.id = lastSpinnerID.Add(1)
	s.frame = 0
	return s, s.tick()
}

// Update advances the spinner on its own ticks. The chain ends when
// running is false.
func (s Spinner) Update(msg SpinnerTickMsg, running bool) (Spinner, tea.Cmd) {
	if msg.ID != s.id || !running {
		return s, nil
	}
	s.frame = (s.frame + 1) % len(spinnerFrames)
	return s, s.tick()
}

func (s Spinner) tick() tea.Cmd {
	id := s.id
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return SpinnerTickMsg{ID: id, Time: t}
	})
}

// View renders the current frame and label.
func (s Spinner) View() string {
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(spinnerFrames[s.frame]) +
		" " + theme.Body.Render(s.Label)
}
