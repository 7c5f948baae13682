package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/store"
	"github.com/abhisek/studyquiz/internal/ui/layout"
	"github.com/abhisek/studyquiz/internal/ui/theme"
)

// pageSize is the number of most recent requests shown.
const pageSize = 50

type historyLoadedMsg struct {
	Events   []store.RequestEventRecord
	Usage    []store.OperationUsage
	Err      error
	UsageErr error
}

// HistoryScreen lists the service requests made in this session.
type HistoryScreen struct {
	eventRepo store.EventRepo
	events    []store.RequestEventRecord
	usage     []store.OperationUsage
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
	usageErr  string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. eventRepo may be nil.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	if repo == nil {
		return func() tea.Msg { return historyLoadedMsg{} }
	}
	return func() tea.Msg {
		ctx := context.Background()

		events, err := repo.QueryRequestEvents(ctx, store.QueryOpts{Limit: pageSize})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		usage, err := repo.UsageByOperation(ctx)
		if err != nil {
			return historyLoadedMsg{Events: events, UsageErr: err}
		}

		return historyLoadedMsg{Events: events, Usage: usage}
	}
}

func (s *HistoryScreen) Title() string {
	return "Request History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "R", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.events = msg.Events
			s.usage = msg.Usage
			s.usageErr = ""
			if msg.UsageErr != nil {
				s.usageErr = msg.UsageErr.Error()
			}
			if s.selected >= len(s.events) {
				s.selected = max(len(s.events)-1, 0)
			}
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		case "r":
			s.expanded = make(map[int]bool)
			return s, s.Init()
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if s.eventRepo == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Request history is not being recorded.")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No requests yet. Generate a quiz to get started!")
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.usageErr != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Warning.Render("Usage summary unavailable: "+s.usageErr)))
		b.WriteString("\n\n")
	} else if summary := s.renderUsage(); summary != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, summary))
		b.WriteString("\n\n")
	}

	for i, ev := range s.events {
		status := lipgloss.NewStyle().Foreground(theme.Success).Render("ok  ")
		if !ev.Success {
			status = lipgloss.NewStyle().Foreground(theme.Error).Render("fail")
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-8s  %s  %6dms  %s",
			prefix, ev.Timestamp.Format("15:04:05"), ev.Operation, status, ev.LatencyMs,
			layout.Truncate(ev.Detail, max(width-50, 10)))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range details(ev) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render("    "+d)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderUsage() string {
	parts := make([]string, 0, len(s.usage))
	for _, u := range s.usage {
		parts = append(parts, fmt.Sprintf("%s: %d calls, %d failed, avg %.0fms",
			u.Operation, u.Calls, u.Failures, u.AvgLatencyMs))
	}
	return theme.Hint.Render(strings.Join(parts, "   "))
}

func details(ev store.RequestEventRecord) []string {
	out := []string{
		"request id " + ev.RequestID,
		fmt.Sprintf("status %d  sent %s  received %s",
			ev.StatusCode, byteSize(ev.RequestBytes), byteSize(ev.ResponseBytes)),
	}
	if ev.ErrorMessage != "" {
		out = append(out, "error: "+ev.ErrorMessage)
	}
	return out
}

func byteSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}
