package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/studyquiz/internal/quiz"
)

func TestUsageBar_Percent(t *testing.T) {
	assert.Equal(t, 0.5, NewUsageBar(50, 100, "", false, 40).Percent())
	assert.Equal(t, 1.0, NewUsageBar(150, 100, "", false, 40).Percent())
	assert.Equal(t, 0.0, NewUsageBar(5, 0, "", false, 40).Percent())
}

func TestUsageBar_ViewShowsCaption(t *testing.T) {
	out := NewUsageBar(1234, 100000, "1,234 / 100,000 characters", false, 60).View()
	assert.Contains(t, out, "1,234 / 100,000 characters")
}

func TestOptionList_MarksCorrect(t *testing.T) {
	q := quiz.MultipleChoice{
		ID:      "q1",
		Text:    "What does photosynthesis convert light into?",
		Options: []quiz.Option{{Key: "A", Text: "Energy"}, {Key: "B", Text: "Heat"}},
		Correct: "Energy",
	}
	l := NewOptionList(q)
	lines := strings.Split(strings.TrimRight(l.View(0), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "(•) A) Energy")
	assert.Contains(t, lines[1], "( ) B) Heat")

	l.Cursor = 1
	assert.Contains(t, l.View(0), "▸ ( ) B) Heat")
}

func TestButton_View(t *testing.T) {
	assert.Contains(t, NewButton("Generate", true, false).View(), "▸ Generate")
	assert.NotContains(t, NewButton("Generate", false, true).View(), "▸")
}

func TestSpinner_OnlyOwnTicksAdvance(t *testing.T) {
	s, cmd := NewSpinner("Generating").Start()
	assert.NotNil(t, cmd)
	first := s.frame

	other, _ := NewSpinner("Other").Start()
	s, cmd = s.Update(SpinnerTickMsg{ID: other.id}, true)
	assert.Nil(t, cmd)
	assert.Equal(t, first, s.frame)

	s, cmd = s.Update(SpinnerTickMsg{ID: s.id}, true)
	assert.NotNil(t, cmd)
	assert.Equal(t, first+1, s.frame)
	assert.Contains(t, s.View(), "Generating")

	s, cmd = s.Update(SpinnerTickMsg{ID: s.id}, false)
	assert.Nil(t, cmd)
	assert.Equal(t, first+1, s.frame)
}

func TestSpinner_RestartOrphansOldChain(t *testing.T) {
	s, _ := NewSpinner("x").Start()
	oldID := s.id
	s, _ = s.Start()
	_, cmd := s.Update(SpinnerTickMsg{ID: oldID}, true)
	assert.Nil(t, cmd)
}

func TestTextInput_TypingClearsError(t *testing.T) {
	ti := NewTextInput("Path", "", "notes")
	ti.Err = "not found"
	assert.Contains(t, ti.View(), "not found")
	ti, _ = ti.Update(keyPress('x'))
	assert.Empty(t, ti.Err)
	assert.Equal(t, "notesx", ti.Value())
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}
