package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/ui/theme"
)

// OptionList renders the options of a multiple-choice question. The option
// whose text equals the question's answer is marked correct.
type OptionList struct {
	Options []quiz.Option
	Correct string
	// Cursor is the index of the highlighted option, or -1.
	Cursor int
}

// NewOptionList creates an option list for q with no highlighted option.
func NewOptionList(q quiz.MultipleChoice) OptionList {
	return OptionList{
		Options: q.Options,
		Correct: q.Correct,
		Cursor:  -1,
	}
}

// View renders one line per option, indented by indent spaces.
func (l OptionList) View(indent int) string {
	pad := strings.Repeat(" ", indent)
	var b strings.Builder
	for i, opt := range l.Options {
		prefix := "  "
		if i == l.Cursor {
			prefix = "▸ "
		}
		mark := "( )"
		if opt.Text == l.Correct {
			mark = "(•)"
		}
		line := fmt.Sprintf("%s%s %s) %s", prefix, mark, opt.Key, opt.Text)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == l.Cursor:
			style = theme.Selected
		case opt.Text == l.Correct:
			style = theme.Correct
		}
		b.WriteString(pad + style.Render(line) + "\n")
	}
	return b.String()
}
