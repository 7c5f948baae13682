// Package quizview shows the generated quiz versions and lets the user edit
// and export the active one.
package quizview

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/screens/history"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/abhisek/studyquiz/internal/ui/components"
	"github.com/abhisek/studyquiz/internal/ui/layout"
	"github.com/abhisek/studyquiz/internal/ui/theme"
	"github.com/abhisek/studyquiz/internal/workspace"
)

type rowKind int

const (
	rowPrompt rowKind = iota
	rowOption
	rowAnswer
)

// row is one selectable line of the active version.
type row struct {
	question quiz.Question
	number   int
	kind     rowKind
	optIndex int
}

// exportKeys maps key presses to export formats.
var exportKeys = map[string]quizapi.Format{
	"p": quizapi.FormatPDF,
	"d": quizapi.FormatDOCX,
	"t": quizapi.FormatTXT,
}

// QuizScreen shows the working copy of the generated quiz.
type QuizScreen struct {
	sess       *session.Session
	cursor     int
	spinner    components.Spinner
	genSpinner components.Spinner

	editing bool
	editID  string
	edit    quiz.Edit
	input   components.TextInput
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.BackInterceptor = (*QuizScreen)(nil)

// New creates a QuizScreen over sess.
func New(sess *session.Session) *QuizScreen {
	return &QuizScreen{
		sess:       sess,
		spinner:    components.NewSpinner("Exporting…"),
		genSpinner: components.NewSpinner("Generating a new quiz…"),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	st := s.sess.State()
	if !st.HasResult() {
		return "Quiz"
	}
	return quiz.Label(st.Active)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Edit"},
		{Key: "Space", Description: "Mark correct"},
	}
	if s.sess.State().VersionCount() > 1 {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Version"})
	}
	return append(hints,
		layout.KeyHint{Key: "P/D/T", Description: "Export"},
		layout.KeyHint{Key: "A", Description: "Export all"},
		layout.KeyHint{Key: "G", Description: "Regenerate"},
		layout.KeyHint{Key: "N", Description: "New quiz"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

// InterceptsBack reports whether Esc cancels an edit or dismisses a notice
// rather than leaving the screen.
func (s *QuizScreen) InterceptsBack() bool {
	return s.editing || s.sess.State().Notice != nil
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		st := s.sess.State()
		var exportTick, genTick tea.Cmd
		s.spinner, exportTick = s.spinner.Update(msg, st.AnyExportPending())
		s.genSpinner, genTick = s.genSpinner.Update(msg, st.Generation.Pending())
		return s, tea.Batch(exportTick, genTick)

	case session.GenerationDoneMsg:
		return s, s.finishRegeneration(msg)

	case tea.KeyMsg:
		if s.editing {
			return s.updateEditing(msg)
		}
		return s.handleKey(msg)
	}

	if s.editing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	rows := s.rows()
	key := msg.String()

	switch key {
	case "esc":
		s.sess.Dispatch(workspace.DismissNotice{})
		return s, nil
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil
	case "down", "j":
		if s.cursor < len(rows)-1 {
			s.cursor++
		}
		return s, nil
	case "left", "shift+tab":
		s.selectVersion(s.sess.State().Active - 1)
		return s, nil
	case "right", "tab":
		s.selectVersion(s.sess.State().Active + 1)
		return s, nil
	case "enter", "e":
		if s.cursor < len(rows) {
			return s, s.startEdit(rows[s.cursor])
		}
		return s, nil
	case "space", " ", "c":
		if s.cursor < len(rows) && rows[s.cursor].kind == rowOption {
			r := rows[s.cursor]
			mc := r.question.(quiz.MultipleChoice)
			s.sess.Dispatch(workspace.EditQuestion{
				ID:   r.question.QuestionID(),
				Edit: quiz.Edit{Field: quiz.FieldCorrect, Key: mc.Options[r.optIndex].Key},
			})
		}
		return s, nil
	case "a":
		return s, s.startExport(s.sess.ExportAll())
	case "g", "ctrl+g":
		return s, s.regenerate()
	case "n":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "h":
		repo := s.sess.Events()
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: history.New(repo)}
		}
	}

	if f, ok := exportKeys[key]; ok {
		return s, s.startExport(s.sess.Export(f))
	}
	return s, nil
}

func (s *QuizScreen) updateEditing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editing = false
		s.sess.Dispatch(workspace.DiscardEditError{})
		return s, nil
	case "enter":
		e := s.edit
		e.Value = s.input.Value()
		s.sess.Dispatch(workspace.EditQuestion{ID: s.editID, Edit: e})
		if editErr := s.sess.State().EditErr; editErr != nil {
			s.input.Err = editErr.Message
			return s, nil
		}
		s.editing = false
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *QuizScreen) startEdit(r row) tea.Cmd {
	var label, value string
	switch r.kind {
	case rowPrompt:
		s.edit = quiz.Edit{Field: quiz.FieldText}
		label, value = "Question", r.question.Prompt()
	case rowOption:
		opt := r.question.(quiz.MultipleChoice).Options[r.optIndex]
		s.edit = quiz.Edit{Field: quiz.FieldOption, Key: opt.Key}
		label, value = "Option "+opt.Key, opt.Text
	case rowAnswer:
		s.edit = quiz.Edit{Field: quiz.FieldAnswer}
		label, value = "Answer", r.question.CorrectAnswer()
	}
	s.editID = r.question.QuestionID()
	s.input = components.NewTextInput(label, "", value)
	s.editing = true
	return s.input.Init()
}

func (s *QuizScreen) startExport(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	var tick tea.Cmd
	s.spinner, tick = s.spinner.Start()
	return tea.Batch(cmd, tick)
}

// regenerate requests a new quiz from the same source and options.
func (s *QuizScreen) regenerate() tea.Cmd {
	cmd := s.sess.Generate()
	if cmd == nil {
		return nil
	}
	var tick tea.Cmd
	s.genSpinner, tick = s.genSpinner.Start()
	return tea.Batch(cmd, tick)
}

// finishRegeneration swaps in a fresh screen for the new result. A failed
// generation leaves no result, so the user goes back to compose where the
// notice is shown.
func (s *QuizScreen) finishRegeneration(msg session.GenerationDoneMsg) tea.Cmd {
	st := s.sess.State()
	if msg.Ticket != st.Generation.Ticket {
		return nil
	}
	if msg.Err == nil && st.HasResult() {
		sess := s.sess
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: New(sess)}
		}
	}
	return func() tea.Msg { return router.PopToRootMsg{} }
}

func (s *QuizScreen) selectVersion(i int) {
	if i < 0 || i >= s.sess.State().VersionCount() || i == s.sess.State().Active {
		return
	}
	s.sess.Dispatch(workspace.SelectVersion{Index: i})
	s.cursor = 0
}

// rows flattens the active version into selectable lines.
func (s *QuizScreen) rows() []row {
	v, ok := s.sess.State().ActiveVersion()
	if !ok {
		return nil
	}
	var rows []row
	for i, q := range v.Questions {
		rows = append(rows, row{question: q, number: i + 1, kind: rowPrompt})
		switch q := q.(type) {
		case quiz.MultipleChoice:
			for j := range q.Options {
				rows = append(rows, row{question: q, number: i + 1, kind: rowOption, optIndex: j})
			}
		case quiz.FillInTheBlank:
			rows = append(rows, row{question: q, number: i + 1, kind: rowAnswer})
		}
	}
	return rows
}

func (s *QuizScreen) View(width, height int) string {
	st := s.sess.State()
	if !st.HasResult() {
		if st.Generation.Pending() {
			return "\n\n  " + s.genSpinner.View()
		}
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quiz yet. Go back and generate one.")
	}

	top := []string{""}
	if st.VersionCount() > 1 {
		top = append(top, s.renderTabs())
	}
	bottom := s.renderStatus(width)

	avail := height - len(top) - len(bottom) - 1
	body := s.renderRows(width, avail)

	lines := append(top, "")
	lines = append(lines, body...)
	lines = append(lines, bottom...)
	return strings.Join(lines, "\n")
}

func (s *QuizScreen) renderTabs() string {
	st := s.sess.State()
	tabs := make([]string, 0, st.VersionCount())
	for i := range st.VersionCount() {
		if i == st.Active {
			tabs = append(tabs, theme.TabActive.Render(quiz.Label(i)))
		} else {
			tabs = append(tabs, theme.TabInactive.Render(quiz.Label(i)))
		}
	}
	return "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderRows renders the question rows, scrolled so the cursor row is
// visible within avail lines.
func (s *QuizScreen) renderRows(width, avail int) []string {
	rows := s.rows()
	if s.cursor >= len(rows) {
		s.cursor = max(len(rows)-1, 0)
	}
	textWidth := max(width-12, 20)

	var lines []string
	cursorLine := 0
	for i, r := range rows {
		if i == s.cursor {
			cursorLine = len(lines)
		}
		if s.editing && i == s.cursor {
			lines = append(lines, strings.Split("      "+s.input.View(), "\n")...)
			continue
		}
		lines = append(lines, s.renderRow(r, i == s.cursor, textWidth))
	}
	if editErr := s.sess.State().EditErr; editErr != nil && !s.editing {
		lines = append(lines, "  "+theme.ErrorText.Render(editErr.Error()))
	}

	if avail <= 0 || len(lines) <= avail {
		return lines
	}
	start := 0
	if cursorLine >= avail {
		start = cursorLine - avail + 1
	}
	return lines[start : start+avail]
}

func (s *QuizScreen) renderRow(r row, selected bool, textWidth int) string {
	switch r.kind {
	case rowPrompt:
		tag := "[MCQ]"
		if r.question.Kind() == quiz.KindFillBlank {
			tag = "[Fill]"
		}
		prefix := "  "
		style := theme.Body.Bold(true)
		if selected {
			prefix = "▸ "
			style = theme.Selected
		}
		return prefix + style.Render(fmt.Sprintf("%d. %s", r.number, layout.Truncate(r.question.Prompt(), textWidth))) +
			" " + theme.Hint.Render(tag)

	case rowOption:
		mc := r.question.(quiz.MultipleChoice)
		list := components.OptionList{
			Options: mc.Options[r.optIndex : r.optIndex+1],
			Correct: mc.Correct,
			Cursor:  -1,
		}
		if selected {
			list.Cursor = 0
		}
		return strings.TrimRight(list.View(4), "\n")

	default:
		style := theme.Correct
		prefix := "      "
		if selected {
			style = theme.Selected
			prefix = "    ▸ "
		}
		return prefix + theme.Label.Render("Answer: ") + style.Render(r.question.CorrectAnswer())
	}
}

func (s *QuizScreen) renderStatus(width int) []string {
	st := s.sess.State()
	parts := make([]string, 0, len(quizapi.Formats))
	for _, f := range quizapi.Formats {
		op := st.Export(f)
		var status string
		switch op.Status {
		case workspace.Pending:
			status = theme.Warning.Render("saving")
		case workspace.Resolved:
			status = lipgloss.NewStyle().Foreground(theme.Success).Render("saved")
		case workspace.Rejected:
			status = theme.ErrorText.Render("failed")
		default:
			status = theme.Hint.Render("-")
		}
		parts = append(parts, theme.Label.Render(f.Label()+" ")+status)
	}

	lines := []string{"", "  " + strings.Join(parts, "   ")}
	if st.AnyExportPending() {
		lines = append(lines, "  "+s.spinner.View())
	}
	if n := st.Notice; n != nil {
		style := theme.NoticeInfo
		if n.IsError() {
			style = theme.NoticeError
		}
		lines = append(lines, "  "+style.Render(layout.Truncate(n.Message, width-6)))
	}
	return lines
}
