// Package compose is the root screen: it collects the study material and
// generation options and starts a generation.
package compose

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyquiz/internal/options"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/screen"
	"github.com/abhisek/studyquiz/internal/screens/history"
	"github.com/abhisek/studyquiz/internal/screens/quizview"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/abhisek/studyquiz/internal/source"
	"github.com/abhisek/studyquiz/internal/ui/components"
	"github.com/abhisek/studyquiz/internal/ui/layout"
	"github.com/abhisek/studyquiz/internal/ui/theme"
	"github.com/abhisek/studyquiz/internal/workspace"
)

type field int

const (
	fieldMode field = iota
	fieldSource
	fieldQuestions
	fieldTypes
	fieldVersions
	fieldGenerate
	numFields
)

// fileLoadedMsg carries the result of reading a file chosen by path.
type fileLoadedMsg struct {
	File source.File
	Err  error
}

// ComposeScreen collects the source and options for a generation.
type ComposeScreen struct {
	sess    *session.Session
	focus   field
	text    textarea.Model
	path    components.TextInput
	spinner components.Spinner
	loading bool
}

var _ screen.Screen = (*ComposeScreen)(nil)
var _ screen.KeyHintProvider = (*ComposeScreen)(nil)

// New creates the compose screen over sess.
func New(sess *session.Session) *ComposeScreen {
	ta := textarea.New()
	ta.Placeholder = "Paste your study notes here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(8)
	ta.SetValue(sess.State().Source.Text())

	path := components.NewTextInput("Path", "notes.pdf", "")
	path.Blur()

	return &ComposeScreen{
		sess:    sess,
		focus:   fieldSource,
		text:    ta,
		path:    path,
		spinner: components.NewSpinner("Generating quiz..."),
	}
}

func (s *ComposeScreen) Init() tea.Cmd {
	return s.setFocus(s.focus)
}

func (s *ComposeScreen) Title() string {
	return "New Quiz"
}

func (s *ComposeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Adjust"},
		{Key: "Ctrl+G", Description: "Generate"},
	}
	st := s.sess.State()
	if st.HasResult() {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+O", Description: "Open quiz"})
	}
	if st.Notice != nil {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Dismiss"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+R", Description: "History"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *ComposeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case fileLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.path.Err = msg.Err.Error()
			return s, nil
		}
		s.sess.Dispatch(workspace.SelectFile{File: msg.File})
		if verr := s.sess.State().Source.Err(); verr != nil {
			s.path.Err = verr.Error()
		}
		return s, nil

	case session.GenerationDoneMsg:
		st := s.sess.State()
		if msg.Err == nil && msg.Ticket == st.Generation.Ticket && st.HasResult() {
			return s, s.openQuiz()
		}
		return s, nil

	case components.SpinnerTickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg, s.sess.State().Generation.Pending())
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.updateInput(msg)
}

func (s *ComposeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	st := s.sess.State()

	switch msg.String() {
	case "ctrl+g":
		return s, s.generate()
	case "ctrl+r":
		repo := s.sess.Events()
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: history.New(repo)}
		}
	case "ctrl+o":
		if st.HasResult() {
			return s, s.openQuiz()
		}
		return s, nil
	case "esc":
		s.sess.Dispatch(workspace.DismissNotice{})
		return s, nil
	case "tab":
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab":
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	}

	switch s.focus {
	case fieldMode:
		switch msg.String() {
		case "left", "right", "enter", "space", " ":
			s.switchMode()
		}
		return s, nil

	case fieldSource:
		if st.Source.Mode() == source.ModeFile && msg.String() == "enter" {
			return s, s.loadFile()
		}
		return s.updateInput(msg)

	case fieldQuestions:
		if d := delta(msg); d != 0 {
			s.sess.Dispatch(workspace.SetQuestionCount{N: st.Options.QuestionCount + d})
		}
		return s, nil

	case fieldTypes:
		if d := delta(msg); d != 0 {
			s.sess.Dispatch(workspace.SetTypeMix{Mix: st.Options.NextTypeMix(d).TypeMix})
		}
		return s, nil

	case fieldVersions:
		if d := delta(msg); d != 0 {
			s.sess.Dispatch(workspace.SetVersionCount{N: st.Options.VersionCount + d})
		}
		return s, nil

	case fieldGenerate:
		if msg.String() == "enter" || msg.String() == "space" {
			return s, s.generate()
		}
	}
	return s, nil
}

// updateInput forwards msg to the input of the current mode. Pasted text
// that would exceed the limit is rejected as a whole.
func (s *ComposeScreen) updateInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.focus != fieldSource {
		return s, nil
	}

	var cmd tea.Cmd
	if s.sess.State().Source.Mode() == source.ModeFile {
		s.path, cmd = s.path.Update(msg)
		return s, cmd
	}

	before := s.sess.State().Source.Text()
	s.text, cmd = s.text.Update(msg)
	if value := s.text.Value(); value != before {
		s.sess.Dispatch(workspace.SelectText{Text: value})
		if kept := s.sess.State().Source.Text(); kept != value {
			s.text.SetValue(kept)
		}
	}
	return s, cmd
}

func (s *ComposeScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.text.Blur()
	s.path.Blur()
	if f != fieldSource {
		return nil
	}
	if s.sess.State().Source.Mode() == source.ModeFile {
		return s.path.Focus()
	}
	return s.text.Focus()
}

func (s *ComposeScreen) switchMode() {
	next := source.ModeFile
	if s.sess.State().Source.Mode() == source.ModeFile {
		next = source.ModeText
	}
	s.sess.Dispatch(workspace.SwitchMode{Mode: next})
	s.text.SetValue(s.sess.State().Source.Text())
	s.path.SetValue("")
	s.path.Err = ""
}

func (s *ComposeScreen) loadFile() tea.Cmd {
	path := strings.TrimSpace(s.path.Value())
	if path == "" || s.loading {
		return nil
	}
	s.loading = true
	s.path.Err = ""
	return func() tea.Msg {
		f, err := source.LoadFile(path)
		return fileLoadedMsg{File: f, Err: err}
	}
}

func (s *ComposeScreen) generate() tea.Cmd {
	cmd := s.sess.Generate()
	if cmd == nil {
		return nil
	}
	var tick tea.Cmd
	s.spinner, tick = s.spinner.Start()
	return tea.Batch(cmd, tick)
}

func (s *ComposeScreen) openQuiz() tea.Cmd {
	sess := s.sess
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: quizview.New(sess)}
	}
}

func delta(msg tea.KeyMsg) int {
	switch msg.String() {
	case "left", "h", "-":
		return -1
	case "right", "l", "+", "=":
		return 1
	}
	return 0
}

func (s *ComposeScreen) View(width, height int) string {
	st := s.sess.State()
	inner := min(width-4, 96)
	s.text.SetWidth(inner - 4)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderMode(st))
	b.WriteString("\n\n")
	b.WriteString(s.renderSource(st, inner))
	b.WriteString("\n\n")

	b.WriteString(s.renderOption(fieldQuestions, "Questions", fmt.Sprintf("%d", st.Options.QuestionCount),
		st.Options.QuestionCount > options.MinQuestions, st.Options.QuestionCount < options.MaxQuestions))
	b.WriteString("\n")
	b.WriteString(s.renderOption(fieldTypes, "Types", st.Options.TypeMix.Label(), true, true))
	b.WriteString("\n")
	b.WriteString(s.renderOption(fieldVersions, "Versions", fmt.Sprintf("%d", st.Options.VersionCount),
		st.Options.VersionCount > options.MinVersions, st.Options.VersionCount < options.MaxVersions))
	b.WriteString("\n\n")

	if st.Generation.Pending() {
		b.WriteString("  " + s.spinner.View())
	} else {
		btn := components.NewButton("Generate Quiz", s.focus == fieldGenerate, !st.CanGenerate())
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(btn.View()))
	}

	if n := st.Notice; n != nil {
		style := theme.NoticeInfo
		if n.IsError() {
			style = theme.NoticeError
		}
		b.WriteString("\n\n  " + style.Render(layout.Truncate(n.Message, inner)))
	}

	return b.String()
}

func (s *ComposeScreen) renderMode(st workspace.State) string {
	tab := func(label string, active bool) string {
		if active {
			return theme.TabActive.Render(label)
		}
		return theme.TabInactive.Render(label)
	}
	mode := st.Source.Mode()
	line := tab("Paste Text", mode == source.ModeText) + " " + tab("Upload File", mode == source.ModeFile)
	return s.fieldLabel(fieldMode, "Source") + line
}

func (s *ComposeScreen) renderSource(st workspace.State, inner int) string {
	var body string
	if st.Source.Mode() == source.ModeText {
		c := st.Source.Counter()
		bar := components.NewUsageBar(c.Length, c.Limit, c.String(), c.Warn, inner-4)
		body = s.text.View() + "\n" + bar.View()
	} else {
		body = s.path.View()
		switch {
		case s.loading:
			body += "\n" + theme.Hint.Render("Reading file...")
		case st.Source.File() != nil:
			f := st.Source.File()
			body += "\n" + theme.Body.Render(fmt.Sprintf("%s  %.1f KB", f.Name, f.SizeKB()))
		default:
			body += "\n" + theme.Hint.Render("PDF, DOCX, PPTX or TXT. Press Enter to load.")
		}
	}
	if verr := st.Source.Err(); verr != nil && st.Source.Mode() == source.ModeText {
		body += "\n" + theme.ErrorText.Render(verr.Error())
	}

	card := theme.Card
	if s.focus == fieldSource {
		card = theme.FocusedCard
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(card.Width(inner).Render(body))
}

func (s *ComposeScreen) renderOption(f field, label, value string, canDec, canInc bool) string {
	left, right := "◂", "▸"
	if !canDec {
		left = " "
	}
	if !canInc {
		right = " "
	}
	style := theme.Unselected
	if s.focus == f {
		style = theme.Selected
	}
	return s.fieldLabel(f, label) + style.Render(fmt.Sprintf("%s %s %s", left, value, right))
}

func (s *ComposeScreen) fieldLabel(f field, label string) string {
	prefix := "  "
	if s.focus == f {
		prefix = "▸ "
	}
	return prefix + theme.Label.Width(12).Render(label)
}
