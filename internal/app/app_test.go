package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquiz/internal/download"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi/quizapitest"
	"github.com/abhisek/studyquiz/internal/router"
	"github.com/abhisek/studyquiz/internal/session"
	"github.com/abhisek/studyquiz/internal/workspace"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestModel(t *testing.T) (AppModel, *session.Session) {
	t.Helper()
	fake := quizapitest.NewService().AddGenerate(quizapitest.GenerateResponse{Result: quiz.Result{{
		Number:    1,
		Questions: []quiz.Question{quiz.FillInTheBlank{ID: "q1", Text: "Plants need ___.", Answer: "Water"}},
	}}})
	sink, err := download.NewFSSink(t.TempDir())
	require.NoError(t, err)
	sess := session.New(fake, sink, nil, nil)
	return newAppModel(sess, "127.0.0.1:5000"), sess
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestGenerationCompletesIntoQuizScreen(t *testing.T) {
	m, sess := newTestModel(t)
	sess.Dispatch(workspace.SelectText{Text: "Photosynthesis"})

	done := sess.Generate()()
	m, cmd := update(m, done)

	assert.True(t, sess.State().HasResult(), "app applies completions to the session")
	require.NotNil(t, cmd)
	push := cmd()
	m, _ = update(m, push)
	assert.Equal(t, 2, m.router.Depth())
	assert.Equal(t, "Quiz Version 1", m.router.Active().Title())

	_, cmd = update(m, specialKey(tea.KeyEscape))
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestEscAtRootReachesScreen(t *testing.T) {
	m, sess := newTestModel(t)
	sess.Dispatch(workspace.SelectText{Text: "x"})
	sess.Dispatch(workspace.RequestGeneration{})
	ticket := sess.State().Generation.Ticket
	sess.Apply(session.GenerationDoneMsg{Ticket: ticket, Err: assert.AnError})
	require.NotNil(t, sess.State().Notice)

	m, cmd := update(m, specialKey(tea.KeyEscape))
	assert.Nil(t, cmd)
	assert.Nil(t, sess.State().Notice)
	assert.Equal(t, 1, m.router.Depth())
}

func TestViewFrame(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.True(t, m.View().AltScreen)

	out := m.render()
	assert.Contains(t, out, "StudyQuiz")
	assert.Contains(t, out, "New Quiz")
	assert.Contains(t, out, "127.0.0.1:5000")
	assert.Contains(t, out, "Ctrl+G")

	m, _ = update(m, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.render(), "Terminal too small")
}
