package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyquiz/internal/download"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi"
	"github.com/abhisek/studyquiz/internal/quizapi/quizapitest"
	"github.com/abhisek/studyquiz/internal/workspace"
)

func photosynthesis() quiz.Result {
	return quiz.Result{{
		Number: 1,
		Questions: []quiz.Question{quiz.MultipleChoice{
			ID:      "q1",
			Text:    "What does photosynthesis convert light into?",
			Options: []quiz.Option{{Key: "A", Text: "Energy"}, {Key: "B", Text: "Heat"}},
			Correct: "Energy",
		}},
	}}
}

func newTestSession(t *testing.T, fake *quizapitest.Service) (*Session, *download.FSSink) {
	t.Helper()
	sink, err := download.NewFSSink(t.TempDir())
	require.NoError(t, err)
	return New(fake, sink, nil, nil), sink
}

func generate(t *testing.T, s *Session) {
	t.Helper()
	s.Dispatch(workspace.SelectText{Text: "Photosynthesis converts light to energy"})
	cmd := s.Generate()
	require.NotNil(t, cmd)
	require.True(t, s.Apply(cmd()))
	require.True(t, s.State().HasResult())
}

func TestGenerate_SingleInFlight(t *testing.T) {
	fake := quizapitest.NewService().AddGenerate(quizapitest.GenerateResponse{Result: photosynthesis()})
	s, _ := newTestSession(t, fake)

	assert.Nil(t, s.Generate(), "no source selected")

	s.Dispatch(workspace.SelectText{Text: "Photosynthesis converts light to energy"})
	first := s.Generate()
	require.NotNil(t, first)
	assert.Nil(t, s.Generate(), "trigger disabled while pending")

	s.Apply(first())
	assert.Equal(t, 1, fake.GenerateCount())
	assert.Equal(t, workspace.Resolved, s.State().Generation.Status)

	v, ok := s.State().ActiveVersion()
	require.True(t, ok)
	assert.Equal(t, "Energy", v.Questions[0].CorrectAnswer())
}

func TestGenerate_Failure(t *testing.T) {
	fake := quizapitest.NewService().AddGenerate(quizapitest.GenerateResponse{
		Err: &quizapi.GenerationError{Reason: quizapi.GenericFailure},
	})
	s, _ := newTestSession(t, fake)
	s.Dispatch(workspace.SelectText{Text: "x"})

	s.Apply(s.Generate()())

	st := s.State()
	assert.Equal(t, workspace.Rejected, st.Generation.Status)
	require.NotNil(t, st.Notice)
	assert.Equal(t, "generation failed: An unknown error occurred.", st.Notice.Message)
}

func TestExport_SavesEditedQuiz(t *testing.T) {
	fake := quizapitest.NewService().
		AddGenerate(quizapitest.GenerateResponse{Result: photosynthesis()}).
		AddExport(quizapitest.ExportResponse{Data: []byte("quiz body")})
	s, sink := newTestSession(t, fake)
	generate(t, s)

	s.Dispatch(workspace.EditQuestion{ID: "q1", Edit: quiz.Edit{Field: quiz.FieldOption, Key: "A", Value: "Chemical energy"}})

	cmd := s.Export(quizapi.FormatTXT)
	require.NotNil(t, cmd)
	assert.Nil(t, s.Export(quizapi.FormatTXT), "same format already pending")
	s.Apply(cmd())

	require.Len(t, fake.ExportCalls, 1)
	assert.Equal(t, "Chemical energy", fake.ExportCalls[0].Questions[0].CorrectAnswer())

	exp := s.State().Export(quizapi.FormatTXT)
	assert.Equal(t, workspace.Resolved, exp.Status)
	assert.Equal(t, filepath.Join(sink.Dir(), "quiz.txt"), exp.Location)

	data, err := os.ReadFile(exp.Location)
	require.NoError(t, err)
	assert.Equal(t, "quiz body", string(data))
}

func TestExport_FailureSavesNothing(t *testing.T) {
	fake := quizapitest.NewService().
		AddGenerate(quizapitest.GenerateResponse{Result: photosynthesis()}).
		AddExport(quizapitest.ExportResponse{Err: &quizapi.ExportError{Format: quizapi.FormatTXT, StatusCode: 500, Reason: "server returned status 500"}})
	s, sink := newTestSession(t, fake)
	generate(t, s)
	before := s.State().Working

	s.Apply(s.Export(quizapi.FormatTXT)())

	st := s.State()
	assert.Equal(t, workspace.Rejected, st.Export(quizapi.FormatTXT).Status)
	assert.Equal(t, before, st.Working)
	require.NotNil(t, st.Notice)
	assert.Equal(t, workspace.NoticeExport, st.Notice.Kind)

	_, err := os.Stat(filepath.Join(sink.Dir(), "quiz.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportAll(t *testing.T) {
	fake := quizapitest.NewService().AddGenerate(quizapitest.GenerateResponse{Result: photosynthesis()})
	for range quizapi.Formats {
		fake.AddExport(quizapitest.ExportResponse{Data: []byte("doc")})
	}
	s, sink := newTestSession(t, fake)
	generate(t, s)

	cmd := s.ExportAll()
	require.NotNil(t, cmd)
	assert.Nil(t, s.ExportAll(), "all formats pending")

	msg, ok := cmd().(ExportAllDoneMsg)
	require.True(t, ok)
	assert.Len(t, msg.Results, len(quizapi.Formats))
	s.Apply(msg)

	for _, f := range quizapi.Formats {
		assert.Equal(t, workspace.Resolved, s.State().Export(f).Status, f)
		_, err := os.Stat(filepath.Join(sink.Dir(), f.FileName()))
		assert.NoError(t, err, f)
	}
	assert.Equal(t, len(quizapi.Formats), fake.ExportCount())
}

type failingSink struct{}

func (failingSink) Save(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("disk full")
}

func TestExportTo_SinkFailure(t *testing.T) {
	fake := quizapitest.NewService().AddExport(quizapitest.ExportResponse{Data: []byte("doc")})
	q := quiz.FillInTheBlank{ID: "q1", Text: "t", Answer: "a"}

	_, err := ExportTo(context.Background(), fake, failingSink{}, []quiz.Question{q}, quizapi.FormatPDF)

	var expErr *quizapi.ExportError
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, "export failed: save quiz.pdf: disk full", err.Error())
}

type memorySink struct {
	names        []string
	contentTypes []string
}

func (m *memorySink) Save(_ context.Context, name, contentType string, _ []byte) (string, error) {
	m.names = append(m.names, name)
	m.contentTypes = append(m.contentTypes, contentType)
	return "mem://" + name, nil
}

func TestExportTo_PassesContentType(t *testing.T) {
	fake := quizapitest.NewService().AddExport(quizapitest.ExportResponse{Data: []byte("%PDF-1.4")})
	q := quiz.FillInTheBlank{ID: "q1", Text: "t", Answer: "a"}
	sink := &memorySink{}

	loc, err := ExportTo(context.Background(), fake, sink, []quiz.Question{q}, quizapi.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "mem://quiz.pdf", loc)
	assert.Equal(t, []string{"application/pdf"}, sink.contentTypes)
}

func TestApply_IgnoresOtherMessages(t *testing.T) {
	s, _ := newTestSession(t, quizapitest.NewService())
	assert.False(t, s.Apply("not ours"))
}
