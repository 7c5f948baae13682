package workspace

import (
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/studyquiz/internal/options"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi"
	"github.com/abhisek/studyquiz/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photosynthesisResult() quiz.Result {
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

func threeVersions() quiz.Result {
	var r quiz.Result
	for n := 1; n <= 3; n++ {
		v := quiz.Version{Number: n}
		for i := 0; i < n+1; i++ {
			v.Questions = append(v.Questions, quiz.FillInTheBlank{
				ID: string(rune('a'+i)) + strings.Repeat("x", n), Text: "t", Answer: "a",
			})
		}
		r = append(r, v)
	}
	return r
}

func reduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

// generated returns a state holding result after a successful generation.
func generated(t *testing.T, result quiz.Result) State {
	t.Helper()
	s := reduceAll(New(), SelectText{Text: "Photosynthesis converts light to energy"}, RequestGeneration{})
	require.True(t, s.Generation.Pending())
	s = Reduce(s, GenerationSucceeded{Ticket: s.Generation.Ticket, Result: result})
	require.Equal(t, Resolved, s.Generation.Status)
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := New()
	assert.Equal(t, options.Default(), s.Options)
	assert.False(t, s.CanGenerate())
	assert.False(t, s.HasResult())
	assert.Equal(t, Idle, s.Generation.Status)
}

func TestSelectText_RejectsOverLimit(t *testing.T) {
	s := Reduce(New(), SelectText{Text: "keep me"})
	s = Reduce(s, SelectText{Text: strings.Repeat("a", source.MaxTextLength+1)})

	assert.Equal(t, "keep me", s.Source.Text())
	require.NotNil(t, s.Source.Err())

	s = Reduce(s, SelectText{Text: strings.Repeat("é", source.MaxTextLength)})
	assert.Equal(t, source.MaxTextLength, s.Source.Counter().Length)
	assert.Nil(t, s.Source.Err())
}

func TestSourceMutualExclusion(t *testing.T) {
	pdf := source.File{Name: "notes.pdf", MediaType: source.MediaTypePDF, Data: []byte("%PDF")}

	s := reduceAll(New(), SelectText{Text: "hello"}, SelectFile{File: pdf})
	assert.Empty(t, s.Source.Text())
	require.NotNil(t, s.Source.File())

	s = Reduce(s, SelectFile{File: source.File{Name: "x.png", MediaType: "image/png"}})
	assert.Equal(t, "notes.pdf", s.Source.File().Name, "rejected file leaves source unchanged")
	assert.NotNil(t, s.Source.Err())

	s = Reduce(s, SwitchMode{Mode: source.ModeText})
	assert.Nil(t, s.Source.File())
	s = Reduce(s, SelectText{Text: "again"})
	assert.Equal(t, source.Text{Value: "again"}, s.Source.Current())
}

func TestOptionsClamp(t *testing.T) {
	s := reduceAll(New(), SetQuestionCount{N: 100}, SetVersionCount{N: -3}, SetTypeMix{Mix: options.Mixed}, SetTypeMix{Mix: "nope"})
	assert.Equal(t, options.Options{QuestionCount: 40, TypeMix: options.Mixed, VersionCount: 1}, s.Options)
}

func TestRequestGeneration_RequiresSource(t *testing.T) {
	s := Reduce(New(), RequestGeneration{})
	assert.Equal(t, Idle, s.Generation.Status)
}

func TestRequestGeneration_IgnoredWhilePending(t *testing.T) {
	s := reduceAll(New(), SelectText{Text: "x"}, RequestGeneration{})
	first := s.Generation.Ticket

	assert.False(t, s.CanGenerate())
	s = Reduce(s, RequestGeneration{})
	assert.Equal(t, first, s.Generation.Ticket, "second trigger must not start a request")
}

func TestGenerationSucceeded_ExposesVersions(t *testing.T) {
	s := generated(t, threeVersions())

	require.Equal(t, 3, s.VersionCount())
	for i, v := range threeVersions() {
		assert.Len(t, s.Working[i].Questions, len(v.Questions))
		for j, q := range v.Questions {
			assert.Equal(t, q.QuestionID(), s.Working[i].Questions[j].QuestionID())
		}
	}

	active, ok := s.ActiveVersion()
	require.True(t, ok)
	assert.Equal(t, 1, active.Number)

	s = Reduce(s, SelectVersion{Index: 2})
	active, _ = s.ActiveVersion()
	assert.Equal(t, 3, active.Number)

	s = Reduce(s, SelectVersion{Index: 3})
	assert.Equal(t, 2, s.Active, "out of range selection ignored")
}

func TestPhotosynthesisShowsSelectedOption(t *testing.T) {
	s := generated(t, photosynthesisResult())

	v, ok := s.ActiveVersion()
	require.True(t, ok)
	require.Len(t, v.Questions, 1)
	assert.Equal(t, "Energy", v.Questions[0].CorrectAnswer())
}

func TestStaleGenerationDropped(t *testing.T) {
	s := reduceAll(New(), SelectText{Text: "x"}, RequestGeneration{})
	stale := s.Generation.Ticket
	s = Reduce(s, GenerationFailed{Ticket: stale, Err: errors.New("generation failed: boom")})
	s = Reduce(s, RequestGeneration{})
	current := s.Generation.Ticket
	require.NotEqual(t, stale, current)

	s = Reduce(s, GenerationSucceeded{Ticket: stale, Result: threeVersions()})
	assert.True(t, s.Generation.Pending())
	assert.False(t, s.HasResult())

	s = Reduce(s, GenerationSucceeded{Ticket: current, Result: photosynthesisResult()})
	assert.Equal(t, 1, s.VersionCount())

	// A late duplicate for the resolved ticket is ignored too.
	s = Reduce(s, GenerationFailed{Ticket: current, Err: errors.New("late")})
	assert.Equal(t, Resolved, s.Generation.Status)
	assert.True(t, s.HasResult())
}

func TestGenerationFailed_ResetsAndNotifies(t *testing.T) {
	s := reduceAll(New(), SelectText{Text: "x"}, RequestGeneration{})
	s = Reduce(s, GenerationFailed{Ticket: s.Generation.Ticket, Err: errors.New("generation failed: An unknown error occurred.")})

	assert.Equal(t, Rejected, s.Generation.Status)
	assert.False(t, s.HasResult())
	require.NotNil(t, s.Notice)
	assert.Equal(t, NoticeGeneration, s.Notice.Kind)
	assert.Equal(t, "generation failed: An unknown error occurred.", s.Notice.Message)
	assert.True(t, s.CanGenerate(), "user may retry")

	s = Reduce(s, DismissNotice{})
	assert.Nil(t, s.Notice)
}

func TestEditQuestion_WorkingCopyOnly(t *testing.T) {
	s := generated(t, photosynthesisResult())
	before := s

	s = Reduce(s, EditQuestion{ID: "q1", Edit: quiz.Edit{Field: quiz.FieldOption, Key: "A", Value: "Chemical energy"}})

	require.Nil(t, s.EditErr)
	assert.Equal(t, "Chemical energy", s.Working[0].Questions[0].CorrectAnswer())
	assert.Equal(t, "Energy", s.Received[0].Questions[0].CorrectAnswer())
	assert.Equal(t, "Energy", before.Working[0].Questions[0].CorrectAnswer(), "previous state untouched")
}

func TestEditQuestion_Rejected(t *testing.T) {
	s := generated(t, photosynthesisResult())
	s = Reduce(s, EditQuestion{ID: "q1", Edit: quiz.Edit{Field: quiz.FieldCorrect, Key: "Z"}})

	require.NotNil(t, s.EditErr)
	assert.Equal(t, "Energy", s.Working[0].Questions[0].CorrectAnswer())

	s = Reduce(s, EditQuestion{ID: "missing", Edit: quiz.Edit{Field: quiz.FieldText, Value: "x"}})
	require.NotNil(t, s.EditErr)
	assert.Equal(t, "missing", s.EditErr.QuestionID)

	s = Reduce(s, DiscardEditError{})
	assert.Nil(t, s.EditErr)
}

func TestNewGenerationDiscardsEdits(t *testing.T) {
	s := generated(t, photosynthesisResult())
	s = Reduce(s, EditQuestion{ID: "q1", Edit: quiz.Edit{Field: quiz.FieldText, Value: "edited"}})
	s = Reduce(s, RequestGeneration{})

	assert.False(t, s.HasResult())
	s = Reduce(s, GenerationSucceeded{Ticket: s.Generation.Ticket, Result: photosynthesisResult()})
	assert.Equal(t, "What does photosynthesis convert light into?", s.Working[0].Questions[0].Prompt())
}

func TestExportLifecycle(t *testing.T) {
	s := generated(t, photosynthesisResult())
	s = Reduce(s, EditQuestion{ID: "q1", Edit: quiz.Edit{Field: quiz.FieldOption, Key: "A", Value: "Chemical energy"}})

	require.True(t, s.CanExport(quizapi.FormatTXT))
	s = Reduce(s, RequestExport{Format: quizapi.FormatTXT})
	txt := s.Export(quizapi.FormatTXT)
	require.True(t, txt.Pending())
	assert.False(t, s.CanExport(quizapi.FormatTXT))
	assert.True(t, s.CanExport(quizapi.FormatPDF), "formats are independent")
	assert.Equal(t, "Chemical energy", s.ExportQuestions()[0].CorrectAnswer())

	s = Reduce(s, RequestExport{Format: quizapi.FormatPDF})
	pdf := s.Export(quizapi.FormatPDF)

	s = Reduce(s, ExportSucceeded{Format: quizapi.FormatTXT, Ticket: txt.Ticket, Location: "/tmp/quiz.txt"})
	assert.Equal(t, Resolved, s.Export(quizapi.FormatTXT).Status)
	assert.Equal(t, "/tmp/quiz.txt", s.Export(quizapi.FormatTXT).Location)
	require.NotNil(t, s.Notice)
	assert.False(t, s.Notice.IsError())

	working := s.Working
	s = Reduce(s, ExportFailed{Format: quizapi.FormatPDF, Ticket: pdf.Ticket, Err: errors.New("export failed: server returned status 500")})
	assert.Equal(t, Rejected, s.Export(quizapi.FormatPDF).Status)
	assert.Equal(t, working, s.Working, "failed export leaves quiz state alone")
	require.NotNil(t, s.Notice)
	assert.Equal(t, NoticeExport, s.Notice.Kind)
}

func TestExportRequiresQuestions(t *testing.T) {
	assert.False(t, New().CanExport(quizapi.FormatTXT))

	s := generated(t, quiz.Result{{Number: 1}})
	s = Reduce(s, RequestExport{Format: quizapi.FormatTXT})
	assert.Equal(t, Idle, s.Export(quizapi.FormatTXT).Status)
	assert.False(t, s.CanExport(quizapi.Format("rtf")))
}

func TestStaleExportAfterRegeneration(t *testing.T) {
	s := generated(t, photosynthesisResult())
	s = Reduce(s, RequestExport{Format: quizapi.FormatDOCX})
	ticket := s.Export(quizapi.FormatDOCX).Ticket

	s = Reduce(s, RequestGeneration{})
	s = Reduce(s, ExportSucceeded{Format: quizapi.FormatDOCX, Ticket: ticket, Location: "x"})
	assert.Equal(t, Idle, s.Export(quizapi.FormatDOCX).Status)
	assert.Nil(t, s.Notice)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := generated(t, photosynthesisResult())
	s = Reduce(s, RequestExport{Format: quizapi.FormatTXT})
	snapshot := s.Export(quizapi.FormatTXT)

	_ = Reduce(s, ExportFailed{Format: quizapi.FormatTXT, Ticket: snapshot.Ticket, Err: errors.New("x")})
	assert.Equal(t, snapshot, s.Export(quizapi.FormatTXT))
}
