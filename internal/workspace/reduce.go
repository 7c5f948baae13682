package workspace

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi"
)

// Reduce returns the state that results from applying a to s. Actions that
// are not allowed in s return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SelectText:
		_ = s.Source.SelectText(a.Text)
	case SelectFile:
		_ = s.Source.SelectFile(a.File)
	case SwitchMode:
		s.Source.SetMode(a.Mode)
	case SetQuestionCount:
		s.Options = s.Options.WithQuestionCount(a.N)
	case SetTypeMix:
		s.Options = s.Options.WithTypeMix(a.Mix)
	case SetVersionCount:
		s.Options = s.Options.WithVersionCount(a.N)

	case RequestGeneration:
		if !s.CanGenerate() {
			return s
		}
		s.tickets++
		s.Generation = Op{Status: Pending, Ticket: s.tickets}
		s.Received, s.Working, s.Active = nil, nil, 0
		s.Notice, s.EditErr = nil, nil
		s.Exports = nil

	case GenerationSucceeded:
		if !s.Generation.accepts(a.Ticket) {
			return s
		}
		s.Generation = Op{Status: Resolved, Ticket: a.Ticket}
		s.Received = a.Result
		s.Working = a.Result.Clone()
		s.Active = 0

	case GenerationFailed:
		if !s.Generation.accepts(a.Ticket) {
			return s
		}
		err := a.Err
		if err == nil {
			err = errors.New("generation failed")
		}
		s.Generation = Op{Status: Rejected, Ticket: a.Ticket, Err: err}
		s.Received, s.Working, s.Active = nil, nil, 0
		s.Notice = &Notice{Kind: NoticeGeneration, Message: err.Error()}

	case DismissNotice:
		s.Notice = nil

	case SelectVersion:
		if a.Index < 0 || a.Index >= len(s.Working) {
			return s
		}
		s.Active = a.Index
		s.EditErr = nil

	case EditQuestion:
		return editQuestion(s, a)

	case DiscardEditError:
		s.EditErr = nil

	case RequestExport:
		if !s.CanExport(a.Format) {
			return s
		}
		s.tickets++
		s.Exports = withExport(s.Exports, a.Format, ExportOp{Op: Op{Status: Pending, Ticket: s.tickets}})

	case ExportSucceeded:
		if !s.Exports[a.Format].accepts(a.Ticket) {
			return s
		}
		s.Exports = withExport(s.Exports, a.Format, ExportOp{
			Op:       Op{Status: Resolved, Ticket: a.Ticket},
			Location: a.Location,
		})
		s.Notice = &Notice{Kind: NoticeInfo, Message: fmt.Sprintf("Saved %s to %s", a.Format.FileName(), a.Location)}

	case ExportFailed:
		if !s.Exports[a.Format].accepts(a.Ticket) {
			return s
		}
		err := a.Err
		if err == nil {
			err = errors.New("export failed")
		}
		s.Exports = withExport(s.Exports, a.Format, ExportOp{Op: Op{Status: Rejected, Ticket: a.Ticket, Err: err}})
		s.Notice = &Notice{Kind: NoticeExport, Message: err.Error()}
	}
	return s
}

func editQuestion(s State, a EditQuestion) State {
	v, ok := s.ActiveVersion()
	if !ok {
		return s
	}
	nv, _, err := v.Edit(a.ID, a.Edit)
	if err != nil {
		var editErr *quiz.EditError
		if !errors.As(err, &editErr) {
			editErr = &quiz.EditError{QuestionID: a.ID, Field: a.Edit.Field, Message: err.Error()}
		}
		s.EditErr = editErr
		return s
	}
	working := slices.Clone(s.Working)
	working[s.Active] = nv
	s.Working = working
	s.EditErr = nil
	return s
}

func withExport(m map[quizapi.Format]ExportOp, f quizapi.Format, op ExportOp) map[quizapi.Format]ExportOp {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[quizapi.Format]ExportOp, len(quizapi.Formats))
	}
	out[f] = op
	return out
}
