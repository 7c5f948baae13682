package workspace

import (
	"github.com/abhisek/studyquiz/internal/options"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi"
	"github.com/abhisek/studyquiz/internal/source"
)

// Action is a state transition request.
type Action interface {
	isAction()
}

type (
	// SelectText replaces the source with pasted text.
	SelectText struct{ Text string }

	// SelectFile replaces the source with a file.
	SelectFile struct{ File source.File }

	// SwitchMode changes the input tab, clearing the other tab's value.
	SwitchMode struct{ Mode source.Mode }

	SetQuestionCount struct{ N int }
	SetTypeMix       struct{ Mix options.TypeMix }
	SetVersionCount  struct{ N int }

	// RequestGeneration starts a generation when a source is selected and
	// none is pending. The new ticket is State.Generation.Ticket.
	RequestGeneration struct{}

	GenerationSucceeded struct {
		Ticket uint64
		Result quiz.Result
	}

	GenerationFailed struct {
		Ticket uint64
		Err    error
	}

	// DismissNotice clears the top-level notice.
	DismissNotice struct{}

	// SelectVersion makes the version at Index active.
	SelectVersion struct{ Index int }

	// EditQuestion applies an edit to a question of the active version.
	EditQuestion struct {
		ID   string
		Edit quiz.Edit
	}

	// DiscardEditError clears the last rejected edit.
	DiscardEditError struct{}

	// RequestExport starts an export of the active version in Format.
	RequestExport struct{ Format quizapi.Format }

	ExportSucceeded struct {
		Format   quizapi.Format
		Ticket   uint64
		Location string
	}

	ExportFailed struct {
		Format quizapi.Format
		Ticket uint64
		Err    error
	}
)

func (SelectText) isAction()          {}
func (SelectFile) isAction()          {}
func (SwitchMode) isAction()          {}
func (SetQuestionCount) isAction()    {}
func (SetTypeMix) isAction()          {}
func (SetVersionCount) isAction()     {}
func (RequestGeneration) isAction()   {}
func (GenerationSucceeded) isAction() {}
func (GenerationFailed) isAction()    {}
func (DismissNotice) isAction()       {}
func (SelectVersion) isAction()       {}
func (EditQuestion) isAction()        {}
func (DiscardEditError) isAction()    {}
func (RequestExport) isAction()       {}
func (ExportSucceeded) isAction()     {}
func (ExportFailed) isAction()        {}
