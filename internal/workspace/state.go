// Package workspace holds the single-owner state of a quiz session and the
// pure transitions that change it.
package workspace

import (
	"github.com/abhisek/studyquiz/internal/options"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi"
	"github.com/abhisek/studyquiz/internal/source"
)

// NoticeKind classifies a top-level notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeGeneration
	NoticeExport
)

// Notice is a dismissible top-level message.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// IsError reports whether the notice reports a failure.
func (n Notice) IsError() bool { return n.Kind != NoticeInfo }

// State is everything the user can see or change in one session.
//
// State is a value. Reduce never mutates its input; slices and maps held
// by a State are replaced, not written through.
type State struct {
	Source  source.Selector
	Options options.Options

	Generation Op

	// Received is the last result returned by the service. Working is the
	// edited copy shown to the user.
	Received quiz.Result
	Working  quiz.Result
	Active   int

	Notice  *Notice
	EditErr *quiz.EditError

	Exports map[quizapi.Format]ExportOp

	tickets uint64
}

// New returns the state of a fresh session.
func New() State {
	return State{Options: options.Default()}
}

// CanGenerate reports whether RequestGeneration would start a request.
func (s State) CanGenerate() bool {
	return s.Source.Ready() && !s.Generation.Pending()
}

// HasResult reports whether a quiz is available to view.
func (s State) HasResult() bool {
	return len(s.Working) > 0
}

// VersionCount returns the number of selectable versions.
func (s State) VersionCount() int {
	return len(s.Working)
}

// ActiveVersion returns the version currently shown.
func (s State) ActiveVersion() (quiz.Version, bool) {
	if s.Active < 0 || s.Active >= len(s.Working) {
		return quiz.Version{}, false
	}
	return s.Working[s.Active], true
}

// Export returns the export state for format f.
func (s State) Export(f quizapi.Format) ExportOp {
	return s.Exports[f]
}

// CanExport reports whether RequestExport for f would start a request.
func (s State) CanExport(f quizapi.Format) bool {
	if !f.Valid() || s.Exports[f].Pending() {
		return false
	}
	v, ok := s.ActiveVersion()
	return ok && len(v.Questions) > 0
}

// ExportQuestions returns the questions an export would send right now.
func (s State) ExportQuestions() []quiz.Question {
	v, ok := s.ActiveVersion()
	if !ok {
		return nil
	}
	return v.Questions
}

// AnyExportPending reports whether an export in any format is in flight.
func (s State) AnyExportPending() bool {
	for _, e := range s.Exports {
		if e.Pending() {
			return true
		}
	}
	return false
}
