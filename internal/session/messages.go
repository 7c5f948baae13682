package session

import (
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi"
)

// GenerationDoneMsg carries the outcome of a generation request.
type GenerationDoneMsg struct {
	Ticket uint64
	Result quiz.Result
	Err    error
}

// ExportDoneMsg carries the outcome of an export in one format.
type ExportDoneMsg struct {
	Format   quizapi.Format
	Ticket   uint64
	Location string
	Err      error
}

// ExportAllDoneMsg carries the outcomes of a multi-format export.
type ExportAllDoneMsg struct {
	Results []ExportDoneMsg
}
