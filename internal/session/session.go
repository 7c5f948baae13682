// Package session drives one quiz session: it owns the workspace state and
// turns user intents into Bubble Tea commands that call the quiz service.
package session

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studyquiz/internal/download"
	"github.com/abhisek/studyquiz/internal/logging"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi"
	"github.com/abhisek/studyquiz/internal/store"
	"github.com/abhisek/studyquiz/internal/workspace"
)

// Session owns the workspace state. It is not safe for concurrent use:
// every method must be called from the Bubble Tea update loop. Commands it
// returns run elsewhere and report back only through messages.
type Session struct {
	state  workspace.State
	svc    quizapi.Service
	sink   download.Sink
	events store.EventRepo
	log    *logging.Logger
}

// New creates a Session. events may be nil when no request log is kept.
func New(svc quizapi.Service, sink download.Sink, events store.EventRepo, log *logging.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	return &Session{
		state:  workspace.New(),
		svc:    svc,
		sink:   sink,
		events: events,
		log:    log,
	}
}

// State returns the current workspace state.
func (s *Session) State() workspace.State {
	return s.state
}

// Events returns the request log, or nil.
func (s *Session) Events() store.EventRepo {
	return s.events
}

// Dispatch applies a to the state.
func (s *Session) Dispatch(a workspace.Action) {
	s.state = workspace.Reduce(s.state, a)
}

// Generate starts a generation for the current source and options. It
// returns nil when generation is not possible right now.
func (s *Session) Generate() tea.Cmd {
	if !s.state.CanGenerate() {
		return nil
	}
	s.Dispatch(workspace.RequestGeneration{})

	ticket := s.state.Generation.Ticket
	src := s.state.Source.Current()
	opts := s.state.Options
	svc := s.svc
	s.log.Debug("generation requested", "ticket", ticket, "source", src.Kind(), "questions", opts.QuestionCount)

	return func() tea.Msg {
		result, err := svc.Generate(context.Background(), src, opts)
		return GenerationDoneMsg{Ticket: ticket, Result: result, Err: err}
	}
}

// Export starts an export of the active version in format f. It returns
// nil when f is already exporting or there is nothing to export.
func (s *Session) Export(f quizapi.Format) tea.Cmd {
	if !s.state.CanExport(f) {
		return nil
	}
	s.Dispatch(workspace.RequestExport{Format: f})

	ticket := s.state.Export(f).Ticket
	questions := s.state.ExportQuestions()
	svc, sink := s.svc, s.sink

	return func() tea.Msg {
		loc, err := ExportTo(context.Background(), svc, sink, questions, f)
		return ExportDoneMsg{Format: f, Ticket: ticket, Location: loc, Err: err}
	}
}

// ExportAll exports the active version in every format that is not already
// exporting. The exports run concurrently and report together.
func (s *Session) ExportAll() tea.Cmd {
	type job struct {
		format quizapi.Format
		ticket uint64
	}
	var jobs []job
	for _, f := range quizapi.Formats {
		if !s.state.CanExport(f) {
			continue
		}
		s.Dispatch(workspace.RequestExport{Format: f})
		jobs = append(jobs, job{format: f, ticket: s.state.Export(f).Ticket})
	}
	if len(jobs) == 0 {
		return nil
	}

	questions := s.state.ExportQuestions()
	svc, sink, log := s.svc, s.sink, s.log

	return func() tea.Msg {
		results := make([]ExportDoneMsg, len(jobs))
		var g errgroup.Group
		for i, j := range jobs {
			g.Go(func() error {
				loc, err := ExportTo(context.Background(), svc, sink, questions, j.format)
				results[i] = ExportDoneMsg{Format: j.format, Ticket: j.ticket, Location: loc, Err: err}
				return err
			})
		}
		if err := g.Wait(); err != nil {
			log.Warn("export all: at least one format failed", "error", err.Error())
		}
		return ExportAllDoneMsg{Results: results}
	}
}

// Apply folds a completion message into the state. It reports whether msg
// was one of this package's messages.
func (s *Session) Apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case GenerationDoneMsg:
		if msg.Err != nil {
			s.Dispatch(workspace.GenerationFailed{Ticket: msg.Ticket, Err: msg.Err})
		} else {
			s.Dispatch(workspace.GenerationSucceeded{Ticket: msg.Ticket, Result: msg.Result})
		}
		return true
	case ExportDoneMsg:
		s.applyExport(msg)
		return true
	case ExportAllDoneMsg:
		for _, r := range msg.Results {
			s.applyExport(r)
		}
		return true
	}
	return false
}

func (s *Session) applyExport(msg ExportDoneMsg) {
	if msg.Err != nil {
		s.log.Warn("export not saved", "format", msg.Format, "error", msg.Err.Error())
		s.Dispatch(workspace.ExportFailed{Format: msg.Format, Ticket: msg.Ticket, Err: msg.Err})
		return
	}
	s.log.Info("export saved", "format", msg.Format, "location", msg.Location)
	s.Dispatch(workspace.ExportSucceeded{Format: msg.Format, Ticket: msg.Ticket, Location: msg.Location})
}

// ExportTo renders questions in format f and saves the document as
// quiz.<f> in sink. Nothing is saved when the export fails. All errors
// are *quizapi.ExportError.
func ExportTo(ctx context.Context, svc quizapi.Service, sink download.Sink, questions []quiz.Question, f quizapi.Format) (string, error) {
	data, err := svc.Export(ctx, questions, f)
	if err != nil {
		return "", err
	}
	loc, err := sink.Save(ctx, f.FileName(), f.ContentType(), data)
	if err != nil {
		err = fmt.Errorf("save %s: %w", f.FileName(), err)
		return "", &quizapi.ExportError{Format: f, Reason: err.Error(), Err: err}
	}
	return loc, nil
}
