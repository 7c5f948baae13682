// Package quizapitest provides fakes of the quiz service for tests.
package quizapitest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/abhisek/studyquiz/internal/options"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/quizapi"
	"github.com/abhisek/studyquiz/internal/source"
)

// ErrNoResponse is returned when a fake has no canned response left.
var ErrNoResponse = errors.New("quizapitest: no canned response")

// GenerateResponse is a canned Generate outcome.
type GenerateResponse struct {
	Result quiz.Result
	Err    error
}

// ExportResponse is a canned Export outcome.
type ExportResponse struct {
	Data []byte
	Err  error
}

// GenerateCall records one Generate invocation.
type GenerateCall struct {
	Source  source.Source
	Options options.Options
}

// ExportCall records one Export invocation.
type ExportCall struct {
	Questions []quiz.Question
	Format    quizapi.Format
}

// Service is a deterministic quizapi.Service. It returns canned responses
// in FIFO order and records all calls.
type Service struct {
	mu            sync.Mutex
	generate      []GenerateResponse
	export        []ExportResponse
	GenerateCalls []GenerateCall
	ExportCalls   []ExportCall
}

var _ quizapi.Service = (*Service)(nil)

// NewService creates a Service with no canned responses.
func NewService() *Service {
	return &Service{}
}

// AddGenerate queues a Generate outcome.
func (s *Service) AddGenerate(resp GenerateResponse) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generate = append(s.generate, resp)
	return s
}

// AddExport queues an Export outcome.
func (s *Service) AddExport(resp ExportResponse) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.export = append(s.export, resp)
	return s
}

func (s *Service) Generate(_ context.Context, src source.Source, opts options.Options) (quiz.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.GenerateCalls = append(s.GenerateCalls, GenerateCall{Source: src, Options: opts})
	if len(s.generate) == 0 {
		return nil, &quizapi.GenerationError{Reason: ErrNoResponse.Error(), Err: ErrNoResponse}
	}
	resp := s.generate[0]
	s.generate = s.generate[1:]
	return resp.Result, resp.Err
}

func (s *Service) Export(_ context.Context, questions []quiz.Question, format quizapi.Format) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ExportCalls = append(s.ExportCalls, ExportCall{Questions: questions, Format: format})
	if len(s.export) == 0 {
		return nil, &quizapi.ExportError{Format: format, Reason: ErrNoResponse.Error(), Err: ErrNoResponse}
	}
	resp := s.export[0]
	s.export = s.export[1:]
	return resp.Data, resp.Err
}

// GenerateCount returns the number of Generate calls made.
func (s *Service) GenerateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.GenerateCalls)
}

// ExportCount returns the number of Export calls made.
func (s *Service) ExportCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ExportCalls)
}

// Reply is a canned HTTP response.
type Reply struct {
	Status int
	Body   []byte
}

// Server is an httptest server speaking the quiz service protocol. It
// replies with queued responses and records decoded request bodies.
type Server struct {
	*httptest.Server

	mu               sync.Mutex
	generateReplies  []Reply
	exportReplies    []Reply
	GenerateRequests []quizapi.GenerateRequest
	ExportRequests   []quizapi.ExportRequest
	RequestIDs       []string
}

// NewServer starts a Server on the default endpoint paths. Call Close when done.
func NewServer() *Server {
	s := &Server{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+quizapi.DefaultGeneratePath, s.handleGenerate)
	mux.HandleFunc("POST "+quizapi.DefaultExportPath, s.handleExport)
	s.Server = httptest.NewServer(mux)
	return s
}

// ReplyGenerate queues a generation reply.
func (s *Server) ReplyGenerate(status int, body string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generateReplies = append(s.generateReplies, Reply{Status: status, Body: []byte(body)})
	return s
}

// ReplyExport queues an export reply.
func (s *Server) ReplyExport(status int, body []byte) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exportReplies = append(s.exportReplies, Reply{Status: status, Body: body})
	return s
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req quizapi.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"bad request body"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.GenerateRequests = append(s.GenerateRequests, req)
	s.RequestIDs = append(s.RequestIDs, r.Header.Get(quizapi.RequestIDHeader))
	reply := s.next(&s.generateReplies)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = w.Write(reply.Body)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req quizapi.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"bad request body"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.ExportRequests = append(s.ExportRequests, req)
	s.RequestIDs = append(s.RequestIDs, r.Header.Get(quizapi.RequestIDHeader))
	reply := s.next(&s.exportReplies)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(reply.Status)
	_, _ = w.Write(reply.Body)
}

// next pops the first queued reply; callers hold s.mu.
func (s *Server) next(queue *[]Reply) Reply {
	if len(*queue) == 0 {
		return Reply{Status: http.StatusInternalServerError, Body: []byte(`{"message":"no canned reply"}`)}
	}
	r := (*queue)[0]
	*queue = (*queue)[1:]
	return r
}

// Client returns a quizapi.Client pointed at the server.
func (s *Server) Client(opts ...quizapi.ClientOption) *quizapi.Client {
	opts = append([]quizapi.ClientOption{quizapi.WithHTTPClient(s.Server.Client())}, opts...)
	return quizapi.NewClient(s.URL, opts...)
}
