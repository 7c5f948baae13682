package quizapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/studyquiz/internal/options"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/source"
)

// GenerateRequest is the body of POST /api/generate-quiz.
type GenerateRequest struct {
	SourceType    string `json:"source_type"`
	Content       string `json:"content"`
	FileName      string `json:"file_name"`
	NumQuestions  int    `json:"num_questions"`
	QuestionTypes string `json:"question_types"`
	NumVersions   int    `json:"num_versions"`
}

// NewGenerateRequest encodes a source and options for the wire. File bytes
// are base64 encoded here and nowhere else.
func NewGenerateRequest(src source.Source, opts options.Options) (GenerateRequest, error) {
	if src == nil || src.Empty() {
		return GenerateRequest{}, ErrNoSource
	}
	opts = opts.Normalize()
	req := GenerateRequest{
		SourceType:    string(src.Kind()),
		NumQuestions:  opts.QuestionCount,
		QuestionTypes: string(opts.TypeMix),
		NumVersions:   opts.VersionCount,
	}
	switch s := src.(type) {
	case source.Text:
		req.Content = s.Value
	case source.File:
		req.Content = base64.StdEncoding.EncodeToString(s.Data)
		req.FileName = s.Name
	default:
		return GenerateRequest{}, fmt.Errorf("unsupported source %T", src)
	}
	return req, nil
}

// Question is the wire form of a quiz question.
type Question struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	QuestionText  string    `json:"question_text"`
	Options       OptionMap `json:"options,omitempty"`
	CorrectAnswer string    `json:"correct_answer"`
}

// Version is the wire form of one quiz version.
type Version struct {
	Version   int        `json:"version"`
	Questions []Question `json:"questions"`
}

// GenerateResponse is the success body of the generation endpoint.
type GenerateResponse struct {
	Quizzes []Version `json:"quizzes"`
}

// ExportRequest is the body of POST /api/export-quiz.
type ExportRequest struct {
	QuizData []Question `json:"quiz_data"`
	Format   Format     `json:"format"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// OptionMap is a JSON object of option key to option text that keeps the
// order the keys appear in.
type OptionMap []quiz.Option

// MarshalJSON writes the options as an object in slice order.
func (m OptionMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, o := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(o.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(o.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of strings, recording key order.
func (m *OptionMap) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*m = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("options: expected object")
	}
	out := OptionMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("options: expected string key")
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("options[%s]: %w", key, err)
		}
		out = append(out, quiz.Option{Key: key, Text: text})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// FromQuestion converts a domain question to its wire form.
func FromQuestion(q quiz.Question) Question {
	switch q := q.(type) {
	case quiz.MultipleChoice:
		return Question{
			ID:            q.ID,
			Type:          string(quiz.KindMCQ),
			QuestionText:  q.Text,
			Options:       OptionMap(q.Options),
			CorrectAnswer: q.Correct,
		}
	case quiz.FillInTheBlank:
		return Question{
			ID:            q.ID,
			Type:          string(quiz.KindFillBlank),
			QuestionText:  q.Text,
			CorrectAnswer: q.Answer,
		}
	}
	return Question{}
}

// FromQuestions converts a question sequence, preserving order.
func FromQuestions(qs []quiz.Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = FromQuestion(q)
	}
	return out
}

// Domain converts the wire form to a validated domain question.
func (w Question) Domain() (quiz.Question, error) {
	var q quiz.Question
	switch quiz.Kind(w.Type) {
	case quiz.KindMCQ:
		q = quiz.MultipleChoice{
			ID:      w.ID,
			Text:    w.QuestionText,
			Options: []quiz.Option(w.Options),
			Correct: w.CorrectAnswer,
		}
	case quiz.KindFillBlank:
		q = quiz.FillInTheBlank{ID: w.ID, Text: w.QuestionText, Answer: w.CorrectAnswer}
	default:
		return nil, fmt.Errorf("question %s: unknown type %q", w.ID, w.Type)
	}
	if err := quiz.Validate(q); err != nil {
		return nil, err
	}
	return q, nil
}

// Result converts a decoded response to a domain result.
func (r GenerateResponse) Result() (quiz.Result, error) {
	if len(r.Quizzes) == 0 {
		return nil, errors.New("response contains no quizzes")
	}
	out := make(quiz.Result, 0, len(r.Quizzes))
	for _, wv := range r.Quizzes {
		v := quiz.Version{Number: wv.Version, Questions: make([]quiz.Question, 0, len(wv.Questions))}
		for _, wq := range wv.Questions {
			q, err := wq.Domain()
			if err != nil {
				return nil, fmt.Errorf("version %d: %w", wv.Version, err)
			}
			v.Questions = append(v.Questions, q)
		}
		if err := quiz.ValidateVersion(v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeResult validates a generation response body against the response
// schema and converts it to a domain result. Every failure wraps
// ErrMalformedResponse.
func DecodeResult(body []byte) (quiz.Result, error) {
	if err := validateResponse(body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	var resp GenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	result, err := resp.Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return result, nil
}

// EncodeResult renders a result in the generation response format.
func EncodeResult(r quiz.Result) ([]byte, error) {
	resp := GenerateResponse{Quizzes: make([]Version, len(r))}
	for i, v := range r {
		resp.Quizzes[i] = Version{Version: v.Number, Questions: FromQuestions(v.Questions)}
	}
	return json.MarshalIndent(resp, "", "  ")
}
