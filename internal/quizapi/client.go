package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/studyquiz/internal/options"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/source"
)

// Default endpoint paths.
const (
	DefaultGeneratePath = "/api/generate-quiz"
	DefaultExportPath   = "/api/export-quiz"
)

const (
	defaultTimeout          = 5 * time.Minute
	defaultMaxResponseBytes = 64 << 20
)

// Service generates quizzes and exports them to documents.
type Service interface {
	// Generate sends the source and options to the generation endpoint
	// and returns the decoded result. Errors are *GenerationError.
	Generate(ctx context.Context, src source.Source, opts options.Options) (quiz.Result, error)

	// Export renders questions in the given format. Errors are *ExportError.
	Export(ctx context.Context, questions []quiz.Question, format Format) ([]byte, error)
}

// Client talks to the quiz service over HTTP. Calls are never retried.
type Client struct {
	baseURL          string
	generatePath     string
	exportPath       string
	httpClient       *http.Client
	timeout          time.Duration
	maxResponseBytes int64
}

var _ Service = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client. The Client never
// modifies hc.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the overall timeout of each call, whatever HTTP client
// is in use.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithPaths overrides the endpoint paths. Empty values keep the default.
func WithPaths(generate, export string) ClientOption {
	return func(c *Client) {
		if generate != "" {
			c.generatePath = generate
		}
		if export != "" {
			c.exportPath = export
		}
	}
}

// WithMaxResponseBytes caps the size of response bodies.
func WithMaxResponseBytes(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseBytes = n
		}
	}
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		generatePath:     DefaultGeneratePath,
		exportPath:       DefaultExportPath,
		httpClient:       &http.Client{Timeout: defaultTimeout},
		maxResponseBytes: defaultMaxResponseBytes,
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Generate implements Service.
func (c *Client) Generate(ctx context.Context, src source.Source, opts options.Options) (quiz.Result, error) {
	req, err := NewGenerateRequest(src, opts)
	if err != nil {
		return nil, &GenerationError{Reason: err.Error(), Err: err}
	}

	status, body, err := c.post(ctx, c.generatePath, req)
	if err != nil {
		return nil, &GenerationError{Reason: err.Error(), Err: err}
	}
	if !success(status) {
		return nil, &GenerationError{StatusCode: status, Reason: serverMessage(body, GenericFailure)}
	}

	result, err := DecodeResult(body)
	if err != nil {
		return nil, &GenerationError{StatusCode: status, Reason: err.Error(), Err: err}
	}
	return result, nil
}

// Export implements Service.
func (c *Client) Export(ctx context.Context, questions []quiz.Question, format Format) ([]byte, error) {
	if !format.Valid() {
		err := fmt.Errorf("unsupported format %q", format)
		return nil, &ExportError{Format: format, Reason: err.Error(), Err: err}
	}
	if len(questions) == 0 {
		return nil, &ExportError{Format: format, Reason: ErrNoQuestions.Error(), Err: ErrNoQuestions}
	}

	status, body, err := c.post(ctx, c.exportPath, ExportRequest{QuizData: FromQuestions(questions), Format: format})
	if err != nil {
		return nil, &ExportError{Format: format, Reason: err.Error(), Err: err}
	}
	if !success(status) {
		fallback := fmt.Sprintf("server returned status %d", status)
		return nil, &ExportError{Format: format, StatusCode: status, Reason: serverMessage(body, fallback)}
	}
	return body, nil
}

// post sends payload as JSON and returns the status and the (size-limited)
// body. A non-nil error means no usable response was received.
func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	ctx, requestID := ensureRequestID(ctx)
	info := callInfoFrom(ctx)
	if info != nil {
		info.RequestID = requestID
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}
	if info != nil {
		info.RequestBytes = len(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, unwrapURLError(err)
	}
	defer resp.Body.Close()
	if info != nil {
		info.StatusCode = resp.StatusCode
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > c.maxResponseBytes {
		return resp.StatusCode, nil, fmt.Errorf("response exceeds %d bytes", c.maxResponseBytes)
	}
	if info != nil {
		info.ResponseBytes = len(body)
	}
	return resp.StatusCode, body, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// serverMessage extracts {"message": ...} from a failure body.
func serverMessage(body []byte, fallback string) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return fallback
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return fallback
}

// unwrapURLError drops the "Post \"url\":" prefix net/http adds, keeping
// the cause readable in a one-line notice.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}
