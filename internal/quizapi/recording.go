package quizapi

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/studyquiz/internal/logging"
	"github.com/abhisek/studyquiz/internal/options"
	"github.com/abhisek/studyquiz/internal/quiz"
	"github.com/abhisek/studyquiz/internal/source"
	"github.com/abhisek/studyquiz/internal/store"
)

// RecordingService is a decorator that logs every call and records it in
// the session request log.
type RecordingService struct {
	inner  Service
	events store.EventRepo
	log    *logging.Logger
}

var _ Service = (*RecordingService)(nil)

// WithRecording wraps a Service with logging and event recording.
// Either repo or log may be nil.
func WithRecording(svc Service, repo store.EventRepo, log *logging.Logger) *RecordingService {
	if log == nil {
		log = logging.Nop()
	}
	return &RecordingService{inner: svc, events: repo, log: log}
}

func (r *RecordingService) Generate(ctx context.Context, src source.Source, opts options.Options) (quiz.Result, error) {
	ctx, requestID := ensureRequestID(ctx)
	info := &CallInfo{RequestID: requestID}
	ctx = WithCallInfo(ctx, info)

	start := time.Now()
	result, err := r.inner.Generate(ctx, src, opts)
	latency := time.Since(start)

	detail := generateDetail(src, opts)
	r.record(ctx, store.OperationGenerate, detail, info, latency, err)
	if err != nil {
		r.log.Warn("generation failed", "request_id", requestID, "detail", detail, "status", info.StatusCode, "error", err.Error())
	} else {
		r.log.Info("generation resolved", "request_id", requestID, "detail", detail,
			"versions", len(result), "questions", result.QuestionCount(), "latency_ms", latency.Milliseconds())
	}
	return result, err
}

func (r *RecordingService) Export(ctx context.Context, questions []quiz.Question, format Format) ([]byte, error) {
	ctx, requestID := ensureRequestID(ctx)
	info := &CallInfo{RequestID: requestID}
	ctx = WithCallInfo(ctx, info)

	start := time.Now()
	data, err := r.inner.Export(ctx, questions, format)
	latency := time.Since(start)

	r.record(ctx, store.OperationExport, string(format), info, latency, err)
	if err != nil {
		r.log.Warn("export failed", "request_id", requestID, "format", format, "status", info.StatusCode, "error", err.Error())
	} else {
		r.log.Info("export resolved", "request_id", requestID, "format", format,
			"questions", len(questions), "bytes", len(data), "latency_ms", latency.Milliseconds())
	}
	return data, err
}

func (r *RecordingService) record(ctx context.Context, op, detail string, info *CallInfo, latency time.Duration, err error) {
	if r.events == nil {
		return
	}
	data := store.RequestEventData{
		RequestID:     info.RequestID,
		Operation:     op,
		Detail:        detail,
		StatusCode:    info.StatusCode,
		LatencyMs:     latency.Milliseconds(),
		Success:       err == nil,
		RequestBytes:  info.RequestBytes,
		ResponseBytes: info.ResponseBytes,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	// A failed write must not fail the call itself.
	if logErr := r.events.AppendRequestEvent(context.WithoutCancel(ctx), data); logErr != nil {
		r.log.Error("record request event", "request_id", info.RequestID, "error", logErr.Error())
	}
}

func generateDetail(src source.Source, opts options.Options) string {
	opts = opts.Normalize()
	kind := "none"
	if src != nil {
		kind = string(src.Kind())
	}
	return fmt.Sprintf("%s, %s, %s, %s", kind,
		plural(opts.QuestionCount, "question"), opts.TypeMix, plural(opts.VersionCount, "version"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
