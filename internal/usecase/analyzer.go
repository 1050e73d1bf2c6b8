package usecase

import (
	"context"
	"strings"
	"time"

	"vakil-core/internal/domain/entity"
	"vakil-core/internal/domain/repository"

	"go.uber.org/zap"
)

const (
	KindContract = "contract"
	KindQuestion = "question"
	KindAnalysis = "analysis"
)

type Limits struct {
	MaxUploadBytes    int64
	MinQuestionLength int
}

// Analyzer builds prompts, calls the model and post-processes its answer.
// Every method blocks for the duration of the upstream call.
type Analyzer struct {
	completer repository.Completer
	inspector repository.DocumentInspector
	recorder  repository.Recorder
	log       *zap.Logger
	limits    Limits
}

func NewAnalyzer(c repository.Completer, insp repository.DocumentInspector, rec repository.Recorder, log *zap.Logger, limits Limits) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Analyzer{completer: c, inspector: insp, recorder: rec, log: log, limits: limits}
}

func (a *Analyzer) Limits() Limits { return a.limits }

// AnalyzeDocument returns a prose review of a contract for the chat front-end.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, req entity.DocumentRequest) (string, error) {
	if err := a.checkDocument(req); err != nil {
		return "", err
	}
	return a.complete(ctx, KindContract, req.RequestID, entity.CompletionRequest{
		Prompt:     buildContractPrompt(req.Hint),
		Attachment: &entity.Attachment{MediaType: entity.MediaTypePDF, Data: req.Data},
	})
}

// AnswerQuestion answers a free-text legal question.
func (a *Analyzer) AnswerQuestion(ctx context.Context, req entity.TextRequest) (string, error) {
	if err := req.Validate(a.limits.MinQuestionLength); err != nil {
		return "", err
	}
	return a.complete(ctx, KindQuestion, req.RequestID, entity.CompletionRequest{
		Prompt: buildQuestionPrompt(req.Question()),
	})
}

// AnalyzeContract returns the structured review used by the web front-end.
func (a *Analyzer) AnalyzeContract(ctx context.Context, req entity.DocumentRequest) (*entity.AnalysisResult, error) {
	if err := a.checkDocument(req); err != nil {
		return nil, err
	}
	raw, err := a.complete(ctx, KindAnalysis, req.RequestID, entity.CompletionRequest{
		Prompt:     analysisPrompt,
		Attachment: &entity.Attachment{MediaType: entity.MediaTypePDF, Data: req.Data},
		JSON:       true,
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseAnalysis(raw)
	if err != nil {
		a.log.Warn("model returned unparseable analysis",
			zap.String("request_id", req.RequestID),
			zap.String("raw_prefix", prefix(raw, 500)),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

func (a *Analyzer) checkDocument(req entity.DocumentRequest) error {
	if err := req.Validate(a.limits.MaxUploadBytes); err != nil {
		return err
	}
	if len(req.Data) == 0 {
		return entity.ErrEmptyFile
	}

	if a.inspector != nil {
		pages, err := a.inspector.PageCount(req.Data)
		if err != nil {
			// The model reads PDFs the local parser cannot, so this never rejects.
			a.log.Debug("pdf inspection failed", zap.String("request_id", req.RequestID), zap.Error(err))
		} else {
			a.recorder.ObservePages(pages)
			a.log.Info("pdf received",
				zap.String("request_id", req.RequestID),
				zap.String("filename", req.FileName),
				zap.Int("bytes", len(req.Data)),
				zap.Int("pages", pages),
			)
		}
	}
	return nil
}

func (a *Analyzer) complete(ctx context.Context, kind, requestID string, creq entity.CompletionRequest) (string, error) {
	start := time.Now()
	text, err := a.completer.Complete(ctx, creq)
	a.recorder.ObserveCompletion(kind, time.Since(start))

	if err != nil {
		err = ClassifyFailure(err)
		a.log.Error("completion failed",
			zap.String("request_id", requestID),
			zap.String("kind", kind),
			zap.String("failure", FailureKind(err)),
			zap.Error(err),
		)
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", entity.WrapError(entity.ErrUpstream, kind, entity.ErrEmptyResponse)
	}
	return text, nil
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type nopRecorder struct{}

func (nopRecorder) ObserveRequest(string, string, string) {}
func (nopRecorder) ObserveCompletion(string, time.Duration) {}
func (nopRecorder) ObservePages(int) {}
