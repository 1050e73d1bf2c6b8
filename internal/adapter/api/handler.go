package api

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"vakil-core/internal/domain/entity"
	"vakil-core/internal/domain/repository"
	"vakil-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const formField = "contract"

type AnalyzeHandler struct {
	analyzer *usecase.Analyzer
	recorder repository.Recorder
	log      *zap.Logger
}

func NewAnalyzeHandler(analyzer *usecase.Analyzer, rec repository.Recorder, log *zap.Logger) *AnalyzeHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyzeHandler{analyzer: analyzer, recorder: rec, log: log}
}

func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	requestID := c.GetRespHeader(fiber.HeaderXRequestID)

	fh, err := uploadedFile(c)
	if err != nil {
		return h.fail(c, err)
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		return h.fail(c, entity.ErrUnsupportedType)
	}
	maxBytes := h.analyzer.Limits().MaxUploadBytes
	if fh.Size > maxBytes {
		return h.fail(c, entity.ErrFileTooLarge)
	}

	data, err := readUpload(fh, maxBytes)
	if err != nil {
		return h.fail(c, err)
	}

	req := entity.DocumentRequest{
		RequestID: requestID,
		FileName:  fh.Filename,
		MediaType: fh.Header.Get(fiber.HeaderContentType),
		Size:      int64(len(data)),
		Data:      data,
	}
	result, err := h.analyzer.AnalyzeContract(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	h.observe("ok")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"result": result})
}

func uploadedFile(c *fiber.Ctx) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, entity.ErrNoFile
	}
	files := form.File[formField]
	if len(files) == 0 {
		// An empty file input arrives as a plain form value.
		if _, ok := form.Value[formField]; ok {
			return nil, entity.ErrNoFilename
		}
		return nil, entity.ErrNoFile
	}
	if files[0].Filename == "" {
		return nil, entity.ErrNoFilename
	}
	return files[0], nil
}

func readUpload(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, entity.WrapError(entity.ErrInvalidInput, "open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, entity.WrapError(entity.ErrInvalidInput, "read upload", err)
	}
	if len(data) == 0 {
		return nil, entity.ErrEmptyFile
	}
	if int64(len(data)) > maxBytes {
		return nil, entity.ErrFileTooLarge
	}
	return data, nil
}

func (h *AnalyzeHandler) fail(c *fiber.Ctx, err error) error {
	status, msg := mapError(err, h.analyzer.Limits().MaxUploadBytes)
	kind := usecase.FailureKind(err)
	h.observe(kind)

	fields := []zap.Field{
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.Int("status", status),
		zap.String("failure", kind),
		zap.Error(err),
	}
	if status >= fiber.StatusInternalServerError {
		h.log.Error("analysis failed", fields...)
	} else {
		h.log.Info("analysis rejected", fields...)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func (h *AnalyzeHandler) observe(outcome string) {
	if h.recorder != nil {
		h.recorder.ObserveRequest("web", usecase.KindAnalysis, outcome)
	}
}

func tooLargeMessage(maxUploadBytes int64) string {
	return "File too large. Please upload a PDF under " + entity.FormatSize(maxUploadBytes) + "."
}

// mapError turns a domain error into the status and message shown to the
// caller. Upstream error text is never included.
func mapError(err error, maxUploadBytes int64) (int, string) {
	switch {
	case errors.Is(err, entity.ErrNoFile):
		return fiber.StatusBadRequest, "No file uploaded. Please select a PDF."
	case errors.Is(err, entity.ErrNoFilename):
		return fiber.StatusBadRequest, "No file selected."
	case errors.Is(err, entity.ErrUnsupportedType):
		return fiber.StatusBadRequest, "Only PDF files are supported."
	case errors.Is(err, entity.ErrEmptyFile):
		return fiber.StatusBadRequest, "The PDF file is empty. Please upload a real contract."
	case errors.Is(err, entity.ErrFileTooLarge):
		return fiber.StatusBadRequest, tooLargeMessage(maxUploadBytes)
	case errors.Is(err, entity.ErrInvalidInput):
		return fiber.StatusBadRequest, "Could not read the uploaded file."
	case errors.Is(err, entity.ErrRateLimitExceeded):
		return fiber.StatusTooManyRequests, "API rate limit hit. Please wait 60 seconds and try again."
	case errors.Is(err, entity.ErrMalformedResponse):
		return fiber.StatusInternalServerError, "The model returned an unexpected format. Please try again."
	case errors.Is(err, entity.ErrInvalidCredentials):
		return fiber.StatusInternalServerError, "Invalid Gemini API key. Check the server configuration."
	default:
		return fiber.StatusInternalServerError, "Analysis failed. Please try again."
	}
}
