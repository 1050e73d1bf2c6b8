package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vakil-core/internal/domain/entity"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiClient implements repository.Completer on top of the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return NewGeminiClientFromClient(client, model), nil
}

func NewGeminiClientFromClient(c *genai.Client, model string) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClient{
		client: c,
		model:  strings.TrimPrefix(model, "models/"),
	}
}

func (g *GeminiClient) Model() string { return g.model }

// Complete sends the attachment (if any) inline, followed by the prompt text.
func (g *GeminiClient) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	parts := make([]*genai.Part, 0, 2)
	if req.Attachment != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Attachment.Data, req.Attachment.MediaType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	var cfg *genai.GenerateContentConfig
	if req.JSON {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", classifyAPIError(err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", entity.WrapError(entity.ErrUpstream, "gemini generate", entity.ErrEmptyResponse)
	}
	return text, nil
}

// classifyAPIError attaches a domain kind when the SDK reports a status that
// settles it. Anything else is left for usecase.ClassifyFailure.
func classifyAPIError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("gemini generate: %w", err)
	}

	msg := strings.ToLower(apiErr.Message)
	switch {
	case apiErr.Code == http.StatusTooManyRequests, apiErr.Status == "RESOURCE_EXHAUSTED",
		strings.Contains(msg, "quota"):
		return entity.WrapError(entity.ErrRateLimitExceeded, "gemini generate", err)
	case apiErr.Code == http.StatusUnauthorized, apiErr.Status == "UNAUTHENTICATED",
		apiErr.Code == http.StatusForbidden, apiErr.Status == "PERMISSION_DENIED",
		strings.Contains(msg, "api key"):
		return entity.WrapError(entity.ErrInvalidCredentials, "gemini generate", err)
	default:
		return fmt.Errorf("gemini generate: %w", err)
	}
}
