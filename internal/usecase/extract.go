package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"vakil-core/internal/domain/entity"
)

const fence = "```"

// StripCodeFence removes a markdown fence the model sometimes wraps around
// JSON output. The opening fence may carry a language label ("```json").
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, fence) {
		rest := text[len(fence):]
		line, remainder, found := strings.Cut(rest, "\n")
		switch {
		case found && isFenceLabel(strings.TrimSpace(line)):
			text = remainder
		case !found && strings.HasPrefix(strings.ToLower(rest), "json"):
			text = rest[len("json"):]
		default:
			text = rest
		}
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}

func isFenceLabel(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '+', r == '.':
		default:
			return false
		}
	}
	return true
}

// ExtractJSON strips fences and decodes the rest into out. Any decoding
// failure is reported as ErrMalformedResponse.
func ExtractJSON(raw string, out any) error {
	body := StripCodeFence(raw)
	if body == "" {
		return fmt.Errorf("%w: empty body", entity.ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrMalformedResponse, err)
	}
	return nil
}

// ParseAnalysis decodes a model response into an AnalysisResult. It never
// returns a partially filled result.
func ParseAnalysis(raw string) (*entity.AnalysisResult, error) {
	var result entity.AnalysisResult
	if err := ExtractJSON(raw, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}
