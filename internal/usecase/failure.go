package usecase

import (
	"errors"
	"strings"

	"vakil-core/internal/domain/entity"
)

// Markers matched against the lowercased upstream error text when the client
// did not attach a structured kind. The provider does not document these.
var (
	rateLimitMarkers  = []string{"429", "quota", "resource_exhausted", "rate limit"}
	credentialMarkers = []string{"api_key", "api key not valid", "unauthenticated"}
)

// ClassifyFailure maps an upstream error onto exactly one domain kind:
// ErrRateLimitExceeded, ErrInvalidCredentials, ErrMalformedResponse or
// ErrUpstream. A rate-limit marker in the error text wins over a credential or
// generic kind attached earlier. The original error stays in the chain.
func ClassifyFailure(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{
		entity.ErrRateLimitExceeded,
		entity.ErrMalformedResponse,
		entity.ErrInvalidInput,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, rateLimitMarkers):
		return entity.WrapError(entity.ErrRateLimitExceeded, "complete", err)
	case errors.Is(err, entity.ErrInvalidCredentials), errors.Is(err, entity.ErrUpstream):
		return err
	case containsAny(msg, credentialMarkers):
		return entity.WrapError(entity.ErrInvalidCredentials, "complete", err)
	default:
		return entity.WrapError(entity.ErrUpstream, "complete", err)
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// FailureKind names the classified kind for logs and metrics.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, entity.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, entity.ErrRateLimitExceeded):
		return "rate_limited"
	case errors.Is(err, entity.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, entity.ErrMalformedResponse):
		return "malformed_response"
	default:
		return "upstream_error"
	}
}
