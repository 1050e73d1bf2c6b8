package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const MediaTypePDF = "application/pdf"

// DocumentRequest is a contract upload from either front-end.
type DocumentRequest struct {
	RequestID string
	FileName  string
	MediaType string
	Size      int64
	Data      []byte

	// Hint is free text sent along with the document (a chat caption).
	// The model uses it to pick the reply language.
	Hint string
}

// Validate checks the declared metadata only, so it can run before the
// payload is downloaded.
func (r DocumentRequest) Validate(maxBytes int64) error {
	if !r.IsPDF() {
		return ErrUnsupportedType
	}
	if maxBytes > 0 && r.Size > maxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, r.Size, maxBytes)
	}
	return nil
}

func (r DocumentRequest) IsPDF() bool {
	return strings.EqualFold(r.MediaType, MediaTypePDF) ||
		strings.HasSuffix(strings.ToLower(r.FileName), ".pdf")
}

// FormatSize renders a byte limit for user-facing messages: whole megabytes
// as "10MB", other sizes of at least 1 MiB with one decimal, smaller ones in KB.
func FormatSize(n int64) string {
	const kib, mib = 1 << 10, 1 << 20
	switch {
	case n >= mib && n%mib == 0:
		return fmt.Sprintf("%dMB", n/mib)
	case n >= mib:
		return fmt.Sprintf("%.1fMB", float64(n)/mib)
	case n >= kib:
		return fmt.Sprintf("%dKB", n/kib)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// TextRequest is a free-text legal question.
type TextRequest struct {
	RequestID string
	Text      string
}

func (r TextRequest) Question() string {
	return strings.TrimSpace(r.Text)
}

func (r TextRequest) Validate(minLen int) error {
	if utf8.RuneCountInString(r.Question()) < minLen {
		return ErrQuestionTooShort
	}
	return nil
}

// Attachment is binary content sent to the model next to the prompt.
type Attachment struct {
	MediaType string
	Data      []byte
}

type CompletionRequest struct {
	Prompt     string
	Attachment *Attachment

	// JSON asks the provider for a JSON-only response body.
	JSON bool
}
