package pdfinfo

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Inspector reads PDF structure locally. It never decides whether a document
// is acceptable; it only reports what it could parse.
type Inspector struct{}

func NewInspector() *Inspector {
	return &Inspector{}
}

func (Inspector) PageCount(data []byte) (pages int, err error) {
	// The parser panics on some truncated cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	return r.NumPage(), nil
}
