package document

import (
	"errors"
	"strings"
)

// Document is the uniform content unit handed to the summarizer. It is never
// mutated after assembly.
type Document struct {
	Content string
}

// ErrEmptyContent signals that upstream fetching nominally succeeded but
// produced nothing usable.
var ErrEmptyContent = errors.New("fetched content is empty")

// Assemble wraps plain text into a Document.
func Assemble(text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, ErrEmptyContent
	}
	return Document{Content: text}, nil
}
