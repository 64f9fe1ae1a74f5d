package extract

// Extractor is a minimal interface for content extraction strategies, so
// callers can swap readability tactics without changing their plumbing.
type Extractor interface {
	// Extract converts raw HTML bytes into a simplified Result. It should be
	// deterministic and side-effect free.
	Extract(input []byte) Result
}

// ReadabilityExtractor applies FromHTML: readability first, DOM-walk
// fallback.
type ReadabilityExtractor struct{}

func (ReadabilityExtractor) Extract(input []byte) Result {
	return FromHTML(input)
}
