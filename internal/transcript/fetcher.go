package transcript

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// DefaultLanguages is the caption language preference order tried when the
// caller supplies none.
var DefaultLanguages = []string{"en", "en-US", "hi", "ne"}

// ErrUnavailable is returned after every tier and language combination has
// been exhausted without yielding text. The message lists plausible causes;
// the tiered search does not distinguish them.
var ErrUnavailable = errors.New("could not retrieve a transcript for this video: captions may be disabled, the video may be private or age-restricted, or the caption backend is incompatible")

// ErrUnsupportedCallShape marks a generic fetch implementation rejecting the
// language-list argument form outright, as opposed to failing while handling
// it. Callers retry the same combination without a language constraint.
var ErrUnsupportedCallShape = errors.New("unsupported call shape")

// The caption backend has gone through several incompatible calling
// conventions. Each is modeled as an optional capability probed by type
// assertion; a service may implement any subset.

// DirectCaller is the single-call convention: one request per language list.
type DirectCaller interface {
	GetTranscript(ctx context.Context, videoID string, languages []string) (any, error)
}

// Ref is one entry of the listing convention: an available transcript that
// can be fetched on demand.
type Ref struct {
	LanguageCode string
	Name         string
	Fetch        func(ctx context.Context) (any, error)
}

// Lister is the two-step convention: enumerate available transcripts, then
// fetch one.
type Lister interface {
	ListTranscripts(ctx context.Context, videoID string) ([]Ref, error)
}

// GenericFetcher is the loose convention whose argument handling varies
// between backend versions.
type GenericFetcher interface {
	Fetch(ctx context.Context, videoID string, languages []string) (any, error)
}

// Fetcher runs the tiered fallback search over whatever capabilities the
// configured service exposes. Every individual attempt is fault-isolated:
// an error or empty result moves the search to the next combination, and
// only total exhaustion surfaces ErrUnavailable.
type Fetcher struct {
	// Service is probed for each calling convention in tier order.
	Service any
	// NewService, when set, supplies a fresh handle for the generic tier's
	// second pass.
	NewService func() any
	// Languages overrides DefaultLanguages.
	Languages []string
	// TierTimeout bounds each tier to keep a hung backend from stalling the
	// whole search. Zero inherits the caller's context alone.
	TierTimeout time.Duration
}

// Fetch returns the flattened transcript text for the video, trying tiers in
// strict order and stopping at the first non-empty result.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	langs := f.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	if text := f.tierDirect(ctx, videoID, langs); text != "" {
		return text, nil
	}
	if text := f.tierListing(ctx, videoID, langs); text != "" {
		return text, nil
	}
	if text := f.tierGeneric(ctx, videoID, langs); text != "" {
		return text, nil
	}
	return "", ErrUnavailable
}

func (f *Fetcher) tierCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.TierTimeout > 0 {
		return context.WithTimeout(ctx, f.TierTimeout)
	}
	return ctx, func() {}
}

func (f *Fetcher) tierDirect(ctx context.Context, videoID string, langs []string) string {
	direct, ok := f.Service.(DirectCaller)
	if !ok {
		return ""
	}
	ctx, cancel := f.tierCtx(ctx)
	defer cancel()
	for _, lang := range langs {
		raw, err := direct.GetTranscript(ctx, videoID, []string{lang})
		if err != nil {
			log.Debug().Err(err).Str("videoID", videoID).Str("lang", lang).Msg("direct transcript call failed")
			continue
		}
		if text := Normalize(raw); text != "" {
			return text
		}
	}
	// Last direct attempt: let the service pick its default language.
	raw, err := direct.GetTranscript(ctx, videoID, nil)
	if err != nil {
		log.Debug().Err(err).Str("videoID", videoID).Msg("direct transcript call without language failed")
		return ""
	}
	return Normalize(raw)
}

func (f *Fetcher) tierListing(ctx context.Context, videoID string, langs []string) string {
	lister, ok := f.Service.(Lister)
	if !ok {
		return ""
	}
	ctx, cancel := f.tierCtx(ctx)
	defer cancel()
	refs, err := lister.ListTranscripts(ctx, videoID)
	if err != nil {
		log.Debug().Err(err).Str("videoID", videoID).Msg("transcript listing failed")
		return ""
	}
	for _, lang := range langs {
		for _, ref := range refs {
			if !languageMatches(lang, ref.LanguageCode) {
				continue
			}
			if text := fetchRef(ctx, ref); text != "" {
				return text
			}
			break
		}
	}
	// No preferred language produced text: try every listed transcript.
	for _, ref := range refs {
		if text := fetchRef(ctx, ref); text != "" {
			return text
		}
	}
	return ""
}

func (f *Fetcher) tierGeneric(ctx context.Context, videoID string, langs []string) string {
	handles := []any{f.Service}
	if f.NewService != nil {
		handles = append(handles, f.NewService())
	}
	ctx, cancel := f.tierCtx(ctx)
	defer cancel()
	for _, h := range handles {
		g, ok := h.(GenericFetcher)
		if !ok {
			continue
		}
		for _, lang := range langs {
			raw, err := g.Fetch(ctx, videoID, []string{lang})
			if errors.Is(err, ErrUnsupportedCallShape) {
				raw, err = g.Fetch(ctx, videoID, nil)
			}
			if err != nil {
				log.Debug().Err(err).Str("videoID", videoID).Str("lang", lang).Msg("generic transcript fetch failed")
				continue
			}
			if text := Normalize(raw); text != "" {
				return text
			}
		}
	}
	return ""
}

func fetchRef(ctx context.Context, ref Ref) string {
	if ref.Fetch == nil {
		return ""
	}
	raw, err := ref.Fetch(ctx)
	if err != nil {
		log.Debug().Err(err).Str("lang", ref.LanguageCode).Msg("listed transcript fetch failed")
		return ""
	}
	return Normalize(raw)
}

// languageMatches reports whether a caption track's language code satisfies a
// preferred tag: exact match first, then same base language (en matches
// en-GB).
func languageMatches(preferred, code string) bool {
	if strings.EqualFold(preferred, code) {
		return true
	}
	p, perr := language.Parse(preferred)
	c, cerr := language.Parse(code)
	if perr != nil || cerr != nil {
		return false
	}
	pb, _ := p.Base()
	cb, _ := c.Base()
	return pb == cb
}
