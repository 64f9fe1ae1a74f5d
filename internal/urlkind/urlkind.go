package urlkind

import (
	"errors"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"
)

// Kind classifies an input URL. Every input gets exactly one kind.
type Kind int

const (
	// KindWebsite covers any URL that is not recognizably a video page.
	KindWebsite Kind = iota
	// KindVideo covers YouTube watch pages, short links, shorts and embeds.
	KindVideo
)

func (k Kind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "website"
}

// ErrInvalidURL indicates the input failed the general well-formedness check
// before classification.
var ErrInvalidURL = errors.New("not a valid URL")

// ErrNoVideoID indicates a video-classified URL matched none of the known
// identifier patterns. This is terminal for the request and never retried.
var ErrNoVideoID = errors.New("invalid YouTube URL")

// idPatterns are applied in order; the first capture wins. The terminator
// classes keep query strings and trailing path segments out of the identifier.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`v=([^&]+)`),                     // youtube.com/watch?v=ID
	regexp.MustCompile(`youtu\.be/([^?&]+)`),            // youtu.be/ID
	regexp.MustCompile(`youtube\.com/shorts/([^?&/]+)`), // youtube.com/shorts/ID
	regexp.MustCompile(`youtube\.com/embed/([^?&/]+)`),  // youtube.com/embed/ID
}

var strictURL = xurls.Strict()

// ResolveInput trims the raw input and checks that the whole of it is a
// well-formed absolute URL. It does not classify.
func ResolveInput(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidURL
	}
	if strictURL.FindString(s) != s {
		return "", ErrInvalidURL
	}
	return s, nil
}

// Classify decides whether the URL refers to a video hosting page or a
// generic website.
func Classify(url string) Kind {
	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		return KindVideo
	}
	return KindWebsite
}

// ExtractVideoID pulls the canonical video identifier out of a video URL.
func ExtractVideoID(url string) (string, error) {
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", ErrNoVideoID
}
