package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/fetch"
)

const watchPageBase = "https://www.youtube.com/watch?v="

const captionTracksMarker = `"captionTracks":`

// captionTrack mirrors the relevant fields of the watch page player response.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
	Kind string `json:"kind"`
}

// timedText models the timedtext XML payload behind a caption track.
type timedText struct {
	XMLName xml.Name  `xml:"transcript"`
	Cues    []cueText `xml:"text"`
}

type cueText struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",chardata"`
}

// Segment is one caption cue as surfaced by the listing convention.
type Segment struct {
	Text     string
	Start    string
	Duration string
}

// listingResponse wraps segments the way newer caption backends do; the
// normalizer unwraps it.
type listingResponse struct {
	Segments []Segment
}

// YouTube is the concrete caption service: it discovers caption tracks by
// scraping the watch page and downloads their timedtext payloads. It
// implements all three calling conventions so the tiered search can use
// whichever it reaches first.
type YouTube struct {
	HTTP *fetch.Client

	// watchURL overrides the watch page location, for tests.
	watchURL func(videoID string) string

	mu     sync.Mutex
	tracks map[string][]captionTrack
}

// NewYouTube builds a service around the given HTTP client. The client must
// accept both HTML (watch page) and XML (timedtext) content types.
func NewYouTube(client *fetch.Client) *YouTube {
	return &YouTube{HTTP: client, tracks: make(map[string][]captionTrack)}
}

// GetTranscript implements the direct-call convention: pick a track for the
// requested languages (nil means the service default, i.e. the first track)
// and return its cues as mapping-shaped entries.
func (y *YouTube) GetTranscript(ctx context.Context, videoID string, languages []string) (any, error) {
	tracks, err := y.captionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	track, ok := pickTrack(tracks, languages)
	if !ok {
		return nil, fmt.Errorf("no caption track for languages %v", languages)
	}
	cues, err := y.cues(ctx, track)
	if err != nil {
		return nil, err
	}
	entries := make([]map[string]any, 0, len(cues))
	for _, c := range cues {
		entries = append(entries, map[string]any{
			"text":     html.UnescapeString(c.Body),
			"start":    c.Start,
			"duration": c.Dur,
		})
	}
	return entries, nil
}

// ListTranscripts implements the listing convention: one Ref per discovered
// caption track, fetched on demand.
func (y *YouTube) ListTranscripts(ctx context.Context, videoID string) ([]Ref, error) {
	tracks, err := y.captionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	refs := make([]Ref, 0, len(tracks))
	for _, track := range tracks {
		track := track
		refs = append(refs, Ref{
			LanguageCode: track.LanguageCode,
			Name:         track.Name.SimpleText,
			Fetch: func(ctx context.Context) (any, error) {
				cues, err := y.cues(ctx, track)
				if err != nil {
					return nil, err
				}
				segs := make([]Segment, 0, len(cues))
				for _, c := range cues {
					segs = append(segs, Segment{
						Text:     html.UnescapeString(c.Body),
						Start:    c.Start,
						Duration: c.Dur,
					})
				}
				return &listingResponse{Segments: segs}, nil
			},
		})
	}
	return refs, nil
}

// Fetch implements the generic convention over the same plumbing.
func (y *YouTube) Fetch(ctx context.Context, videoID string, languages []string) (any, error) {
	return y.GetTranscript(ctx, videoID, languages)
}

// captionTracks scrapes the watch page once per video and caches the result
// for the lifetime of the service handle.
func (y *YouTube) captionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	y.mu.Lock()
	cached, ok := y.tracks[videoID]
	y.mu.Unlock()
	if ok {
		return cached, nil
	}

	if y.HTTP == nil {
		return nil, fmt.Errorf("youtube service not configured")
	}
	pageURL := watchPageBase + url.QueryEscape(videoID)
	if y.watchURL != nil {
		pageURL = y.watchURL(videoID)
	}
	body, _, err := y.HTTP.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}
	var raw string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		txt := s.Text()
		if i := strings.Index(txt, captionTracksMarker); i >= 0 {
			raw = jsonArrayAt(txt[i+len(captionTracksMarker):])
			return false
		}
		return true
	})
	if raw == "" {
		return nil, fmt.Errorf("no caption tracks on watch page for %s", videoID)
	}
	var tracks []captionTrack
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		return nil, fmt.Errorf("decode caption tracks: %w", err)
	}

	y.mu.Lock()
	y.tracks[videoID] = tracks
	y.mu.Unlock()
	return tracks, nil
}

func (y *YouTube) cues(ctx context.Context, track captionTrack) ([]cueText, error) {
	if strings.TrimSpace(track.BaseURL) == "" {
		return nil, fmt.Errorf("caption track %q has no base URL", track.LanguageCode)
	}
	body, _, err := y.HTTP.Get(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("timedtext: %w", err)
	}
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext: %w", err)
	}
	return tt.Cues, nil
}

// pickTrack returns the first track matching the preference order, or the
// first track at all when no preference is given.
func pickTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}
	if len(languages) == 0 {
		return tracks[0], true
	}
	for _, lang := range languages {
		for _, t := range tracks {
			if languageMatches(lang, t.LanguageCode) {
				return t, true
			}
		}
	}
	return captionTrack{}, false
}

// jsonArrayAt returns the balanced JSON array starting at the first '[' of s,
// or "" when none closes.
func jsonArrayAt(s string) string {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return ""
	}
	depth := 0
	inStr := false
	esc := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inStr {
			switch {
			case esc:
				esc = false
			case ch == '\\':
				esc = true
			case ch == '"':
				inStr = false
			}
			continue
		}
		switch ch {
		case '"':
			inStr = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
