package transcript

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/fetch"
)

// newCaptionServer serves a minimal watch page whose player response points
// at the server's own timedtext endpoint.
func newCaptionServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") != "abc123" {
			http.NotFound(w, r)
			return
		}
		page := fmt.Sprintf(`<html><head><title>watch</title></head><body>
<script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[
{"baseUrl":"%[1]s/api/timedtext?lang=en","languageCode":"en","name":{"simpleText":"English"}},
{"baseUrl":"%[1]s/api/timedtext?lang=hi","languageCode":"hi","name":{"simpleText":"Hindi"},"kind":"asr"}
]}}};</script>
</body></html>`, srv.URL)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		switch r.URL.Query().Get("lang") {
		case "en":
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript><text start="0" dur="1.5">hello</text><text start="1.5" dur="2">world &amp;more</text></transcript>`))
		default:
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript><text start="0" dur="1">namaste</text></transcript>`))
		}
	})
	srv = httptest.NewServer(mux)
	return srv
}

func captionClient() *fetch.Client {
	return &fetch.Client{
		UserAgent:         "urlsummarize-test",
		MaxAttempts:       1,
		PerRequestTimeout: 2 * time.Second,
		AcceptTypes:       fetch.CaptionTypes,
	}
}

func testYouTube(srv *httptest.Server) *YouTube {
	y := NewYouTube(captionClient())
	// Point watch page requests at the fixture server.
	y.watchURL = func(videoID string) string { return srv.URL + "/watch?v=" + videoID }
	return y
}

func TestYouTube_GetTranscript(t *testing.T) {
	srv := newCaptionServer(t)
	defer srv.Close()

	y := testYouTube(srv)
	raw, err := y.GetTranscript(context.Background(), "abc123", []string{"en"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Normalize(raw); got != "hello world &more" {
		t.Fatalf("got %q", got)
	}
}

func TestYouTube_GetTranscript_DefaultLanguage(t *testing.T) {
	srv := newCaptionServer(t)
	defer srv.Close()

	y := testYouTube(srv)
	raw, err := y.GetTranscript(context.Background(), "abc123", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Normalize(raw); !strings.HasPrefix(got, "hello") {
		t.Fatalf("expected first track by default, got %q", got)
	}
}

func TestYouTube_ListTranscripts(t *testing.T) {
	srv := newCaptionServer(t)
	defer srv.Close()

	y := testYouTube(srv)
	refs, err := y.ListTranscripts(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].LanguageCode != "en" || refs[1].LanguageCode != "hi" {
		t.Fatalf("unexpected languages: %+v", refs)
	}
	raw, err := refs[1].Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch ref: %v", err)
	}
	if got := Normalize(raw); got != "namaste" {
		t.Fatalf("got %q", got)
	}
}

func TestYouTube_TieredFetchEndToEnd(t *testing.T) {
	srv := newCaptionServer(t)
	defer srv.Close()

	f := &Fetcher{Service: testYouTube(srv)}
	text, err := f.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world &more" {
		t.Fatalf("got %q", text)
	}
}

func TestYouTube_NoCaptionTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><script>var x = 1;</script></body></html>"))
	}))
	defer srv.Close()

	y := testYouTube(srv)
	if _, err := y.GetTranscript(context.Background(), "abc123", []string{"en"}); err == nil {
		t.Fatalf("expected error for page without caption tracks")
	}
}

func TestJSONArrayAt(t *testing.T) {
	got := jsonArrayAt(`[{"a":"[not a bracket]","b":["x"]},{"c":1}] trailing`)
	want := `[{"a":"[not a bracket]","b":["x"]},{"c":1}]`
	if got != want {
		t.Fatalf("got %q", got)
	}
	if jsonArrayAt("no array here") != "" {
		t.Fatalf("expected empty result for input without array")
	}
}
