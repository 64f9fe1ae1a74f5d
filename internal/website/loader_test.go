package website

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/extract"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/fetch"
)

const articlePage = `<!doctype html><html><head><title>Release notes</title></head>
<body><main><h1>Release notes</h1>
<p>The scheduler now retries failed jobs with exponential backoff.</p>
<p>Configuration reloads no longer drop in-flight requests.</p>
</main></body></html>`

func TestLoadExtractsArticleText(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	l := &Loader{Client: &fetch.Client{UserAgent: "Mozilla/5.0 (test)"}}
	docs, err := l.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected one document, got %d", len(docs))
	}
	if !strings.Contains(docs[0].Content, "exponential backoff") {
		t.Fatalf("extracted text missing article body: %q", docs[0].Content)
	}
	if gotUA != "Mozilla/5.0 (test)" {
		t.Fatalf("user agent not sent, got %q", gotUA)
	}
}

func TestLoadSkipsTLSVerificationWhenConfigured(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	insecure := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}}
	l := &Loader{Client: &fetch.Client{HTTPClient: insecure}}
	docs, err := l.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load over self-signed TLS: %v", err)
	}
	if len(docs) != 1 || !strings.Contains(docs[0].Content, "Release notes") {
		t.Fatalf("unexpected documents: %+v", docs)
	}

	// With a verifying client the same load must fail and map to the
	// loader's sentinel.
	strict := &Loader{Client: &fetch.Client{}}
	if _, err := strict.Load(context.Background(), srv.URL); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for untrusted certificate, got %v", err)
	}
}

func TestLoadFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusNotFound)
	}))
	defer srv.Close()

	l := &Loader{Client: &fetch.Client{}}
	if _, err := l.Load(context.Background(), srv.URL); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

type emptyExtractor struct{}

func (emptyExtractor) Extract([]byte) extract.Result { return extract.Result{} }

func TestLoadEmptyExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body></body></html>"))
	}))
	defer srv.Close()

	l := &Loader{Client: &fetch.Client{}, Extractor: emptyExtractor{}}
	if _, err := l.Load(context.Background(), srv.URL); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for empty page, got %v", err)
	}
}
