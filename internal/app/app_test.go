package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/urlkind"
)

func TestRunMissingInput(t *testing.T) {
	a := &App{cfg: Config{}}
	if err := a.Run(context.Background()); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput for empty URL, got %v", err)
	}

	a = &App{cfg: Config{URL: "https://example.com"}}
	if err := a.Run(context.Background()); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput for missing key, got %v", err)
	}
}

func TestRunRejectsNonURLInput(t *testing.T) {
	a := &App{cfg: Config{URL: "summarize this please", LLMAPIKey: "k"}}
	if err := a.Run(context.Background()); !errors.Is(err, urlkind.ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}

func TestRunDryRunWebsite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><main><p>The quick brown fox jumps over the lazy dog.</p></main></body></html>`))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "summary.md")
	cfg := Config{
		URL:        srv.URL,
		OutputPath: out,
		LLMModel:   "test-model",
		DryRun:     true,
	}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	got := string(b)
	if !strings.Contains(got, "dry run") || !strings.Contains(got, "Kind: website") {
		t.Fatalf("unexpected dry-run report:\n%s", got)
	}
}

func TestApplyFileConfigOverlay(t *testing.T) {
	cfg := Config{
		LLMBaseURL: "https://api.groq.com/openai/v1",
		LLMModel:   "llama-3.1-8b-instant",
		CacheDir:   ".urlsummarize-cache",
	}
	var fc FileConfig
	fc.URL = "https://example.com/article"
	fc.LLM.Model = "other-model"
	fc.Transcript.Languages = []string{"fi"}
	verify := true
	fc.Website.SSLVerify = &verify
	fc.Cache.Dir = "/tmp/alt-cache"
	fc.Cache.MaxAge = 24 * time.Hour

	ApplyFileConfig(&cfg, fc)

	if cfg.URL != "https://example.com/article" {
		t.Fatalf("url not applied: %q", cfg.URL)
	}
	if cfg.LLMModel != "other-model" {
		t.Fatalf("default model should yield to file: %q", cfg.LLMModel)
	}
	if len(cfg.Languages) != 1 || cfg.Languages[0] != "fi" {
		t.Fatalf("languages not applied: %v", cfg.Languages)
	}
	if !cfg.SSLVerify {
		t.Fatalf("sslVerify not applied")
	}
	if cfg.CacheDir != "/tmp/alt-cache" || cfg.CacheMaxAge != 24*time.Hour {
		t.Fatalf("cache settings not applied: %+v", cfg)
	}
}

func TestApplyFileConfigPreservesExplicit(t *testing.T) {
	cfg := Config{
		URL:      "https://set.example",
		LLMModel: "explicit-model",
	}
	var fc FileConfig
	fc.URL = "https://file.example"
	fc.LLM.Model = "file-model"

	ApplyFileConfig(&cfg, fc)

	if cfg.URL != "https://set.example" || cfg.LLMModel != "explicit-model" {
		t.Fatalf("explicit settings clobbered: %+v", cfg)
	}
}

func TestLoadConfigFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "url: https://example.com\nllm:\n  model: m1\nwebsite:\n  sslVerify: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.URL != "https://example.com" || fc.LLM.Model != "m1" {
		t.Fatalf("unexpected config: %+v", fc)
	}
	if fc.Website.SSLVerify == nil || !*fc.Website.SSLVerify {
		t.Fatalf("sslVerify not parsed: %+v", fc.Website)
	}
}
