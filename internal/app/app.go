package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/cache"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/document"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/fetch"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/llm"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/summarize"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/transcript"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/urlkind"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/website"
)

// ErrMissingInput is returned before any network work when the URL or the
// API key is absent.
var ErrMissingInput = errors.New("missing input: URL and API key are required")

type App struct {
	cfg       Config
	ai        llm.Client
	httpCache *cache.HTTPCache
	llmCache  *cache.LLMCache
}

// New wires the LLM client and caches from config. The backend preflight is
// best-effort: an unreachable model list logs a warning and the run
// continues.
func New(ctx context.Context, cfg Config) (*App, error) {
	transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		transportCfg.BaseURL = cfg.LLMBaseURL
	}
	client := openai.NewClientWithConfig(transportCfg)

	a := &App{cfg: cfg, ai: &llm.OpenAIProvider{Inner: client}}
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			_ = cache.ClearDir(cfg.CacheDir)
		}
		if cfg.CacheMaxAge > 0 {
			_, _ = cache.PurgeHTTPCacheByAge(cfg.CacheDir, cfg.CacheMaxAge)
			_, _ = cache.PurgeLLMCacheByAge(cfg.CacheDir, cfg.CacheMaxAge)
		}
		a.httpCache = &cache.HTTPCache{Dir: cfg.CacheDir}
		a.llmCache = &cache.LLMCache{Dir: cfg.CacheDir}
	}

	if !cfg.DryRun {
		if lister, ok := a.ai.(llm.ModelLister); ok {
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if models, err := lister.ListModels(pctx); err != nil {
				log.Warn().Err(err).Msg("model list failed; continuing")
			} else {
				log.Debug().Int("count", len(models.Models)).Msg("models available")
			}
		}
	}
	return a, nil
}

func (a *App) Close() {
	// nothing yet
}

// Run executes the full pipeline: classify the URL, load its content, and
// summarize.
func (a *App) Run(ctx context.Context) error {
	if strings.TrimSpace(a.cfg.URL) == "" {
		return ErrMissingInput
	}
	if strings.TrimSpace(a.cfg.LLMAPIKey) == "" && !a.cfg.DryRun {
		return ErrMissingInput
	}

	rawURL, err := urlkind.ResolveInput(a.cfg.URL)
	if err != nil {
		return err
	}
	kind := urlkind.Classify(rawURL)
	log.Info().Str("url", rawURL).Stringer("kind", kind).Msg("input classified")

	docs, err := a.loadDocuments(ctx, rawURL, kind)
	if err != nil {
		return err
	}

	if a.cfg.DryRun {
		return a.writeOutput(a.dryRunReport(rawURL, kind, docs))
	}

	s := &summarize.Summarizer{
		Client:     a.ai,
		Cache:      a.llmCache,
		Model:      a.cfg.LLMModel,
		ChunkChars: a.cfg.ChunkChars,
		Verbose:    a.cfg.Verbose,
	}
	summary, err := s.Summarize(ctx, docs)
	if err != nil {
		return err
	}
	return a.writeOutput(summary)
}

func (a *App) loadDocuments(ctx context.Context, rawURL string, kind urlkind.Kind) ([]document.Document, error) {
	switch kind {
	case urlkind.KindVideo:
		videoID, err := urlkind.ExtractVideoID(rawURL)
		if err != nil {
			return nil, err
		}
		svc := transcript.NewYouTube(a.captionClient())
		f := &transcript.Fetcher{
			Service:     svc,
			NewService:  func() any { return transcript.NewYouTube(a.captionClient()) },
			Languages:   a.cfg.Languages,
			TierTimeout: a.cfg.TierTimeout,
		}
		text, err := f.Fetch(ctx, videoID)
		if err != nil {
			return nil, err
		}
		doc, err := document.Assemble(text)
		if err != nil {
			return nil, err
		}
		return []document.Document{doc}, nil
	default:
		loader := &website.Loader{Client: a.websiteClient()}
		return loader.Load(ctx, rawURL)
	}
}

// captionClient talks to YouTube with certificate verification on; caption
// payloads come as XML or JSON alongside the watch page HTML.
func (a *App) captionClient() *fetch.Client {
	return &fetch.Client{
		HTTPClient:  newBrowserHTTPClient(true),
		UserAgent:   browserUserAgent,
		MaxAttempts: 2,
		Cache:       a.httpCache,
		AcceptTypes: fetch.CaptionTypes,
	}
}

func (a *App) websiteClient() *fetch.Client {
	return &fetch.Client{
		HTTPClient:  newBrowserHTTPClient(a.cfg.SSLVerify),
		UserAgent:   browserUserAgent,
		MaxAttempts: 2,
		Cache:       a.httpCache,
	}
}

func (a *App) dryRunReport(rawURL string, kind urlkind.Kind, docs []document.Document) string {
	var sb strings.Builder
	sb.WriteString("# urlsummarize (dry run)\n\n")
	fmt.Fprintf(&sb, "URL: %s\nKind: %s\nModel: %s\n", rawURL, kind, a.cfg.LLMModel)
	total := 0
	for _, d := range docs {
		total += len(d.Content)
	}
	fmt.Fprintf(&sb, "Documents: %d\nContent characters: %d\n", len(docs), total)
	return sb.String()
}

// writeOutput sends the summary to the configured file or stdout, plus the
// optional PDF rendering.
func (a *App) writeOutput(summary string) error {
	if a.cfg.OutputPath != "" {
		if err := os.WriteFile(a.cfg.OutputPath, []byte(summary+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else {
		fmt.Println(summary)
	}
	if a.cfg.OutputPDFPath != "" {
		if err := writeSummaryPDF(summary, a.cfg.OutputPDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPDFPath).Msg("pdf written")
	}
	return nil
}
