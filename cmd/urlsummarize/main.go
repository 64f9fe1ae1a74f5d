package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/app"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/document"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/summarize"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/transcript"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/urlkind"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/website"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := app.FromEnv()
	if err != nil {
		log.Error().Err(err).Msg("environment config")
		os.Exit(1)
	}

	var (
		langs      string
		configPath string
	)

	flag.StringVar(&cfg.URL, "url", cfg.URL, "YouTube video or website URL to summarize")
	flag.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "Path to write the summary (default: stdout)")
	flag.StringVar(&cfg.OutputPDFPath, "output.pdf", cfg.OutputPDFPath, "Also render the summary to this PDF path")
	flag.StringVar(&cfg.LLMBaseURL, "llm.base", cfg.LLMBaseURL, "OpenAI-compatible base URL")
	flag.StringVar(&cfg.LLMModel, "llm.model", cfg.LLMModel, "Model name")
	flag.StringVar(&cfg.LLMAPIKey, "llm.key", cfg.LLMAPIKey, "API key for the OpenAI-compatible server")
	flag.StringVar(&langs, "langs", "", "Comma-separated preferred transcript languages, e.g. 'en,hi'")
	flag.DurationVar(&cfg.TierTimeout, "timeout.tier", cfg.TierTimeout, "Timeout per transcript fetch strategy (0 disables)")
	flag.IntVar(&cfg.ChunkChars, "chunk.chars", cfg.ChunkChars, "Maximum characters per partial-summary call (0 = default)")
	flag.BoolVar(&cfg.SSLVerify, "website.sslVerify", cfg.SSLVerify, "Verify TLS certificates when fetching websites")
	flag.StringVar(&cfg.CacheDir, "cache.dir", cfg.CacheDir, "Cache directory path")
	flag.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", cfg.CacheMaxAge, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.BoolVar(&cfg.DryRun, "dry-run", false, "Classify and load content without calling the model")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.Parse()

	// A bare URL argument works too: urlsummarize <url>
	if cfg.URL == "" && flag.NArg() > 0 {
		cfg.URL = flag.Arg(0)
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	// An explicit -langs flag wins over env and file config.
	if s := strings.TrimSpace(langs); s != "" {
		parts := strings.Split(s, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if v := strings.TrimSpace(p); v != "" {
				list = append(list, v)
			}
		}
		cfg.Languages = list
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 for expected content failures the user can act
		// on (bad URL, no transcript, empty page, no summary), 1 otherwise.
		if isContentError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// isContentError reports whether the error belongs to the pipeline's
// sentinel taxonomy rather than an unexpected failure.
func isContentError(err error) bool {
	for _, sentinel := range []error{
		app.ErrMissingInput,
		urlkind.ErrInvalidURL,
		urlkind.ErrNoVideoID,
		transcript.ErrUnavailable,
		document.ErrEmptyContent,
		website.ErrUnavailable,
		summarize.ErrNoSummary,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
