package app

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/transcript"
)

// Config holds runtime configuration for the application. Environment
// variables seed the defaults; flags and an optional config file may
// override them.
type Config struct {
	// URL is the single input: a YouTube video link or a website link.
	URL string `env:"SUMMARIZE_URL"`

	// OutputPath writes the summary to a file instead of stdout.
	OutputPath string `env:"OUTPUT_PATH"`
	// OutputPDFPath additionally renders the summary as a PDF.
	OutputPDFPath string `env:"OUTPUT_PDF_PATH"`

	// LLM endpoint. The defaults target Groq's OpenAI-compatible API.
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"llama-3.1-8b-instant"`
	LLMAPIKey  string `env:"GROQ_API_KEY"`

	// Languages lists preferred transcript languages in priority order.
	Languages []string `env:"TRANSCRIPT_LANGS" envSeparator:","`
	// TierTimeout bounds each transcript fetch strategy. Zero disables.
	TierTimeout time.Duration `env:"TIER_TIMEOUT"`

	// ChunkChars caps the characters per partial-summary call.
	ChunkChars int `env:"CHUNK_CHARS"`

	// SSLVerify enables TLS certificate verification for website fetches.
	// Off by default: the loader favors reachability over transport trust,
	// matching browser-with-ignored-warnings behavior.
	SSLVerify bool `env:"SSL_VERIFY"`

	// Behavior
	DryRun  bool
	Verbose bool

	// Cache controls
	CacheDir    string        `env:"CACHE_DIR" envDefault:".urlsummarize-cache"`
	CacheMaxAge time.Duration `env:"CACHE_MAX_AGE"`
	CacheClear  bool
}

// FromEnv builds a Config from environment variables, with package defaults
// applied for anything unset.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = append([]string{}, transcript.DefaultLanguages...)
	}
	return cfg, nil
}
