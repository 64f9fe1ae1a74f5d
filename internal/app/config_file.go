package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally to the flag namespace.
type FileConfig struct {
	URL       string `yaml:"url" json:"url"`
	Output    string `yaml:"output" json:"output"`
	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Transcript struct {
		Languages   []string      `yaml:"languages" json:"languages"`
		TierTimeout time.Duration `yaml:"tierTimeout" json:"tierTimeout"`
	} `yaml:"transcript" json:"transcript"`

	Website struct {
		SSLVerify *bool `yaml:"sslVerify" json:"sslVerify"`
	} `yaml:"website" json:"website"`

	ChunkChars int  `yaml:"chunkChars" json:"chunkChars"`
	DryRun     bool `yaml:"dryRun" json:"dryRun"`
	Verbose    bool `yaml:"verbose" json:"verbose"`

	Cache struct {
		Dir    string        `yaml:"dir" json:"dir"`
		MaxAge time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear  bool          `yaml:"clear" json:"clear"`
	} `yaml:"cache" json:"cache"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for fields still
// at their defaults. Flags and env should already have been applied; the
// file supplies remaining gaps without clobbering explicit settings.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	const (
		llmBaseDefault  = "https://api.groq.com/openai/v1"
		llmModelDefault = "llama-3.1-8b-instant"
		cacheDirDefault = ".urlsummarize-cache"
	)

	if cfg.URL == "" && fc.URL != "" {
		cfg.URL = fc.URL
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.OutputPDFPath == "" && fc.OutputPDF != "" {
		cfg.OutputPDFPath = fc.OutputPDF
	}

	if (cfg.LLMBaseURL == "" || cfg.LLMBaseURL == llmBaseDefault) && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if (cfg.LLMModel == "" || cfg.LLMModel == llmModelDefault) && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}

	if len(fc.Transcript.Languages) > 0 {
		cfg.Languages = append([]string{}, fc.Transcript.Languages...)
	}
	if cfg.TierTimeout == 0 && fc.Transcript.TierTimeout > 0 {
		cfg.TierTimeout = fc.Transcript.TierTimeout
	}
	if fc.Website.SSLVerify != nil {
		cfg.SSLVerify = *fc.Website.SSLVerify
	}
	if cfg.ChunkChars == 0 && fc.ChunkChars > 0 {
		cfg.ChunkChars = fc.ChunkChars
	}
	if !cfg.DryRun && fc.DryRun {
		cfg.DryRun = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	if (cfg.CacheDir == "" || cfg.CacheDir == cacheDirDefault) && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
}
