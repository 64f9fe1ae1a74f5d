package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/cache"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/document"
	"github.com/sandip1203/Youtube-video-and-website-url-content-summarization/internal/llm"
)

// ErrNoSummary indicates the model produced no usable summary text.
var ErrNoSummary = errors.New("no summary produced")

// defaultChunkChars bounds the text handed to a single map call. Roughly a
// couple of thousand tokens, safe for small instruct models.
const defaultChunkChars = 9000

const systemPrompt = "You are a careful assistant that summarizes provided text. Use ONLY the provided text for facts. Keep the style concise and factual."

const mapPromptTemplate = `Write a concise partial summary of the following text.

TEXT:
%s

PARTIAL SUMMARY:
`

const combinePromptTemplate = `You will be given a set of partial summaries.
Write a final well-structured summary in about 300 words.
Use short headings and bullet points where helpful.

PARTIAL SUMMARIES:
%s

FINAL SUMMARY:
`

// Summarizer condenses documents in two phases: each document is split into
// chunks and summarized independently, then the partial summaries are
// combined into one final summary.
type Summarizer struct {
	Client llm.Client
	Cache  *cache.LLMCache
	Model  string
	// ChunkChars caps the characters per map call. Zero means default.
	ChunkChars int
	Verbose    bool
}

// Summarize runs the map phase over every document chunk and the reduce
// phase over the collected partials.
func (s *Summarizer) Summarize(ctx context.Context, docs []document.Document) (string, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", errors.New("summarizer not configured")
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("%w: no documents", ErrNoSummary)
	}
	limit := s.ChunkChars
	if limit <= 0 {
		limit = defaultChunkChars
	}

	var partials []string
	for _, doc := range docs {
		for _, chunk := range splitChunks(doc.Content, limit) {
			part, err := s.complete(ctx, fmt.Sprintf(mapPromptTemplate, chunk))
			if err != nil {
				return "", fmt.Errorf("partial summary: %w", err)
			}
			partials = append(partials, part)
		}
	}
	if s.Verbose {
		log.Debug().Int("partials", len(partials)).Msg("map phase complete")
	}
	// Even a single short document goes through the combine step so the
	// output carries the final structure (headings, bullets).
	out, err := s.complete(ctx, fmt.Sprintf(combinePromptTemplate, strings.Join(partials, "\n\n")))
	if err != nil {
		return "", fmt.Errorf("combined summary: %w", err)
	}
	return out, nil
}

// complete issues one chat call with caching and a single short-backoff
// retry on error.
func (s *Summarizer) complete(ctx context.Context, prompt string) (string, error) {
	key := cache.KeyFrom(s.Model, systemPrompt+"\n\n"+prompt)
	if s.Cache != nil {
		if raw, ok, _ := s.Cache.Get(ctx, key); ok {
			var cached struct {
				Summary string `json:"summary"`
			}
			if err := json.Unmarshal(raw, &cached); err == nil && strings.TrimSpace(cached.Summary) != "" {
				return cached.Summary, nil
			}
		}
	}

	req := openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1,
		N:           1,
	}
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		if sleeper := sleepFunc; sleeper != nil {
			sleeper(100)
		} else {
			defaultSleep(100)
		}
		resp, err = s.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("chat completion (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoSummary
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrNoSummary
	}
	if s.Cache != nil {
		payload, _ := json.Marshal(map[string]string{"summary": out})
		_ = s.Cache.Save(ctx, key, payload)
	}
	return out, nil
}

// splitChunks breaks text into pieces of at most limit characters, cutting
// on whitespace where possible so words stay intact.
func splitChunks(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndexAny(text[:limit], " \t\n")
		if cut <= 0 {
			cut = limit
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// sleepFunc lets tests inject a deterministic sleep hook, in milliseconds.
var sleepFunc func(ms int)

func defaultSleep(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
