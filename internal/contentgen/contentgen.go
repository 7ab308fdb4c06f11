// Package contentgen turns a topic and prompt into a LinkedIn-ready post.
package contentgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/prometheus"
)

const systemPrompt = "You are a concise content assistant that writes LinkedIn-ready posts (120-180 words), " +
	"professional tone, clear structure: Hook / Development / Closing. Avoid hype and buzzwords. " +
	"Consider the tenant's primaryTopic as context."

// Request is one generation call.
type Request struct {
	Topic      string
	Prompt     string
	TenantName string

	// Author and Voice describe the profile the post is written as.
	Author string
	Voice  string
	Dos    []string
	Donts  []string
	// Structure is the ordered block list of a template.
	Structure []string
}

// Generator produces plain text for a request. It does not retry.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// KeySource supplies the API key and drops it when the upstream rejects it.
type KeySource interface {
	Get(ctx context.Context, name string) (string, error)
	Invalidate(name string)
}

// Config configures the OpenAI generator.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float32
	BaseURL     string
	KeySecret   string
}

// OpenAIGenerator implements Generator with the chat completions API.
type OpenAIGenerator struct {
	keys   KeySource
	config Config
}

func NewOpenAIGenerator(keys KeySource, config Config) *OpenAIGenerator {
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 300
	}
	return &OpenAIGenerator{keys: keys, config: config}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (text string, err error) {
	done := prometheus.TrackContentGeneration()
	defer func() { done(err) }()

	apiKey, err := g.keys.Get(ctx, g.config.KeySecret)
	if err != nil {
		return "", upstreamError(ctx, fmt.Errorf("contentgen: api key: %w", err))
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if g.config.BaseURL != "" {
		clientConfig.BaseURL = g.config.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(req)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusUnauthorized {
			g.keys.Invalidate(g.config.KeySecret)
		}
		return "", upstreamError(ctx, fmt.Errorf("contentgen: chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", upstreamError(ctx, errors.New("contentgen: empty completion"))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// UserPrompt renders the user message for req.
func UserPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a LinkedIn post about %s.\n\n", req.Prompt)
	if req.Topic != "" {
		fmt.Fprintf(&b, "Context: The tenant focuses on %s.\n", req.Topic)
	}
	if req.TenantName != "" {
		fmt.Fprintf(&b, "Company: %s\n", req.TenantName)
	}
	if req.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", req.Author)
	}
	if req.Voice != "" {
		fmt.Fprintf(&b, "Tone: %s\n", req.Voice)
	}
	if len(req.Dos) > 0 {
		fmt.Fprintf(&b, "Do: %s\n", strings.Join(req.Dos, "; "))
	}
	if len(req.Donts) > 0 {
		fmt.Fprintf(&b, "Avoid: %s\n", strings.Join(req.Donts, "; "))
	}
	if len(req.Structure) > 0 {
		fmt.Fprintf(&b, "Template structure: %s\n", strings.Join(req.Structure, " -> "))
	}
	b.WriteString(`
Requirements:
- Output in markdown format
- No emojis
- No hashtags
- 120-180 words
- Professional tone
- Clear structure: Hook / Development / Closing`)
	return b.String()
}

func upstreamError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Timeout(apperr.CodeUpstreamTimeout, "content generation timed out").Wrap(err)
	}
	return apperr.New(apperr.KindInternal, apperr.CodeUpstreamFailed, "content generation failed").Wrap(err)
}
