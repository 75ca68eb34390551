package namer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/castmap/topictaxonomy/internal/errs"
	"github.com/castmap/topictaxonomy/internal/httpx"
)

var ErrMissingAPIKey = errors.New("namer: API key is required")

// OpenAIProvider calls an OpenAI-compatible chat-completions endpoint
// (POST <baseURL>/chat/completions), retrying rate-limited and transient
// failures with exponential backoff. Only the first choice in the
// response is consulted, per the naming provider contract.
type OpenAIProvider struct {
	client      openai.Client
	model       string
	temperature float64
	retry       httpx.RetryPolicy
}

func NewOpenAIProvider(apiKey, baseURL, model string, temperature float64, retry httpx.RetryPolicy) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIProvider{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
		retry:       retry,
	}, nil
}

// Complete sends prompt as the sole user message and returns the first
// choice's content. HTTP 429 and transient network failures are retried
// per the configured policy; any other failure is returned to the caller,
// which degrades to the heuristic name rather than aborting the run.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(p.temperature),
		MaxTokens:   openai.Int(32),
	}

	var lastErr error
	for attempt := 0; attempt <= p.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := p.retry.Sleep(ctx, attempt-1); err != nil {
				return "", err
			}
		}

		completion, err := p.client.Chat.Completions.New(ctx, params)
		if err == nil {
			if len(completion.Choices) == 0 {
				return "", nil
			}
			return completion.Choices[0].Message.Content, nil
		}

		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusTooManyRequests {
				lastErr = err
				continue
			}
			return "", errs.Backend(errs.NamingBackend, "naming request", apiErr.StatusCode, apiErr.Message)
		}

		if httpx.IsTransientNetwork(err) {
			lastErr = err
			continue
		}
		return "", fmt.Errorf("naming request: %w", err)
	}

	return "", fmt.Errorf("naming request exhausted retries: %w", lastErr)
}

// stripQuotes removes surrounding straight or curly quotes the LLM
// sometimes wraps its answer in: at most one layer per quote style, tried
// in the order ", ', “”, «».
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	pairs := [][2]string{{`"`, `"`}, {"'", "'"}, {"“", "”"}, {"«", "»"}}
	for _, p := range pairs {
		if strings.HasPrefix(s, p[0]) && strings.HasSuffix(s, p[1]) && len(s) >= len(p[0])+len(p[1]) {
			s = strings.TrimSuffix(strings.TrimPrefix(s, p[0]), p[1])
			s = strings.TrimSpace(s)
		}
	}
	return s
}
