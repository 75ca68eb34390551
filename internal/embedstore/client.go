package embedstore

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/castmap/topictaxonomy/internal/errs"
	"github.com/castmap/topictaxonomy/internal/httpx"
)

var ErrMissingAPIKey = errors.New("embedstore: API key is required")
var ErrEmptyTexts = errors.New("embedstore: at least one text is required")

// OpenAIProvider calls an OpenAI-compatible embeddings endpoint
// (POST <baseURL>/embeddings) with bearer auth, retrying rate-limited and
// transient-network failures with exponential backoff.
type OpenAIProvider struct {
	client openai.Client
	model  string
	retry  httpx.RetryPolicy
}

// NewOpenAIProvider builds a provider against baseURL (empty uses the
// default OpenAI API) using apiKey for bearer auth.
func NewOpenAIProvider(apiKey, baseURL, model string, retry httpx.RetryPolicy) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
		retry:  retry,
	}, nil
}

// Embed fetches vectors for texts in input order, retrying on HTTP 429 and
// transient network failures per the configured policy.
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyTexts
	}

	var lastErr error
	for attempt := 0; attempt <= p.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := p.retry.Sleep(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
			Model: p.model,
		})
		if err == nil {
			return toVectors(resp), nil
		}

		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusTooManyRequests {
				lastErr = err
				continue
			}
			return nil, errs.Backend(errs.EmbeddingBackend, "embedding request", apiErr.StatusCode, apiErr.Message)
		}

		if httpx.IsTransientNetwork(err) {
			lastErr = err
			continue
		}
		return nil, errs.Wrap(errs.EmbeddingBackend, "embedding request", err)
	}

	return nil, errs.Wrap(errs.RateLimitExhausted, "embedding request", lastErr)
}

func toVectors(resp *openai.CreateEmbeddingResponse) [][]float64 {
	out := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		v := make([]float64, len(d.Embedding))
		copy(v, d.Embedding)
		out[i] = v
	}
	return out
}
