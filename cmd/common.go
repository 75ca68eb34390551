package cmd

import (
	"os"

	"github.com/castmap/topictaxonomy/internal/embedstore"
	"github.com/castmap/topictaxonomy/internal/httpx"
	"github.com/castmap/topictaxonomy/internal/pipeline"
	"github.com/castmap/topictaxonomy/internal/topic"
)

// ingestTopics wraps topic.Ingest, printing non-fatal warnings and the
// unique-topic count through progress; the warnings are also returned.
func ingestTopics(dir string, progress *pipeline.StderrProgress) ([]*topic.Topic, []topic.Warning, error) {
	uniqueTopics, warnings, err := topic.Ingest(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		progress.Warnf("%s: %s", w.File, w.Message)
	}
	progress.Reportf("ingested %d unique topics", len(uniqueTopics))
	return uniqueTopics, warnings, nil
}

// embedProviderFromEnv builds the default OpenAI-compatible embedding
// provider, reading the API key from EMBEDDING_API_KEY (falling back to
// OPENAI_API_KEY so a plain OpenAI deployment needs no extra variable).
func embedProviderFromEnv(baseURL, model string) (*embedstore.OpenAIProvider, error) {
	apiKey := os.Getenv("EMBEDDING_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	retry := httpx.RetryPolicy{MaxRetries: 3, RetryDelayMs: 5000}
	return embedstore.NewOpenAIProvider(apiKey, baseURL, model, retry)
}
