// Package namer assigns a human-readable name to each cluster produced by
// the agglomerative clustering stage: an LLM-generated name when enabled
// and informative, a deterministic heuristic fallback, or the fixed
// "Sonstige" label for outliers.
package namer

import (
	"context"
)

// Sonstige is the reserved name assigned to every outlier cluster.
const Sonstige = "Sonstige"

// Provider calls the external naming service with an already-assembled
// prompt and returns its free-form text response.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config configures one naming pass. The naming provider's own retry
// policy, model and temperature are fixed at construction time (see
// NewOpenAIProvider); Name does not read Config.Model or
// Config.Temperature.
type Config struct {
	UseLLM             bool
	Model              string
	Temperature        float64
	MaxCandidateTopics int
	StopWords          map[string]struct{}
	RequestDelayMs     int
}

// DefaultConfig returns the spec-mandated defaults plus the built-in
// German stop-list. StopWords is exposed on Config (rather than
// hard-coded in the heuristic) so callers can supply their own list.
func DefaultConfig() Config {
	return Config{
		UseLLM:             true,
		Temperature:        0.3,
		MaxCandidateTopics: 10,
		StopWords:          defaultStopWords(),
		RequestDelayMs:     1000,
	}
}

// Member is the minimal shape Namer needs from one cluster's constituent
// topic: its display text, its keywords, its relevance weight (used by the
// heuristic's frequency tables), and its episode count (used for ranking
// candidate topics sent to the LLM).
type Member struct {
	Topic        string
	Keywords     []string
	EpisodeCount int
	Weight       float64
}

// ClusterInput is the minimal shape Namer needs from one live cluster.
type ClusterInput struct {
	Members          []Member
	IsOutlier        bool
	MaxMergeDistance float64
}

// Warning is a non-fatal condition surfaced during naming (an LLM call
// that failed, so the heuristic was used instead). An LLM call that
// returns an empty name also falls back to the heuristic but records no
// warning.
type Warning struct {
	ClusterIndex int
	Message      string
}
