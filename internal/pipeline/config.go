// Package pipeline composes TopicIngest, EmbeddingStore, the Clusterer,
// the Namer, and the TaxonomyEmitter into the end-to-end driver: it owns
// configuration, acquires the output-directory lock, and reports
// progress to the diagnostic stream.
package pipeline

import "github.com/castmap/topictaxonomy/internal/distance"

// Config is the immutable, explicit configuration record the driver is
// built from — there is no global state in the core (spec §9).
type Config struct {
	EpisodesDir string
	OutputDir   string

	TargetClusters        int
	OutlierThreshold      float64
	LinkageMethod         distance.Linkage
	UseRelevanceWeighting bool

	UseLLMNaming bool

	EmbeddingModel     string
	EmbeddingBatchSize int
	InterBatchDelayMs  int
	ForceRefreshCache  bool

	NamingModel    string
	Temperature    float64
	MaxRetries     int
	RetryDelayMs   int
	RequestDelayMs int

	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	NamingBaseURL    string
	NamingAPIKey     string
}

// DefaultConfig returns the option defaults enumerated in spec §6.4.
func DefaultConfig() Config {
	return Config{
		TargetClusters:        256,
		OutlierThreshold:      0.7,
		LinkageMethod:         distance.Weighted,
		UseRelevanceWeighting: true,
		UseLLMNaming:          true,
		EmbeddingModel:        "text-embedding-3-small",
		EmbeddingBatchSize:    100,
		InterBatchDelayMs:     500,
		Temperature:           0.3,
		MaxRetries:            3,
		RetryDelayMs:          5000,
		RequestDelayMs:        1000,
	}
}
