// Package embedstore maps unique topics to dense embedding vectors,
// caching the result on disk (or in an optional vector-store backend) and
// batch-fetching missing vectors from an external embedding provider with
// retry and backoff.
package embedstore

import (
	"context"
	"time"

	"github.com/castmap/topictaxonomy/internal/topic"
)

// SchemaVersion identifies the on-disk/vector-store record shape. Bumping
// it invalidates every existing cache on the next run.
const SchemaVersion = "v1"

// Entry is one topic's embedding record within a Database.
type Entry struct {
	ID          int                `json:"id"`
	Topic       string             `json:"topic"`
	Keywords    []string           `json:"keywords"`
	Count       int                `json:"count"`
	Episodes    []int              `json:"episodes"`
	Occurrences []topic.Occurrence `json:"occurrences"`
	Embedding   []float64          `json:"embedding"`
}

// Database is the serializable EmbeddingDatabase record: write-once per
// run, read-only thereafter.
type Database struct {
	SchemaVersion       string    `json:"schemaVersion"`
	CreatedAt           time.Time `json:"createdAt"`
	EmbeddingModel      string    `json:"embeddingModel"`
	EmbeddingDimensions int       `json:"embeddingDimensions"`
	Topics              []Entry   `json:"topics"`
}

// Provider fetches embedding vectors for a batch of serialized topic
// texts, in input order.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Cache persists and retrieves the EmbeddingDatabase across runs.
type Cache interface {
	// Load returns the cached database and true if present, or (nil,
	// false, nil) on a clean miss.
	Load(ctx context.Context) (*Database, bool, error)
	// Save atomically replaces the cached database.
	Save(ctx context.Context, db *Database) error
}

// Fresh reports whether an existing database can be reused as-is: same
// schema version, same embedding model, same unique-topic count.
func Fresh(db *Database, model string, uniqueTopicCount int) bool {
	if db == nil {
		return false
	}
	return db.SchemaVersion == SchemaVersion &&
		db.EmbeddingModel == model &&
		len(db.Topics) == uniqueTopicCount
}
