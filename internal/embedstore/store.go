package embedstore

import (
	"context"
	"time"

	"github.com/castmap/topictaxonomy/internal/errs"
	"github.com/castmap/topictaxonomy/internal/httpx"
	"github.com/castmap/topictaxonomy/internal/topic"
)

// Config configures one Ensure call.
type Config struct {
	Model             string
	BatchSize         int
	InterBatchDelayMs int
	ForceRefresh      bool
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		Model:             "text-embedding-3-small",
		BatchSize:         100,
		InterBatchDelayMs: 500,
	}
}

// Progress reports batch-level progress to the driver.
type Progress interface {
	Reportf(format string, args ...any)
}

// Ensure returns an up-to-date EmbeddingDatabase for uniqueTopics. If the
// cached database matches schema version, embedding model, and topic
// count, it is returned unchanged — no embedding requests are issued. Any
// mismatch triggers a full recompute: the freshness policy is
// correctness-over-speed, with no partial invalidation.
func Ensure(ctx context.Context, uniqueTopics []*topic.Topic, cfg Config, cache Cache, provider Provider, progress Progress) (*Database, error) {
	if len(uniqueTopics) == 0 {
		return nil, errs.New(errs.NoInputs, "no unique topics to embed")
	}

	if !cfg.ForceRefresh {
		existing, ok, err := cache.Load(ctx)
		if err != nil {
			return nil, err
		}
		if ok && Fresh(existing, cfg.Model, len(uniqueTopics)) {
			if progress != nil {
				progress.Reportf("embedding cache is fresh, reusing %d vectors", len(existing.Topics))
			}
			return existing, nil
		}
	}

	texts := make([]string, len(uniqueTopics))
	for i, t := range uniqueTopics {
		texts[i] = EmbeddingText(t)
	}

	spacer := httpx.NewSpacer(time.Duration(cfg.InterBatchDelayMs) * time.Millisecond)

	entries := make([]Entry, 0, len(uniqueTopics))
	dim := -1

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		// The limiter starts with one token, so the first batch goes out at
		// once and every later batch waits the inter-batch delay.
		if err := spacer.Wait(ctx); err != nil {
			return nil, err
		}

		vectors, err := provider.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(vectors) != end-start {
			return nil, errs.New(errs.DimensionMismatch, "provider returned a different number of vectors than requested")
		}

		for i, v := range vectors {
			if dim == -1 {
				dim = len(v)
			} else if len(v) != dim {
				return nil, errs.New(errs.DimensionMismatch, "embedding provider returned vectors of differing length within a run")
			}

			idx := start + i
			t := uniqueTopics[idx]
			entries = append(entries, Entry{
				ID:          idx,
				Topic:       t.Topic,
				Keywords:    t.Keywords,
				Count:       t.Count,
				Episodes:    t.Episodes,
				Occurrences: t.Occurrences,
				Embedding:   v,
			})
		}

		if progress != nil {
			progress.Reportf("embedded %d/%d topics", end, len(texts))
		}
	}

	db := &Database{
		SchemaVersion:       SchemaVersion,
		CreatedAt:           time.Now().UTC(),
		EmbeddingModel:      cfg.Model,
		EmbeddingDimensions: dim,
		Topics:              entries,
	}

	if err := cache.Save(ctx, db); err != nil {
		return nil, errs.Wrap(errs.WriteFailed, "writing embedding cache", err)
	}

	return db, nil
}
