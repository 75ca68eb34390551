package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/castmap/topictaxonomy/internal/cluster"
	"github.com/castmap/topictaxonomy/internal/distance"
	"github.com/castmap/topictaxonomy/internal/embedstore"
	"github.com/castmap/topictaxonomy/internal/errs"
	"github.com/castmap/topictaxonomy/internal/namer"
	"github.com/castmap/topictaxonomy/internal/taxonomy"
	"github.com/castmap/topictaxonomy/internal/topic"
)

// EmbeddingFileName and TaxonomyFileName are the fixed output file names
// defined by spec §6.5.
const (
	EmbeddingFileName = "topic-embeddings.json"
	TaxonomyFileName  = "topic-taxonomy.json"
)

// Progress is the subset of StderrProgress the driver and its stages
// depend on, so tests can substitute a silent recorder.
type Progress interface {
	Reportf(format string, args ...any)
	Warnf(format string, args ...any)
}

// Result is what one successful Run returns: the emitted taxonomy plus
// the embedding database it was computed from.
type Result struct {
	Embeddings *embedstore.Database
	Taxonomy   *taxonomy.Taxonomy
}

// Run drives the full pipeline: ingest episode records, ensure the
// embedding database, cluster, name, and emit the taxonomy artifact. No
// partial artifact is written on any failure path (spec §5 "Cancellation").
func Run(ctx context.Context, cfg Config, embedProvider embedstore.Provider, embedCache embedstore.Cache, namingProvider namer.Provider, progress Progress) (*Result, error) {
	lock, err := AcquireDirLock(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	uniqueTopics, warnings, err := topic.Ingest(cfg.EpisodesDir)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		progress.Warnf("%s: %s", w.File, w.Message)
	}
	progress.Reportf("ingested %d unique topics", len(uniqueTopics))

	if embedCache == nil {
		embedCache = embedstore.NewFileCache(filepath.Join(cfg.OutputDir, EmbeddingFileName))
	}

	embedCfg := embedstore.Config{
		Model:             cfg.EmbeddingModel,
		BatchSize:         cfg.EmbeddingBatchSize,
		InterBatchDelayMs: cfg.InterBatchDelayMs,
		ForceRefresh:      cfg.ForceRefreshCache,
	}
	db, err := embedstore.Ensure(ctx, uniqueTopics, embedCfg, embedCache, embedProvider, progress)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	embeddings := make([][]float64, len(db.Topics))
	episodeCounts := make([]int, len(db.Topics))
	for i, e := range db.Topics {
		embeddings[i] = e.Embedding
		episodeCounts[i] = len(e.Episodes)
	}

	matrix := distance.NewMatrix(embeddings)
	weights := cluster.Weights(episodeCounts, cfg.UseRelevanceWeighting)

	clusterOpts := cluster.Options{
		Linkage:               cfg.LinkageMethod,
		UseRelevanceWeighting: cfg.UseRelevanceWeighting,
		OutlierThreshold:      cfg.OutlierThreshold,
	}
	clusters, err := cluster.Run(matrix, embeddings, weights, cfg.TargetClusters, clusterOpts)
	if err != nil {
		return nil, err
	}
	progress.Reportf("clustered %d topics into %d clusters", len(embeddings), len(clusters))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	namerInputs := make([]namer.ClusterInput, len(clusters))
	for i, c := range clusters {
		members := make([]namer.Member, len(c.Items))
		for j, idx := range c.Items {
			e := db.Topics[idx]
			members[j] = namer.Member{
				Topic:        e.Topic,
				Keywords:     e.Keywords,
				EpisodeCount: len(e.Episodes),
				Weight:       weights[idx],
			}
		}
		namerInputs[i] = namer.ClusterInput{
			Members:          members,
			IsOutlier:        c.IsOutlier,
			MaxMergeDistance: c.MaxMergeDistance,
		}
	}

	namerCfg := namer.Config{
		UseLLM:             cfg.UseLLMNaming,
		Model:              cfg.NamingModel,
		Temperature:        cfg.Temperature,
		MaxCandidateTopics: 10,
		StopWords:          namer.DefaultConfig().StopWords,
		RequestDelayMs:     cfg.RequestDelayMs,
	}
	names, nameWarnings, err := namer.Name(ctx, namerInputs, cfg.OutlierThreshold, namerCfg, namingProvider)
	if err != nil {
		return nil, err
	}
	for _, w := range nameWarnings {
		progress.Warnf("naming cluster %d: %s", w.ClusterIndex, w.Message)
	}

	clusterInputs := make([]taxonomy.ClusterInput, len(clusters))
	totalTopics := 0
	for i, c := range clusters {
		episodeSet := make(map[int]struct{})
		sampleTopics := make([]string, 0, 5)
		for j, idx := range c.Items {
			e := db.Topics[idx]
			totalTopics += e.Count
			for _, ep := range e.Episodes {
				episodeSet[ep] = struct{}{}
			}
			if j < 5 {
				sampleTopics = append(sampleTopics, e.Topic)
			}
		}
		episodes := make([]int, 0, len(episodeSet))
		for ep := range episodeSet {
			episodes = append(episodes, ep)
		}
		sort.Ints(episodes)

		name := names[i].Name
		clusterInputs[i] = taxonomy.ClusterInput{
			ID:           namer.Slug(name),
			Name:         name,
			IsOutlier:    c.IsOutlier,
			TopicCount:   len(c.Items),
			SampleTopics: sampleTopics,
			Episodes:     episodes,
		}
	}

	meta := taxonomy.Meta{
		EmbeddingModel:      db.EmbeddingModel,
		EmbeddingsCreatedAt: db.CreatedAt,
		TotalTopics:         totalTopics,
		UniqueTopics:        len(uniqueTopics),
		CreatedAt:           time.Now().UTC(),
		Settings: taxonomy.Settings{
			Clusters:              cfg.TargetClusters,
			OutlierThreshold:      cfg.OutlierThreshold,
			LinkageMethod:         string(cfg.LinkageMethod),
			UseRelevanceWeighting: cfg.UseRelevanceWeighting,
			UseLLMNaming:          cfg.UseLLMNaming,
		},
	}

	tax := taxonomy.Emit(clusterInputs, meta)

	outPath := filepath.Join(cfg.OutputDir, TaxonomyFileName)
	if err := taxonomy.Write(outPath, tax); err != nil {
		return nil, errs.Wrap(errs.WriteFailed, "writing taxonomy", err)
	}
	progress.Reportf("wrote %s", outPath)

	return &Result{Embeddings: db, Taxonomy: tax}, nil
}

// Validate checks the option combinations the driver cannot recover from
// before any I/O is attempted.
func (c Config) Validate() error {
	if c.TargetClusters <= 0 {
		return errs.New(errs.TargetZero, "targetClusters must be positive")
	}
	if !c.LinkageMethod.Valid() {
		return fmt.Errorf("unrecognized linkage method %q", c.LinkageMethod)
	}
	return nil
}
