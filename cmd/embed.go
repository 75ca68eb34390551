package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/castmap/topictaxonomy/internal/embedstore"
	"github.com/castmap/topictaxonomy/internal/pipeline"
)

var embedFlags struct {
	episodesDir        string
	outputDir          string
	embeddingModel     string
	embeddingBatchSize int
	interBatchDelayMs  int
	forceRefresh       bool
	embeddingBaseURL   string
	vectorBackend      string
	milvusAddress      string
	milvusCollection   string
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Ensure the embedding database is up to date without clustering",
	RunE:  runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)

	f := embedCmd.Flags()
	f.StringVar(&embedFlags.episodesDir, "episodes", "episodes", "directory of per-episode topic records")
	f.StringVar(&embedFlags.outputDir, "output", ".", "directory to write topic-embeddings.json into")
	f.StringVar(&embedFlags.embeddingModel, "embedding-model", "text-embedding-3-small", "embedding provider model id")
	f.IntVar(&embedFlags.embeddingBatchSize, "embedding-batch-size", 100, "topics per embedding request")
	f.IntVar(&embedFlags.interBatchDelayMs, "inter-batch-delay-ms", 500, "minimum delay between embedding batches")
	f.BoolVar(&embedFlags.forceRefresh, "force-refresh", false, "recompute the embedding database even if the cache looks fresh")
	f.StringVar(&embedFlags.embeddingBaseURL, "embedding-base-url", "", "override the embedding provider base URL")
	f.StringVar(&embedFlags.vectorBackend, "vector-backend", "file", "embedding cache backend: file|milvus")
	f.StringVar(&embedFlags.milvusAddress, "milvus-address", "localhost:19530", "Milvus gRPC address, when --vector-backend=milvus")
	f.StringVar(&embedFlags.milvusCollection, "milvus-collection", "topic_embeddings", "Milvus collection name, when --vector-backend=milvus")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	progress := pipeline.NewStderrProgress(cmd.OutOrStderr())

	uniqueTopics, warnings, err := ingestTopics(embedFlags.episodesDir, progress)
	if err != nil {
		return err
	}

	cache, err := embedCacheFromFlag(ctx, embedFlags.vectorBackend, embedCacheOptions{
		outputDir:        embedFlags.outputDir,
		model:            embedFlags.embeddingModel,
		milvusAddress:    embedFlags.milvusAddress,
		milvusCollection: embedFlags.milvusCollection,
	})
	if err != nil {
		return err
	}

	provider, err := embedProviderFromEnv(embedFlags.embeddingBaseURL, embedFlags.embeddingModel)
	if err != nil {
		return fmt.Errorf("configuring embedding provider: %w", err)
	}

	cfg := embedstore.Config{
		Model:             embedFlags.embeddingModel,
		BatchSize:         embedFlags.embeddingBatchSize,
		InterBatchDelayMs: embedFlags.interBatchDelayMs,
		ForceRefresh:      embedFlags.forceRefresh,
	}

	db, err := embedstore.Ensure(ctx, uniqueTopics, cfg, cache, provider, progress)
	if err != nil {
		return err
	}

	progress.Reportf("embedding database has %d topics at %d dimensions", len(db.Topics), db.EmbeddingDimensions)
	_ = warnings
	return nil
}

// embedCacheOptions carries the fields embedCacheFromFlag needs without
// depending on either command's package-level flag struct.
type embedCacheOptions struct {
	outputDir        string
	model            string
	milvusAddress    string
	milvusCollection string
}

// embedCacheFromFlag builds the embedstore.Cache selected by
// --vector-backend. "file" (the default) satisfies the literal
// topic-embeddings.json contract in spec §6.5; "milvus" persists the same
// records in a live Milvus collection instead.
func embedCacheFromFlag(ctx context.Context, backend string, opts embedCacheOptions) (embedstore.Cache, error) {
	switch backend {
	case "", "file":
		return embedstore.NewFileCache(filepath.Join(opts.outputDir, pipeline.EmbeddingFileName)), nil
	case "milvus":
		mcfg := embedstore.DefaultMilvusConfig()
		if opts.milvusAddress != "" {
			mcfg.Address = opts.milvusAddress
		}
		if opts.milvusCollection != "" {
			mcfg.CollectionName = opts.milvusCollection
		}
		return embedstore.NewMilvusCache(ctx, mcfg, opts.model)
	default:
		return nil, fmt.Errorf("unrecognized --vector-backend %q (want file or milvus)", backend)
	}
}
