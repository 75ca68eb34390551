package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/castmap/topictaxonomy/internal/distance"
	"github.com/castmap/topictaxonomy/internal/embedstore"
	"github.com/castmap/topictaxonomy/internal/httpx"
	"github.com/castmap/topictaxonomy/internal/namer"
	"github.com/castmap/topictaxonomy/internal/pipeline"
)

var runFlags struct {
	episodesDir string
	outputDir   string

	clusters              int
	outlierThreshold      float64
	linkage               string
	useRelevanceWeighting bool
	useLLMNaming          bool

	embeddingModel     string
	embeddingBatchSize int
	interBatchDelayMs  int
	forceRefresh       bool
	embeddingBaseURL   string

	namingModel    string
	temperature    float64
	maxRetries     int
	retryDelayMs   int
	requestDelayMs int
	namingBaseURL  string

	vectorBackend string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full ingest → embed → cluster → name → emit pipeline",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVar(&runFlags.episodesDir, "episodes", "episodes", "directory of per-episode topic records")
	f.StringVar(&runFlags.outputDir, "output", ".", "directory to write topic-embeddings.json and topic-taxonomy.json into")

	f.IntVar(&runFlags.clusters, "clusters", 256, "target cluster count")
	f.Float64Var(&runFlags.outlierThreshold, "outlier-threshold", 0.7, "cluster-distance threshold above which a merge flags outliers")
	f.StringVar(&runFlags.linkage, "linkage", "weighted", "linkage method: single|complete|average|weighted|ward")
	f.BoolVar(&runFlags.useRelevanceWeighting, "relevance-weighting", true, "weight clustering and naming by episode coverage")
	f.BoolVar(&runFlags.useLLMNaming, "llm-naming", true, "use the naming LLM before falling back to the heuristic")

	f.StringVar(&runFlags.embeddingModel, "embedding-model", "text-embedding-3-small", "embedding provider model id")
	f.IntVar(&runFlags.embeddingBatchSize, "embedding-batch-size", 100, "topics per embedding request")
	f.IntVar(&runFlags.interBatchDelayMs, "inter-batch-delay-ms", 500, "minimum delay between embedding batches")
	f.BoolVar(&runFlags.forceRefresh, "force-refresh", false, "recompute the embedding database even if the cache looks fresh")
	f.StringVar(&runFlags.embeddingBaseURL, "embedding-base-url", "", "override the embedding provider base URL")

	f.StringVar(&runFlags.namingModel, "naming-model", "gpt-4o-mini", "naming LLM model id")
	f.Float64Var(&runFlags.temperature, "temperature", 0.3, "naming LLM temperature")
	f.IntVar(&runFlags.maxRetries, "max-retries", 3, "retry ceiling for embedding and naming HTTP calls")
	f.IntVar(&runFlags.retryDelayMs, "retry-delay-ms", 5000, "base retry backoff delay")
	f.IntVar(&runFlags.requestDelayMs, "request-delay-ms", 1000, "base inter-request delay for naming calls")
	f.StringVar(&runFlags.namingBaseURL, "naming-base-url", "", "override the naming provider base URL")

	f.StringVar(&runFlags.vectorBackend, "vector-backend", "file", "embedding cache backend: file|milvus")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	progress := pipeline.NewStderrProgress(os.Stderr)

	cfg := pipeline.DefaultConfig()
	cfg.EpisodesDir = runFlags.episodesDir
	cfg.OutputDir = runFlags.outputDir
	cfg.TargetClusters = runFlags.clusters
	cfg.OutlierThreshold = runFlags.outlierThreshold
	cfg.LinkageMethod = distance.Linkage(runFlags.linkage)
	cfg.UseRelevanceWeighting = runFlags.useRelevanceWeighting
	cfg.UseLLMNaming = runFlags.useLLMNaming
	cfg.EmbeddingModel = runFlags.embeddingModel
	cfg.EmbeddingBatchSize = runFlags.embeddingBatchSize
	cfg.InterBatchDelayMs = runFlags.interBatchDelayMs
	cfg.ForceRefreshCache = runFlags.forceRefresh
	cfg.NamingModel = runFlags.namingModel
	cfg.Temperature = runFlags.temperature
	cfg.MaxRetries = runFlags.maxRetries
	cfg.RetryDelayMs = runFlags.retryDelayMs
	cfg.RequestDelayMs = runFlags.requestDelayMs
	cfg.EmbeddingBaseURL = runFlags.embeddingBaseURL
	cfg.EmbeddingAPIKey = os.Getenv("EMBEDDING_API_KEY")
	cfg.NamingBaseURL = runFlags.namingBaseURL
	cfg.NamingAPIKey = os.Getenv("NAMING_API_KEY")

	if err := cfg.Validate(); err != nil {
		return err
	}

	retry := httpx.RetryPolicy{MaxRetries: cfg.MaxRetries, RetryDelayMs: cfg.RetryDelayMs}

	embedProvider, err := embedstore.NewOpenAIProvider(cfg.EmbeddingAPIKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel, retry)
	if err != nil {
		return fmt.Errorf("configuring embedding provider: %w", err)
	}

	embedCache, err := embedCacheFromFlag(ctx, runFlags.vectorBackend, embedCacheOptions{
		outputDir: cfg.OutputDir,
		model:     cfg.EmbeddingModel,
	})
	if err != nil {
		return err
	}

	var namingProvider namer.Provider
	if cfg.UseLLMNaming {
		p, err := namer.NewOpenAIProvider(cfg.NamingAPIKey, cfg.NamingBaseURL, cfg.NamingModel, cfg.Temperature, retry)
		if err != nil {
			progress.Warnf("naming LLM unavailable (%v); every multi-topic cluster will use the heuristic name", err)
		} else {
			namingProvider = p
		}
	}

	result, err := pipeline.Run(ctx, cfg, embedProvider, embedCache, namingProvider, progress)
	if err != nil {
		return err
	}

	progress.Reportf("done: %d clusters, %d outliers (%.1f%%)",
		result.Taxonomy.Statistics.ClusterCount,
		result.Taxonomy.Statistics.OutlierCount,
		result.Taxonomy.Statistics.OutlierPercentage)
	return nil
}
