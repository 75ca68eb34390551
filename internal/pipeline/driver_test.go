package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/castmap/topictaxonomy/internal/distance"
)

type silentProgress struct{}

func (silentProgress) Reportf(format string, args ...any) {}
func (silentProgress) Warnf(format string, args ...any)   {}

type fakeEmbedProvider struct {
	dim int
}

func (f *fakeEmbedProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		v := make([]float64, f.dim)
		v[i%f.dim] = 1
		out[i] = v
	}
	return out, nil
}

func writeEpisode(t *testing.T, dir string, number int, topics []string) {
	t.Helper()
	type entry struct {
		Topic string `json:"topic"`
	}
	type record struct {
		EpisodeNumber int     `json:"episodeNumber"`
		Topics        []entry `json:"topics"`
	}
	rec := record{EpisodeNumber: number}
	for _, topicName := range topics {
		rec.Topics = append(rec.Topics, entry{Topic: topicName})
	}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%d-topics.json", number))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing episode file: %v", err)
	}
}

func TestRun_ProducesTaxonomyFile(t *testing.T) {
	episodesDir := t.TempDir()
	outputDir := t.TempDir()

	writeEpisode(t, episodesDir, 1, []string{"Raumfahrt", "Klima"})
	writeEpisode(t, episodesDir, 2, []string{"Raumfahrt", "Energie"})

	cfg := DefaultConfig()
	cfg.EpisodesDir = episodesDir
	cfg.OutputDir = outputDir
	cfg.TargetClusters = 2
	cfg.UseLLMNaming = false
	cfg.LinkageMethod = distance.Average

	result, err := Run(context.Background(), cfg, &fakeEmbedProvider{dim: 4}, nil, nil, silentProgress{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Taxonomy == nil {
		t.Fatal("expected a taxonomy result")
	}

	outPath := filepath.Join(outputDir, TaxonomyFileName)
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("expected taxonomy file at %s: %v", outPath, err)
	}

	embedPath := filepath.Join(outputDir, EmbeddingFileName)
	if _, err := os.Stat(embedPath); err != nil {
		t.Errorf("expected embedding cache at %s: %v", embedPath, err)
	}
}

func TestRun_SecondRunWithUnchangedTopicsSkipsEmbedding(t *testing.T) {
	episodesDir := t.TempDir()
	outputDir := t.TempDir()
	writeEpisode(t, episodesDir, 1, []string{"Raumfahrt", "Klima"})

	cfg := DefaultConfig()
	cfg.EpisodesDir = episodesDir
	cfg.OutputDir = outputDir
	cfg.TargetClusters = 1
	cfg.UseLLMNaming = false

	provider := &fakeEmbedProvider{dim: 4}
	if _, err := Run(context.Background(), cfg, provider, nil, nil, silentProgress{}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	counting := &countingProvider{fakeEmbedProvider: fakeEmbedProvider{dim: 4}}
	if _, err := Run(context.Background(), cfg, counting, nil, nil, silentProgress{}); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if counting.calls != 0 {
		t.Errorf("expected cache hit to skip embedding requests, got %d calls", counting.calls)
	}
}

type countingProvider struct {
	fakeEmbedProvider
	calls int
}

func (c *countingProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	c.calls++
	return c.fakeEmbedProvider.Embed(ctx, texts)
}
