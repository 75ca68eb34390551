package embedstore

import (
	"context"
	"testing"

	"github.com/castmap/topictaxonomy/internal/topic"
)

type memCache struct {
	db *Database
}

func (m *memCache) Load(ctx context.Context) (*Database, bool, error) {
	if m.db == nil {
		return nil, false, nil
	}
	return m.db, true, nil
}

func (m *memCache) Save(ctx context.Context, db *Database) error {
	m.db = db
	return nil
}

type fakeProvider struct {
	calls [][]string
	dim   int
}

func (f *fakeProvider) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	f.calls = append(f.calls, append([]string(nil), texts...))
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = make([]float64, f.dim)
		out[i][0] = float64(i + 1)
	}
	return out, nil
}

func makeTopics(n int) []*topic.Topic {
	topics := make([]*topic.Topic, n)
	for i := range topics {
		topics[i] = &topic.Topic{Topic: "t", Count: 1, Episodes: []int{i}}
	}
	return topics
}

func TestEnsure_BatchesAccordingToBatchSize(t *testing.T) {
	provider := &fakeProvider{dim: 4}
	cache := &memCache{}
	cfg := Config{Model: "m", BatchSize: 2}

	topics := makeTopics(5)
	db, err := Ensure(context.Background(), topics, cfg, cache, provider, nil)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if len(db.Topics) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(db.Topics))
	}
	// ceil(5/2) = 3 batches.
	if len(provider.calls) != 3 {
		t.Errorf("expected 3 batches, got %d", len(provider.calls))
	}
}

func TestEnsure_CacheHitIssuesNoRequests(t *testing.T) {
	provider := &fakeProvider{dim: 4}
	cache := &memCache{}
	cfg := Config{Model: "m", BatchSize: 100}

	topics := makeTopics(3)
	if _, err := Ensure(context.Background(), topics, cfg, cache, provider, nil); err != nil {
		t.Fatalf("first Ensure failed: %v", err)
	}
	firstCalls := len(provider.calls)
	if firstCalls == 0 {
		t.Fatal("expected the first run to issue embedding requests")
	}

	if _, err := Ensure(context.Background(), topics, cfg, cache, provider, nil); err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	if len(provider.calls) != firstCalls {
		t.Errorf("expected no additional requests on cache hit, calls went from %d to %d", firstCalls, len(provider.calls))
	}
}

func TestEnsure_ForceRefreshBypassesCache(t *testing.T) {
	provider := &fakeProvider{dim: 4}
	cache := &memCache{}
	cfg := Config{Model: "m", BatchSize: 100}

	topics := makeTopics(2)
	if _, err := Ensure(context.Background(), topics, cfg, cache, provider, nil); err != nil {
		t.Fatalf("first Ensure failed: %v", err)
	}
	firstCalls := len(provider.calls)

	cfg.ForceRefresh = true
	if _, err := Ensure(context.Background(), topics, cfg, cache, provider, nil); err != nil {
		t.Fatalf("forced Ensure failed: %v", err)
	}
	if len(provider.calls) <= firstCalls {
		t.Error("expected force refresh to issue new embedding requests")
	}
}

func TestEnsure_ModelChangeInvalidatesCache(t *testing.T) {
	provider := &fakeProvider{dim: 4}
	cache := &memCache{}
	topics := makeTopics(2)

	if _, err := Ensure(context.Background(), topics, Config{Model: "a", BatchSize: 100}, cache, provider, nil); err != nil {
		t.Fatalf("Ensure(a) failed: %v", err)
	}
	firstCalls := len(provider.calls)

	if _, err := Ensure(context.Background(), topics, Config{Model: "b", BatchSize: 100}, cache, provider, nil); err != nil {
		t.Fatalf("Ensure(b) failed: %v", err)
	}
	if len(provider.calls) <= firstCalls {
		t.Error("expected a model change to invalidate the cache and re-embed")
	}
}
