package embedstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/castmap/topictaxonomy/internal/topic"
)

// MilvusConfig configures the optional Milvus-backed embedding cache, an
// alternate to FileCache for deployments that already run a Milvus
// instance and want topic vectors queryable outside this pipeline.
type MilvusConfig struct {
	Address        string
	CollectionName string
	Dimension      int
}

// DefaultMilvusConfig mirrors the defaults used elsewhere for a local
// development instance.
func DefaultMilvusConfig() MilvusConfig {
	return MilvusConfig{
		Address:        "localhost:19530",
		CollectionName: "topic_embeddings",
		Dimension:      1536,
	}
}

// MilvusCache implements Cache against a live Milvus collection. It is
// selected explicitly via configuration; FileCache remains the default
// path that satisfies the literal on-disk topic-embeddings.json contract.
type MilvusCache struct {
	client client.Client
	config MilvusConfig
	model  string
}

// NewMilvusCache connects to Milvus and ensures the backing collection
// exists, creating an HNSW/COSINE index when it does not.
func NewMilvusCache(ctx context.Context, config MilvusConfig, model string) (*MilvusCache, error) {
	c, err := client.NewGrpcClient(ctx, config.Address)
	if err != nil {
		return nil, fmt.Errorf("connecting to milvus at %s: %w", config.Address, err)
	}

	store := &MilvusCache{client: c, config: config, model: model}
	if err := store.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return store, nil
}

func (m *MilvusCache) ensureCollection(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, m.config.CollectionName)
	if err != nil {
		return fmt.Errorf("checking milvus collection: %w", err)
	}
	if has {
		return m.client.LoadCollection(ctx, m.config.CollectionName, false)
	}

	schema := &entity.Schema{
		CollectionName: m.config.CollectionName,
		Fields: []*entity.Field{
			{Name: "id", DataType: entity.FieldTypeInt64, PrimaryKey: true, AutoID: false},
			{Name: "topic", DataType: entity.FieldTypeVarChar, TypeParams: map[string]string{"max_length": "512"}},
			{Name: "payload", DataType: entity.FieldTypeVarChar, TypeParams: map[string]string{"max_length": "65535"}},
			{
				Name:       "embedding",
				DataType:   entity.FieldTypeFloatVector,
				TypeParams: map[string]string{"dim": fmt.Sprintf("%d", m.config.Dimension)},
			},
		},
	}

	if err := m.client.CreateCollection(ctx, schema, 1); err != nil {
		return fmt.Errorf("creating milvus collection: %w", err)
	}

	idx, err := entity.NewIndexHNSW(entity.COSINE, 16, 64)
	if err != nil {
		return fmt.Errorf("building milvus index spec: %w", err)
	}
	if err := m.client.CreateIndex(ctx, m.config.CollectionName, "embedding", idx, false); err != nil {
		return fmt.Errorf("creating milvus index: %w", err)
	}

	return m.client.LoadCollection(ctx, m.config.CollectionName, false)
}

// Load reconstructs the Database by querying every row in the collection.
// A cache miss (empty collection) is not distinguished from "never
// populated" — callers decide freshness via Fresh() as with FileCache.
func (m *MilvusCache) Load(ctx context.Context) (*Database, bool, error) {
	results, err := m.client.Query(ctx, m.config.CollectionName, nil, "",
		[]string{"id", "topic", "payload", "embedding"})
	if err != nil {
		return nil, false, fmt.Errorf("querying milvus collection: %w", err)
	}
	if len(results) == 0 {
		return nil, false, nil
	}

	var ids *entity.ColumnInt64
	var topics *entity.ColumnVarChar
	var payloads *entity.ColumnVarChar
	var vectors *entity.ColumnFloatVector

	for _, col := range results {
		switch col.Name() {
		case "id":
			ids, _ = col.(*entity.ColumnInt64)
		case "topic":
			topics, _ = col.(*entity.ColumnVarChar)
		case "payload":
			payloads, _ = col.(*entity.ColumnVarChar)
		case "embedding":
			vectors, _ = col.(*entity.ColumnFloatVector)
		}
	}
	if ids == nil || topics == nil || payloads == nil || vectors == nil {
		return nil, false, fmt.Errorf("milvus query returned unexpected column set")
	}

	entries := make([]Entry, ids.Len())
	for i := 0; i < ids.Len(); i++ {
		var rest struct {
			Keywords    []string           `json:"keywords"`
			Count       int                `json:"count"`
			Episodes    []int              `json:"episodes"`
			Occurrences []topic.Occurrence `json:"occurrences"`
		}
		if err := json.Unmarshal([]byte(payloads.Data()[i]), &rest); err != nil {
			return nil, false, fmt.Errorf("decoding milvus payload for row %d: %w", i, err)
		}

		vec := vectors.Data()[i]
		embedding := make([]float64, len(vec))
		for k, v := range vec {
			embedding[k] = float64(v)
		}

		entries[i] = Entry{
			ID:          int(ids.Data()[i]),
			Topic:       topics.Data()[i],
			Keywords:    rest.Keywords,
			Count:       rest.Count,
			Episodes:    rest.Episodes,
			Occurrences: rest.Occurrences,
			Embedding:   embedding,
		}
	}

	db := &Database{
		SchemaVersion:       SchemaVersion,
		EmbeddingModel:      m.model,
		EmbeddingDimensions: m.config.Dimension,
		Topics:              entries,
	}
	return db, true, nil
}

// Save upserts every topic entry as a row keyed by its id.
func (m *MilvusCache) Save(ctx context.Context, db *Database) error {
	ids := make([]int64, len(db.Topics))
	topics := make([]string, len(db.Topics))
	payloads := make([]string, len(db.Topics))
	vectors := make([][]float32, len(db.Topics))

	for i, e := range db.Topics {
		ids[i] = int64(e.ID)
		topics[i] = e.Topic

		payload, err := json.Marshal(struct {
			Keywords    []string `json:"keywords"`
			Count       int      `json:"count"`
			Episodes    []int    `json:"episodes"`
			Occurrences any      `json:"occurrences"`
		}{e.Keywords, e.Count, e.Episodes, e.Occurrences})
		if err != nil {
			return fmt.Errorf("encoding milvus payload for topic %q: %w", e.Topic, err)
		}
		payloads[i] = string(payload)

		vec := make([]float32, len(e.Embedding))
		for k, v := range e.Embedding {
			vec[k] = float32(v)
		}
		vectors[i] = vec
	}

	_, err := m.client.Upsert(ctx, m.config.CollectionName, "",
		entity.NewColumnInt64("id", ids),
		entity.NewColumnVarChar("topic", topics),
		entity.NewColumnVarChar("payload", payloads),
		entity.NewColumnFloatVector("embedding", m.config.Dimension, vectors),
	)
	if err != nil {
		return fmt.Errorf("upserting into milvus: %w", err)
	}

	return m.client.Flush(ctx, m.config.CollectionName, false)
}

// Close releases the underlying gRPC connection.
func (m *MilvusCache) Close() error {
	return m.client.Close()
}
