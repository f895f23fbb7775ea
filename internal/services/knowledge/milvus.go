package knowledge

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// MilvusStore is the Milvus-backed Searcher over the coaching passage
// collection. The collection is pre-built by the ingestion tooling; this
// client only searches it.
type MilvusStore struct {
	conn       client.Client
	collection string
}

// MilvusConfig holds Milvus connection configuration.
type MilvusConfig struct {
	Address    string
	Username   string
	Password   string
	Collection string
}

// Collection field names, fixed by the ingestion schema.
const (
	fieldDocID   = "doc_id"
	fieldVector  = "embedding"
	fieldSubject = "subject"
	fieldSource  = "source"
	fieldExcerpt = "excerpt"
)

// NewMilvusStore connects to Milvus and loads the passage collection.
func NewMilvusStore(ctx context.Context, cfg MilvusConfig) (*MilvusStore, error) {
	conn, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	if err := conn.LoadCollection(ctx, cfg.Collection, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to load collection %s: %w", cfg.Collection, err)
	}

	return &MilvusStore{conn: conn, collection: cfg.Collection}, nil
}

// Close closes the Milvus connection.
func (s *MilvusStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Search performs a TopK cosine similarity search over the passage
// collection. Scores come back in [0,1].
func (s *MilvusStore) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	vectors := []entity.Vector{entity.FloatVector(vector)}

	sp, err := entity.NewIndexIvfFlatSearchParam(16) // nprobe
	if err != nil {
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	outputFields := []string{fieldDocID, fieldSubject, fieldSource, fieldExcerpt}

	results, err := s.conn.Search(
		ctx,
		s.collection,
		nil, // partitions
		"",  // expression filter
		outputFields,
		vectors,
		fieldVector,
		entity.COSINE,
		k,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	matches := make([]Match, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		m := Match{Score: float64(results[0].Scores[i])}

		for _, field := range results[0].Fields {
			col, ok := field.(*entity.ColumnVarChar)
			if !ok {
				continue
			}
			val, _ := col.ValueByIdx(i)
			switch field.Name() {
			case fieldDocID:
				m.DocID = val
			case fieldSubject:
				m.Subject = val
			case fieldSource:
				m.Source = val
			case fieldExcerpt:
				m.Excerpt = val
			}
		}

		matches = append(matches, m)
	}

	return matches, nil
}
