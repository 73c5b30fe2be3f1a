package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const provenanceKeyPrefix = "prov:"

// ProvenanceStore keeps the original, unsummarized content of every retrievable
// unit so retrieval can recover the source later. Entries are written alongside
// each unit and pruned in the same eviction step that deletes the unit from the
// vector index.
type ProvenanceStore struct {
	rdb *redis.Client
}

func NewProvenanceStore(redisURL string) (*ProvenanceStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &ProvenanceStore{rdb: rdb}, nil
}

// MSet stores the original content for a batch of units.
func (s *ProvenanceStore) MSet(ctx context.Context, entries map[uuid.UUID]string) error {
	if len(entries) == 0 {
		return nil
	}

	pairs := make([]interface{}, 0, len(entries)*2)
	for id, content := range entries {
		pairs = append(pairs, provenanceKeyPrefix+id.String(), content)
	}
	return s.rdb.MSet(ctx, pairs...).Err()
}

// Get returns the original content for each unit id; missing entries come back
// as empty strings.
func (s *ProvenanceStore) Get(ctx context.Context, ids []uuid.UUID) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = provenanceKeyPrefix + id.String()
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]string, len(values))
	for i, v := range values {
		if str, ok := v.(string); ok {
			out[i] = str
		}
	}
	return out, nil
}

// Delete removes the provenance entries for a batch of units.
func (s *ProvenanceStore) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = provenanceKeyPrefix + id.String()
	}
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *ProvenanceStore) Close() error {
	return s.rdb.Close()
}
