package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/smarttask/backend/domain"
	"github.com/smarttask/backend/repository"
)

type extractionCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewExtractionCache creates a Redis-backed cache of oracle candidates.
// Entries are keyed by the input text and the reference day, since the same
// text resolves to different instants on different days.
func NewExtractionCache(client *redislib.Client, ttl time.Duration) repository.ExtractionCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &extractionCache{
		client: client,
		prefix: "extract:",
		ttl:    ttl,
	}
}

func (c *extractionCache) Get(ctx context.Context, text string, reference time.Time) (domain.Candidate, bool, error) {
	result, err := c.client.Get(ctx, c.key(text, reference)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var candidate domain.Candidate
	if err := json.Unmarshal([]byte(result), &candidate); err != nil {
		return nil, false, err
	}
	return candidate, true, nil
}

func (c *extractionCache) Put(ctx context.Context, text string, reference time.Time, candidate domain.Candidate) error {
	payload, err := json.Marshal(candidate)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(text, reference), payload, c.ttl).Err()
}

func (c *extractionCache) key(text string, reference time.Time) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s%s:%s", c.prefix, reference.UTC().Format("2006-01-02"), hex.EncodeToString(sum[:]))
}
