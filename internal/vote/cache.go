package vote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// TallyCache keeps recently computed tallies in Redis. Reads are
// best-effort: a cache failure falls through to the database.
type TallyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTallyCache(client *redis.Client, ttl time.Duration) *TallyCache {
	return &TallyCache{client: client, ttl: ttl}
}

func cacheKey(questionCode string) string {
	return fmt.Sprintf("results:%s", questionCode)
}

func (c *TallyCache) Get(ctx context.Context, questionCode string) (*TallySnapshot, bool) {
	data, err := c.client.Get(ctx, cacheKey(questionCode)).Bytes()
	if err != nil {
		return nil, false
	}

	var snapshot TallySnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slog.Warn("Dropping corrupt tally cache entry", "question_code", questionCode, "error", err)
		c.client.Del(ctx, cacheKey(questionCode))
		return nil, false
	}
	return &snapshot, true
}

func (c *TallyCache) Set(ctx context.Context, snapshot *TallySnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(snapshot.QuestionCode), data, c.ttl).Err(); err != nil {
		slog.Warn("Failed to write tally cache", "question_code", snapshot.QuestionCode, "error", err)
	}
}

func (c *TallyCache) Invalidate(ctx context.Context, questionCode string) error {
	return c.client.Del(ctx, cacheKey(questionCode)).Err()
}
