// Package cache keeps assembled curriculum trees in Redis.
//
// Entries are versioned by a generation counter. Invalidation bumps the
// counter, so every tree cached before it becomes unreachable at once and
// expires on its own TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/learnhub/curriculum/internal/models"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "curriculum:tree"
	generationKey = keyPrefix + ":gen"
)

type treeCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewTreeCache creates a Redis backed tree cache.
// A nil client yields a cache that never hits and never fails.
func NewTreeCache(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *treeCache {
	return &treeCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached tree for the given course filter.
// The second value is false on a miss.
func (c *treeCache) Get(ctx context.Context, courseID *int) ([]models.TreeNode, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}

	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false, err
	}

	data, err := c.client.Get(ctx, TreeKey(gen, courseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached tree: %w", err)
	}

	var nodes []models.TreeNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		c.logger.Warn("dropping unreadable cached tree", zap.Error(err))
		return nil, false, nil
	}

	return nodes, true, nil
}

// Set stores a tree for the given course filter
func (c *treeCache) Set(ctx context.Context, courseID *int, nodes []models.TreeNode) error {
	if c.client == nil {
		return nil
	}

	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}

	if err := c.client.Set(ctx, TreeKey(gen, courseID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache tree: %w", err)
	}

	return nil
}

// Invalidate makes every cached tree unreachable
func (c *treeCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}

	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate tree cache: %w", err)
	}

	return nil
}

func (c *treeCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get tree cache generation: %w", err)
	}
	return gen, nil
}

// TreeKey builds the Redis key of a tree for a cache generation and course filter
func TreeKey(gen int64, courseID *int) string {
	scope := "all"
	if courseID != nil {
		scope = "course:" + strconv.Itoa(*courseID)
	}
	return fmt.Sprintf("%s:v%d:%s", keyPrefix, gen, scope)
}
