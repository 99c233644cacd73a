package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultTTL = 24 * time.Hour

// EmbeddingCache stores query vectors in Redis, keyed by a hash of the text
// and the embedding model name so a model change invalidates old entries.
type EmbeddingCache struct {
	client    *redis.Client
	keyPrefix string
	model     string
	ttl       time.Duration
}

type Config struct {
	Address   string
	Password  string
	Database  int
	KeyPrefix string
	Model     string
	TTL       time.Duration
}

func NewEmbeddingCache(cfg Config) (*EmbeddingCache, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "answer-engine"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &EmbeddingCache{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		model:     cfg.Model,
		ttl:       cfg.TTL,
	}, nil
}

func (c *EmbeddingCache) Close() error {
	return c.client.Close()
}

func (c *EmbeddingCache) Get(ctx context.Context, text string) ([]float32, bool, error) {
	data, err := c.client.Get(ctx, c.key(text)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var vector []float32
	if err := json.Unmarshal([]byte(data), &vector); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached vector: %w", err)
	}
	return vector, true, nil
}

func (c *EmbeddingCache) Set(ctx context.Context, text string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("marshal vector: %w", err)
	}
	if err := c.client.Set(ctx, c.key(text), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *EmbeddingCache) key(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return fmt.Sprintf("%s:emb:%s", c.keyPrefix, hex.EncodeToString(sum[:]))
}
