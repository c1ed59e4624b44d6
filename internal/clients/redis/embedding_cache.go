package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/seojin-dev/moodshift-backend/internal/platform/ctxutil"
	"github.com/seojin-dev/moodshift-backend/internal/platform/envutil"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/vecmath"
)

// EmbeddingCache is a read-through cache for embedding vectors keyed by the
// hash of the input text. Values are float32 little-endian blobs.
type EmbeddingCache interface {
	Get(ctx context.Context, text string) ([]float32, bool)
	Set(ctx context.Context, text string, vec []float32)
	Close() error
}

type embeddingCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewEmbeddingCache connects to Redis from REDIS_ADDR. Callers should treat
// a connection failure as "no cache" rather than fatal.
func NewEmbeddingCache(log *logger.Logger) (EmbeddingCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttlHours := envutil.GetEnvAsInt("REDIS_EMBED_TTL_HOURS", 24, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &embeddingCache{
		log:    log.With("service", "RedisEmbeddingCache"),
		rdb:    rdb,
		prefix: "embed:",
		ttl:    time.Duration(ttlHours) * time.Hour,
	}, nil
}

func (c *embeddingCache) key(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *embeddingCache) Get(ctx context.Context, text string) ([]float32, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	ctx = ctxutil.Default(ctx)
	raw, err := c.rdb.Get(ctx, c.key(text)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("Embedding cache read failed", "error", err.Error())
		}
		return nil, false
	}
	vec, err := vecmath.DecodeVector(raw)
	if err != nil || len(vec) == 0 {
		c.log.Warn("Embedding cache entry corrupt; dropping", "error", errString(err))
		_ = c.rdb.Del(ctx, c.key(text)).Err()
		return nil, false
	}
	return vec, true
}

func (c *embeddingCache) Set(ctx context.Context, text string, vec []float32) {
	if c == nil || c.rdb == nil || len(vec) == 0 {
		return
	}
	ctx = ctxutil.Default(ctx)
	if err := c.rdb.Set(ctx, c.key(text), vecmath.EncodeVector(vec), c.ttl).Err(); err != nil {
		c.log.Warn("Embedding cache write failed", "error", err.Error())
	}
}

func (c *embeddingCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func errString(err error) string {
	if err == nil {
		return "empty vector"
	}
	return err.Error()
}
