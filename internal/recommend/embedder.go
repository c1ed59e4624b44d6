// Package recommend turns free-form user text into content picks: it infers
// the user's current emotion, flips it to the most dissimilar target
// emotion, and re-ranks the curated pool for that target.
package recommend

import (
	"context"
	"strings"

	"github.com/seojin-dev/moodshift-backend/internal/clients/redis"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/platform/openai"
)

// Embedder embeds one text. The boolean reports usability: oracle failures
// and empty inputs come back as (nil, false) so callers can degrade instead
// of propagating errors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, bool)
}

type oracleEmbedder struct {
	log   *logger.Logger
	oc    openai.Client
	cache redis.EmbeddingCache
}

// NewEmbedder wraps the OpenAI client with failure-swallowing semantics and
// an optional read-through Redis cache (pass nil to disable caching).
func NewEmbedder(log *logger.Logger, oc openai.Client, cache redis.EmbeddingCache) Embedder {
	return &oracleEmbedder{
		log:   log.With("service", "Embedder"),
		oc:    oc,
		cache: cache,
	}
}

func (e *oracleEmbedder) Embed(ctx context.Context, text string) ([]float32, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	if e.cache != nil {
		if vec, ok := e.cache.Get(ctx, text); ok {
			return vec, true
		}
	}

	vecs, err := e.oc.Embed(ctx, []string{text})
	if err != nil || len(vecs) != 1 || len(vecs[0]) == 0 {
		e.log.Warn("Embedding call failed; degrading",
			"text_len", len(text),
			"error", embedErrString(err),
		)
		return nil, false
	}

	if e.cache != nil {
		e.cache.Set(ctx, text, vecs[0])
	}
	return vecs[0], true
}

func embedErrString(err error) string {
	if err == nil {
		return "empty embedding"
	}
	return err.Error()
}
