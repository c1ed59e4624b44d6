package recommend

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/seojin-dev/moodshift-backend/internal/catalog"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/vecmath"
)

// DefaultTopK is how many items a recommendation returns when the caller
// does not ask for a specific count.
const DefaultTopK = 3

// embedConcurrency bounds parallel candidate embedding calls.
const embedConcurrency = 4

// RankedItem is one scored catalog entry.
type RankedItem struct {
	Item  catalog.ContentItem `json:"item"`
	Score float64             `json:"score"`
}

// Rank scores candidates by cosine similarity to userVec and returns the
// top K, highest first. Candidates whose embedding fails score 0.0. Ties
// keep catalog order (stable sort). When userVec is unusable the first K
// candidates come back unranked with zero scores.
func Rank(ctx context.Context, log *logger.Logger, emb Embedder, userVec []float32, cat catalog.Category, candidates []catalog.ContentItem, topK int) []RankedItem {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(candidates) == 0 {
		return []RankedItem{}
	}

	out := make([]RankedItem, len(candidates))
	for i, it := range candidates {
		out[i] = RankedItem{Item: it}
	}

	if len(userVec) == 0 {
		log.Warn("User embedding unavailable; returning unranked head",
			"category", string(cat),
			"candidates", len(candidates),
			"top_k", topK,
		)
		return truncate(out, topK)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i := range candidates {
		g.Go(func() error {
			vec, ok := emb.Embed(gctx, candidates[i].EmbeddingText(cat))
			if !ok {
				return nil
			}
			out[i].Score = vecmath.CosineSimilarity(userVec, vec)
			return nil
		})
	}
	// Workers never return errors; failures already scored 0.0.
	_ = g.Wait()

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	return truncate(out, topK)
}

func truncate(items []RankedItem, topK int) []RankedItem {
	if len(items) > topK {
		return items[:topK]
	}
	return items
}
