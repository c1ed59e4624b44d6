package recommend

import (
	"context"
	"testing"

	"github.com/seojin-dev/moodshift-backend/internal/catalog"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
)

func TestRankOrdersByDescendingScore(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{
		"a close":    {1, 0},
		"b opposite": {-1, 0},
		"c middling": {0, 1},
	}}
	candidates := []catalog.ContentItem{
		{Name: "b", Description: "opposite"},
		{Name: "c", Description: "middling"},
		{Name: "a", Description: "close"},
	}

	got := Rank(context.Background(), logger.NewNop(), emb, []float32{1, 0}, catalog.CategoryMeal, candidates, 3)
	if len(got) != 3 {
		t.Fatalf("item count: want=3 got=%d", len(got))
	}
	wantOrder := []string{"a", "c", "b"}
	for i, w := range wantOrder {
		if got[i].Item.Name != w {
			t.Fatalf("position %d: want=%s got=%s", i, w, got[i].Item.Name)
		}
	}
}

func TestRankFailedCandidateScoresZero(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{
		"known good": {1, 0},
	}}
	candidates := []catalog.ContentItem{
		{Name: "mystery", Description: "never embeds"},
		{Name: "known", Description: "good"},
	}

	got := Rank(context.Background(), logger.NewNop(), emb, []float32{1, 0}, catalog.CategoryMeal, candidates, 2)
	if got[0].Item.Name != "known" {
		t.Fatalf("top item: want=known got=%s", got[0].Item.Name)
	}
	if got[1].Item.Name != "mystery" || got[1].Score != 0 {
		t.Fatalf("failed candidate: want mystery with score 0, got=%v", got[1])
	}
}

func TestRankTiesKeepCatalogOrder(t *testing.T) {
	// All candidates fail to embed: every score is 0, order must hold.
	emb := &mapEmbedder{vectors: map[string][]float32{}}
	candidates := []catalog.ContentItem{
		{Name: "first"},
		{Name: "second"},
		{Name: "third"},
	}

	got := Rank(context.Background(), logger.NewNop(), emb, []float32{1, 0}, catalog.CategoryMeal, candidates, 3)
	for i, w := range []string{"first", "second", "third"} {
		if got[i].Item.Name != w {
			t.Fatalf("position %d: want=%s got=%s", i, w, got[i].Item.Name)
		}
	}
}

func TestRankWithoutUserVectorReturnsHead(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{}}
	candidates := []catalog.ContentItem{
		{Name: "first"},
		{Name: "second"},
		{Name: "third"},
	}

	got := Rank(context.Background(), logger.NewNop(), emb, nil, catalog.CategoryMeal, candidates, 2)
	if len(got) != 2 || got[0].Item.Name != "first" || got[1].Item.Name != "second" {
		t.Fatalf("unranked head: got=%v", got)
	}
}

func TestRankEmptyCandidates(t *testing.T) {
	got := Rank(context.Background(), logger.NewNop(), &mapEmbedder{}, []float32{1, 0}, catalog.CategoryBook, nil, 3)
	if len(got) != 0 {
		t.Fatalf("want empty result, got=%v", got)
	}
}

func TestRankTopKSmallerThanPool(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{
		"a close": {1, 0},
	}}
	candidates := []catalog.ContentItem{
		{Name: "b", Description: "unknown"},
		{Name: "a", Description: "close"},
	}

	got := Rank(context.Background(), logger.NewNop(), emb, []float32{1, 0}, catalog.CategoryMeal, candidates, 1)
	if len(got) != 1 || got[0].Item.Name != "a" {
		t.Fatalf("top-1: got=%v", got)
	}
}
