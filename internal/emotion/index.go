package emotion

import (
	"fmt"

	"github.com/seojin-dev/moodshift-backend/internal/vecmath"
)

// Index is an exact inner-product index over a handful of emotion label
// embeddings. Vectors are stored L2-normalized, so inner product equals
// cosine similarity. The whole structure is immutable after construction and
// safe for concurrent reads.
type Index struct {
	dim    int
	labels []string
	vecs   [][]float32
}

// Match is one search result: the label, its row, and the cosine score.
type Match struct {
	Label string
	Row   int
	Score float64
}

// NewIndex builds an index from labels and their embeddings. Vectors are
// normalized on ingest; rows must all share dim.
func NewIndex(dim int, labels []string, vecs [][]float32) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("index: dim must be positive, got %d", dim)
	}
	if len(labels) != len(vecs) {
		return nil, fmt.Errorf("index: %d labels but %d vectors", len(labels), len(vecs))
	}
	normalized := make([][]float32, len(vecs))
	for i, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("index: row %d (%q) has dim %d, want %d", i, labels[i], len(v), dim)
		}
		normalized[i] = vecmath.NormalizeL2(v)
	}
	return &Index{
		dim:    dim,
		labels: append([]string(nil), labels...),
		vecs:   normalized,
	}, nil
}

// Dim returns the vector dimensionality.
func (ix *Index) Dim() int { return ix.dim }

// Len returns the number of indexed labels.
func (ix *Index) Len() int { return len(ix.labels) }

// Labels returns the indexed labels in row order.
func (ix *Index) Labels() []string {
	return append([]string(nil), ix.labels...)
}

func (ix *Index) checkQuery(query []float32) error {
	if len(ix.vecs) == 0 {
		return fmt.Errorf("index: empty")
	}
	if len(query) != ix.dim {
		return fmt.Errorf("index: query dim %d, want %d", len(query), ix.dim)
	}
	return nil
}

// Nearest returns the label whose embedding is most similar to query.
// On equal scores the earliest row wins.
func (ix *Index) Nearest(query []float32) (Match, error) {
	if err := ix.checkQuery(query); err != nil {
		return Match{}, err
	}
	q := vecmath.NormalizeL2(query)

	best := Match{Row: 0, Label: ix.labels[0], Score: vecmath.Dot(q, ix.vecs[0])}
	for i := 1; i < len(ix.vecs); i++ {
		if s := vecmath.Dot(q, ix.vecs[i]); s > best.Score {
			best = Match{Row: i, Label: ix.labels[i], Score: s}
		}
	}
	return best, nil
}

// Farthest returns the label whose embedding is least similar to query.
// On equal scores the latest row wins, matching a full descending scan that
// takes its tail element.
func (ix *Index) Farthest(query []float32) (Match, error) {
	if err := ix.checkQuery(query); err != nil {
		return Match{}, err
	}
	q := vecmath.NormalizeL2(query)

	worst := Match{Row: 0, Label: ix.labels[0], Score: vecmath.Dot(q, ix.vecs[0])}
	for i := 1; i < len(ix.vecs); i++ {
		if s := vecmath.Dot(q, ix.vecs[i]); s <= worst.Score {
			worst = Match{Row: i, Label: ix.labels[i], Score: s}
		}
	}
	return worst, nil
}
