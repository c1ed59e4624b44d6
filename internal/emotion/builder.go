package emotion

import (
	"context"
	"fmt"
	"strings"

	"github.com/seojin-dev/moodshift-backend/internal/catalog"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/platform/openai"
)

// MaxLabels caps the index size. The label set is a small closed vocabulary;
// anything larger suggests a misconfigured build input.
const MaxLabels = 10

// BuildResult summarizes one offline build.
type BuildResult struct {
	Dim    int
	Built  []string
	Failed []string
}

// Build embeds each emotion label, assembles the artifacts, and writes them
// into dir. Labels whose embedding call fails are skipped and reported in
// the result; the build only errors when nothing usable remains.
func Build(ctx context.Context, log *logger.Logger, oc openai.Client, labels []string, cat catalog.Catalog, dir string) (BuildResult, error) {
	var res BuildResult

	clean := make([]string, 0, len(labels))
	seen := map[string]bool{}
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		clean = append(clean, l)
	}
	if len(clean) == 0 {
		return res, fmt.Errorf("build: no labels given")
	}
	if len(clean) > MaxLabels {
		return res, fmt.Errorf("build: %d labels exceeds cap of %d", len(clean), MaxLabels)
	}

	var (
		kept []string
		vecs [][]float32
		dim  int
	)
	for _, label := range clean {
		embedded, err := oc.Embed(ctx, []string{label})
		if err != nil || len(embedded) != 1 || len(embedded[0]) == 0 {
			log.Warn("Label embedding failed; skipping",
				"label", label,
				"error", errString(err),
			)
			res.Failed = append(res.Failed, label)
			continue
		}
		vec := embedded[0]
		if dim == 0 {
			dim = len(vec)
		}
		if len(vec) != dim {
			log.Warn("Label embedding has inconsistent dimension; skipping",
				"label", label,
				"dim", len(vec),
				"want", dim,
			)
			res.Failed = append(res.Failed, label)
			continue
		}
		kept = append(kept, label)
		vecs = append(vecs, vec)
	}

	if len(kept) == 0 {
		return res, fmt.Errorf("build: every label embedding failed")
	}

	// Normalize through the index so the persisted rows match query-time
	// geometry exactly.
	idx, err := NewIndex(dim, kept, vecs)
	if err != nil {
		return res, err
	}
	if err := WriteArtifacts(dir, idx.dim, idx.vecs, Sidetable{Labels: kept, Catalog: cat}); err != nil {
		return res, err
	}

	res.Dim = dim
	res.Built = kept

	log.Info("Emotion index built",
		"dir", dir,
		"dim", dim,
		"labels", len(kept),
		"failed", len(res.Failed),
	)
	return res, nil
}

func errString(err error) string {
	if err == nil {
		return "empty embedding"
	}
	return err.Error()
}
