package emotion

import (
	"context"
	"fmt"
	"testing"

	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
)

type fakeOpenAI struct {
	vectors map[string][]float32
	failOn  map[string]bool
}

func (f *fakeOpenAI) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		if f.failOn[in] {
			return nil, fmt.Errorf("embedding backend down for %q", in)
		}
		out[i] = f.vectors[in]
	}
	return out, nil
}

func (f *fakeOpenAI) GenerateText(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func TestBuildWritesLoadableArtifacts(t *testing.T) {
	dir := t.TempDir()
	oc := &fakeOpenAI{vectors: map[string][]float32{
		"joy":     {1, 0},
		"sadness": {0, 1},
	}}

	res, err := Build(context.Background(), logger.NewNop(), oc, []string{"Joy", "sadness", "joy"}, sampleCatalog(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Dim != 2 {
		t.Fatalf("dim: want=2 got=%d", res.Dim)
	}
	if len(res.Built) != 2 || res.Built[0] != "joy" || res.Built[1] != "sadness" {
		t.Fatalf("built labels (deduped, lowercased): got=%v", res.Built)
	}
	if len(res.Failed) != 0 {
		t.Fatalf("no failures expected, got=%v", res.Failed)
	}

	ix, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after Build: %v", err)
	}
	if ix.Len() != 2 {
		t.Fatalf("loaded label count: want=2 got=%d", ix.Len())
	}
}

func TestBuildSkipsFailedLabels(t *testing.T) {
	dir := t.TempDir()
	oc := &fakeOpenAI{
		vectors: map[string][]float32{"joy": {1, 0}},
		failOn:  map[string]bool{"sadness": true},
	}

	res, err := Build(context.Background(), logger.NewNop(), oc, []string{"joy", "sadness"}, sampleCatalog(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Built) != 1 || res.Built[0] != "joy" {
		t.Fatalf("built: got=%v", res.Built)
	}
	if len(res.Failed) != 1 || res.Failed[0] != "sadness" {
		t.Fatalf("failed: got=%v", res.Failed)
	}
}

func TestBuildFailsWhenNothingEmbeds(t *testing.T) {
	oc := &fakeOpenAI{failOn: map[string]bool{"joy": true}}
	if _, err := Build(context.Background(), logger.NewNop(), oc, []string{"joy"}, sampleCatalog(), t.TempDir()); err == nil {
		t.Fatalf("expected error when every label fails")
	}
}

func TestBuildEnforcesLabelCap(t *testing.T) {
	labels := make([]string, MaxLabels+1)
	for i := range labels {
		labels[i] = fmt.Sprintf("label%d", i)
	}
	oc := &fakeOpenAI{vectors: map[string][]float32{}}
	if _, err := Build(context.Background(), logger.NewNop(), oc, labels, sampleCatalog(), t.TempDir()); err == nil {
		t.Fatalf("expected error above the label cap")
	}
}
