package vecmath

import (
	"math"
	"testing"
)

func TestNormalizeL2UnitLength(t *testing.T) {
	v := NormalizeL2([]float32{3, 4})
	if got := Norm(v); math.Abs(got-1.0) > 1e-6 {
		t.Fatalf("norm after normalize: want=1.0 got=%v", got)
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Fatalf("normalized components: want=[0.6 0.8] got=%v", v)
	}
}

func TestNormalizeL2ZeroVector(t *testing.T) {
	in := []float32{0, 0, 0}
	out := NormalizeL2(in)
	if len(out) != 3 {
		t.Fatalf("length: want=3 got=%d", len(out))
	}
	for i, x := range out {
		if x != 0 {
			t.Fatalf("component %d: want=0 got=%v", i, x)
		}
	}
}

func TestCosineSimilarityBounds(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"zero a", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"zero b", []float32{1, 1}, []float32{0, 0}, 0.0},
		{"length mismatch", []float32{1, 1}, []float32{1}, 0.0},
		{"empty", nil, nil, 0.0},
	}
	for _, tc := range cases {
		got := CosineSimilarity(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
		if got < -1.0-1e-9 || got > 1.0+1e-9 {
			t.Fatalf("%s: similarity out of [-1,1]: %v", tc.name, got)
		}
	}
}

func TestEncodeDecodeVectorRoundTrip(t *testing.T) {
	in := []float32{0.25, -1.5, 3.75, 0}
	blob := EncodeVector(in)
	if len(blob) != len(in)*4 {
		t.Fatalf("blob length: want=%d got=%d", len(in)*4, len(blob))
	}
	out, err := DecodeVector(blob)
	if err != nil {
		t.Fatalf("DecodeVector: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("decoded length: want=%d got=%d", len(in), len(out))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("component %d: want=%v got=%v", i, in[i], out[i])
		}
	}
}

func TestDecodeVectorRejectsRaggedBlob(t *testing.T) {
	if _, err := DecodeVector([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for blob length not a multiple of 4")
	}
}
