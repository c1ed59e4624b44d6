// Package vecmath holds the small dense-vector kernels shared by the emotion
// index, the similarity ranker, and the embedding cache.
package vecmath

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Dot returns the inner product of a and b, accumulated in float64.
// Panics are avoided by treating length mismatch as the shorter prefix being
// the caller's problem; use CosineSimilarity for guarded comparisons.
func Dot(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// NormalizeL2 returns a unit-length copy of v. A zero vector is returned
// unchanged (as a copy) since it has no direction to preserve.
func NormalizeL2(v []float32) []float32 {
	out := make([]float32, len(v))
	n := Norm(v)
	if n == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths or a zero-magnitude vector yield exactly 0.0 rather
// than an error: callers rank with the result and a neutral score is the
// documented degradation for unusable vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2))
}

// EncodeVector encodes v as a little-endian float32 blob with no length
// prefix; the length is recovered from the blob size on decode.
func EncodeVector(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	b := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(x))
	}
	return b
}

// DecodeVector decodes a blob produced by EncodeVector.
func DecodeVector(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vecmath: invalid vector blob length %d (not a multiple of 4)", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}
