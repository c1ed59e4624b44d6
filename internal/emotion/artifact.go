// Package emotion implements the tiny exact-search vector index over emotion
// label embeddings, plus the on-disk artifact pair it is built from and
// loaded out of.
package emotion

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/seojin-dev/moodshift-backend/internal/catalog"
)

const (
	// IndexFileName is the numeric blob: header + row-major float32 vectors.
	IndexFileName = "emotion_index.bin"
	// SidetableFileName is the JSON side-table: ordered labels + catalog.
	SidetableFileName = "emotion_sidetable.json"

	indexMagic   = "EMIX"
	indexVersion = uint32(1)
)

// Sidetable is the JSON companion of the numeric index. Label order must
// match the vector row order in the blob.
type Sidetable struct {
	Labels  []string        `json:"labels"`
	Catalog catalog.Catalog `json:"catalog"`
}

// encodeIndexBlob lays out the numeric file:
//
//	[0:4)   magic "EMIX"
//	[4:8)   version, uint32 LE
//	[8:12)  dim, uint32 LE
//	[12:16) count, uint32 LE
//	then count*dim float32 LE values, row-major.
func encodeIndexBlob(dim int, vecs [][]float32) ([]byte, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("encode index: dim must be positive, got %d", dim)
	}
	for i, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("encode index: row %d has dim %d, want %d", i, len(v), dim)
		}
	}

	out := make([]byte, 16+len(vecs)*dim*4)
	copy(out[0:4], indexMagic)
	binary.LittleEndian.PutUint32(out[4:8], indexVersion)
	binary.LittleEndian.PutUint32(out[8:12], uint32(dim))
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(vecs)))

	off := 16
	for _, v := range vecs {
		for _, x := range v {
			binary.LittleEndian.PutUint32(out[off:], math.Float32bits(x))
			off += 4
		}
	}
	return out, nil
}

func decodeIndexBlob(raw []byte) (dim int, vecs [][]float32, err error) {
	if len(raw) < 16 {
		return 0, nil, fmt.Errorf("decode index: blob too short (%d bytes)", len(raw))
	}
	if string(raw[0:4]) != indexMagic {
		return 0, nil, fmt.Errorf("decode index: bad magic %q", string(raw[0:4]))
	}
	if v := binary.LittleEndian.Uint32(raw[4:8]); v != indexVersion {
		return 0, nil, fmt.Errorf("decode index: unsupported version %d", v)
	}

	dim = int(binary.LittleEndian.Uint32(raw[8:12]))
	count := int(binary.LittleEndian.Uint32(raw[12:16]))
	if dim <= 0 {
		return 0, nil, fmt.Errorf("decode index: invalid dim %d", dim)
	}
	want := 16 + count*dim*4
	if len(raw) != want {
		return 0, nil, fmt.Errorf("decode index: blob length %d, want %d for dim=%d count=%d", len(raw), want, dim, count)
	}

	vecs = make([][]float32, count)
	off := 16
	for i := range vecs {
		row := make([]float32, dim)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
			off += 4
		}
		vecs[i] = row
	}
	return dim, vecs, nil
}

// writeFileAtomic writes via a temp file in the same directory and renames
// into place, so readers never observe a partially written artifact.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// WriteArtifacts persists the index blob and side-table into dir.
func WriteArtifacts(dir string, dim int, vecs [][]float32, side Sidetable) error {
	if len(side.Labels) != len(vecs) {
		return fmt.Errorf("write artifacts: %d labels but %d vectors", len(side.Labels), len(vecs))
	}

	blob, err := encodeIndexBlob(dim, vecs)
	if err != nil {
		return err
	}
	sideRaw, err := json.MarshalIndent(side, "", "  ")
	if err != nil {
		return fmt.Errorf("write artifacts: marshal side-table: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(dir, IndexFileName), blob); err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, SidetableFileName), sideRaw); err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}
	return nil
}

// Load reads both artifacts from dir, cross-checks them, and returns the
// ready-to-query index plus the catalog. Any missing or inconsistent
// artifact is an error; callers decide how to degrade.
func Load(dir string) (*Index, catalog.Catalog, error) {
	blob, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("load index: %w", err)
	}
	dim, vecs, err := decodeIndexBlob(blob)
	if err != nil {
		return nil, nil, fmt.Errorf("load index: %w", err)
	}

	sideRaw, err := os.ReadFile(filepath.Join(dir, SidetableFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("load side-table: %w", err)
	}
	var side Sidetable
	if err := json.Unmarshal(sideRaw, &side); err != nil {
		return nil, nil, fmt.Errorf("load side-table: %w", err)
	}

	if len(side.Labels) != len(vecs) {
		return nil, nil, fmt.Errorf("load artifacts: side-table has %d labels but index has %d vectors", len(side.Labels), len(vecs))
	}

	idx, err := NewIndex(dim, side.Labels, vecs)
	if err != nil {
		return nil, nil, err
	}
	return idx, side.Catalog, nil
}
