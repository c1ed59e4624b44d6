// Package catalog holds the static recommendation pool: a small curated set
// of books, music tracks, and meals keyed by emotion label and category.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is the closed set of recommendable content kinds.
type Category string

const (
	CategoryBook  Category = "book"
	CategoryMusic Category = "music"
	CategoryMeal  Category = "meal"
)

// Categories lists every valid category in a stable order.
func Categories() []Category {
	return []Category{CategoryBook, CategoryMusic, CategoryMeal}
}

// ParseCategory validates a raw category string.
func ParseCategory(raw string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryBook:
		return CategoryBook, nil
	case CategoryMusic:
		return CategoryMusic, nil
	case CategoryMeal:
		return CategoryMeal, nil
	}
	return "", fmt.Errorf("unknown category %q (want book, music or meal)", raw)
}

// ContentItem is one recommendable entry. Field usage depends on the
// category: books carry Title/Author, music carries Title/Artist, meals carry
// Name/Cuisine. Description is always present.
type ContentItem struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Artist      string `json:"artist,omitempty" yaml:"artist,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Cuisine     string `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
	Description string `json:"description" yaml:"description"`
}

// EmbeddingText builds the text fed to the embedding model for ranking.
// The field layout is category-specific so every informative field
// contributes to the vector.
func (it ContentItem) EmbeddingText(cat Category) string {
	switch cat {
	case CategoryBook:
		return strings.TrimSpace(it.Title + " " + it.Author + " " + it.Description)
	case CategoryMusic:
		return strings.TrimSpace(it.Title + " " + it.Artist + " " + it.Description)
	case CategoryMeal:
		return strings.TrimSpace(it.Name + " " + it.Description + " " + it.Cuisine)
	}
	return strings.TrimSpace(it.Description)
}

// DisplayName is the human-facing identifier for the item.
func (it ContentItem) DisplayName(cat Category) string {
	if cat == CategoryMeal {
		return it.Name
	}
	return it.Title
}

// Catalog is the full pool, keyed by category then emotion label.
type Catalog map[Category]map[string][]ContentItem

// Items returns the candidate pool for one emotion and category. A missing
// key yields an empty slice, never an error: an unknown emotion is a valid
// query with no candidates.
func (c Catalog) Items(emotion string, cat Category) []ContentItem {
	byEmotion, ok := c[cat]
	if !ok {
		return nil
	}
	return byEmotion[emotion]
}

// Emotions returns the emotion labels present for at least one category.
func (c Catalog) Emotions() []string {
	seen := map[string]bool{}
	var out []string
	for _, cat := range Categories() {
		for emotion := range c[cat] {
			if !seen[emotion] {
				seen[emotion] = true
				out = append(out, emotion)
			}
		}
	}
	return out
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML catalog bytes and validates the category keys.
func Parse(raw []byte) (Catalog, error) {
	var decoded map[string]map[string][]ContentItem
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	out := Catalog{}
	for rawCat, byEmotion := range decoded {
		cat, err := ParseCategory(rawCat)
		if err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		out[cat] = byEmotion
	}
	return out, nil
}
