// Package recipe defines the core data model shared across subsystems.
package recipe

import (
	"strings"
	"time"
)

// MaxTags caps the number of tags a recipe may carry.
const MaxTags = 6

// DefaultServings is used when a recipe does not state a yield.
const DefaultServings = 4

// DateLayout is the stamp format for dateAdded/lastModified.
const DateLayout = "2006-01-02"

// Recipe is the central entity of the catalog.
//
// Ingredients may contain empty-string elements: those are deliberate
// visual separators and must be preserved through storage and export.
// Calories of 0 means "unknown", not zero calories. The top-level
// Calories field and the "calories" entry of Nutrition are kept in step
// by the normalization and update paths, not by an enforced invariant.
type Recipe struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	Emoji        string            `json:"emoji,omitempty"`
	Calories     int               `json:"calories"`
	Servings     int               `json:"servings"`
	PrepTime     string            `json:"prepTime,omitempty"`
	CookTime     string            `json:"cookTime,omitempty"`
	TotalTime    string            `json:"totalTime,omitempty"`
	Source       string            `json:"source,omitempty"`
	Thumbnail    string            `json:"thumbnail,omitempty"`
	Ingredients  []string          `json:"ingredients"`
	Steps        []string          `json:"steps"`
	Nutrition    map[string]string `json:"nutrition,omitempty"`
	Tags         []string          `json:"tags"`
	Ratings      map[string]int    `json:"ratings,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	DateAdded    string            `json:"dateAdded,omitempty"`
	LastModified string            `json:"lastModified,omitempty"`
}

// Collection is the canonical document synchronized with the remote store.
// Recipes keep insertion order; grouping and filtering are computed views.
type Collection struct {
	Version string   `json:"version"`
	Recipes []Recipe `json:"recipes"`
}

// Normalize repairs the invariants that JSON decoding can break:
// list fields are never nil, servings is positive, tags are lowercase,
// deduplicated and capped, and ratings are clamped into [0,10].
func (r *Recipe) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	if r.Servings <= 0 {
		r.Servings = DefaultServings
	}
	if r.Calories < 0 {
		r.Calories = 0
	}
	r.Tags = NormalizeTags(r.Tags)
	for k, v := range r.Ratings {
		if v < 0 {
			r.Ratings[k] = 0
		} else if v > 10 {
			r.Ratings[k] = 10
		}
	}
}

// IsLinkOut reports whether the recipe is a bookmark to its source:
// no stored ingredients, no steps, and a present origin URL.
// This is derived at read time and never persisted.
func (r Recipe) IsLinkOut() bool {
	return len(r.Ingredients) == 0 && len(r.Steps) == 0 && r.Source != ""
}

// DisplayEmoji returns the recipe's glyph, falling back to its
// category default.
func (r Recipe) DisplayEmoji() string {
	if r.Emoji != "" {
		return r.Emoji
	}
	return CategoryFor(r.Category).Emoji
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append([]string{}, r.Ingredients...)
	out.Steps = append([]string{}, r.Steps...)
	out.Tags = append([]string{}, r.Tags...)
	if r.Nutrition != nil {
		out.Nutrition = make(map[string]string, len(r.Nutrition))
		for k, v := range r.Nutrition {
			out.Nutrition[k] = v
		}
	}
	if r.Ratings != nil {
		out.Ratings = make(map[string]int, len(r.Ratings))
		for k, v := range r.Ratings {
			out.Ratings[k] = v
		}
	}
	return out
}

// NormalizeTags lower-cases, trims, deduplicates and caps a tag list.
// Order of first appearance is kept.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// Stamp formats t the way dateAdded/lastModified are stored.
func Stamp(t time.Time) string {
	return t.Format(DateLayout)
}
