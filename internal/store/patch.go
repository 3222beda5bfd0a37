package store

import "github.com/recipedex/recipedex/internal/recipe"

// Patch is a shallow field-replacement update: every non-nil field
// replaces the stored value wholesale. List and map fields are swapped,
// not deep-merged.
type Patch struct {
	Name        *string            `json:"name,omitempty"`
	Category    *string            `json:"category,omitempty"`
	Emoji       *string            `json:"emoji,omitempty"`
	Calories    *int               `json:"calories,omitempty"`
	Servings    *int               `json:"servings,omitempty"`
	PrepTime    *string            `json:"prepTime,omitempty"`
	CookTime    *string            `json:"cookTime,omitempty"`
	TotalTime   *string            `json:"totalTime,omitempty"`
	Source      *string            `json:"source,omitempty"`
	Thumbnail   *string            `json:"thumbnail,omitempty"`
	Ingredients *[]string          `json:"ingredients,omitempty"`
	Steps       *[]string          `json:"steps,omitempty"`
	Nutrition   *map[string]string `json:"nutrition,omitempty"`
	Tags        *[]string          `json:"tags,omitempty"`
	Ratings     *map[string]int    `json:"ratings,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

func (p Patch) apply(r *recipe.Recipe) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Emoji != nil {
		r.Emoji = *p.Emoji
	}
	if p.Calories != nil {
		r.Calories = *p.Calories
	}
	if p.Servings != nil {
		r.Servings = *p.Servings
	}
	if p.PrepTime != nil {
		r.PrepTime = *p.PrepTime
	}
	if p.CookTime != nil {
		r.CookTime = *p.CookTime
	}
	if p.TotalTime != nil {
		r.TotalTime = *p.TotalTime
	}
	if p.Source != nil {
		r.Source = *p.Source
	}
	if p.Thumbnail != nil {
		r.Thumbnail = *p.Thumbnail
	}
	if p.Ingredients != nil {
		r.Ingredients = *p.Ingredients
	}
	if p.Steps != nil {
		r.Steps = *p.Steps
	}
	if p.Nutrition != nil {
		r.Nutrition = *p.Nutrition
		// Keep the two calorie copies in step when the caller swaps
		// the nutrition map without touching the top-level field.
		if p.Calories == nil {
			if n, ok := recipe.ExtractInt(r.Nutrition["calories"]); ok {
				r.Calories = n
			}
		}
	}
	if p.Tags != nil {
		r.Tags = *p.Tags
	}
	if p.Ratings != nil {
		r.Ratings = *p.Ratings
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
}
