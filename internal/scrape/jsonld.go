package scrape

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/recipedex/recipedex/internal/recipe"
)

// extractStructured scans the document's embedded ld+json blocks for a
// schema.org Recipe node and normalizes the first one found. The result
// is accepted only when it has a name and at least one ingredient or
// step; malformed blocks are skipped, never fatal.
func extractStructured(doc *goquery.Document, pageURL string) (recipe.Recipe, bool) {
	var found recipe.Recipe
	accepted := false

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(sel.Text()), &raw); err != nil {
			return true
		}
		for _, node := range flattenNodes(raw) {
			if !isRecipeNode(node) {
				continue
			}
			rec := normalizeRecipeNode(node, pageURL)
			if rec.Name != "" && (len(rec.Ingredients) > 0 || len(rec.Steps) > 0) {
				found = rec
				accepted = true
				return false
			}
		}
		return true
	})

	return found, accepted
}

// flattenNodes unwraps top-level arrays and @graph node lists into a
// flat candidate list, preserving document order.
func flattenNodes(v any) []map[string]any {
	var out []map[string]any
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			out = append(out, flattenNodes(item)...)
		}
	case map[string]any:
		out = append(out, t)
		if graph, ok := t["@graph"]; ok {
			out = append(out, flattenNodes(graph)...)
		}
	}
	return out
}

// isRecipeNode matches declared types containing "recipe", case
// insensitively; @type may be a string or a list and is often compound.
func isRecipeNode(node map[string]any) bool {
	switch t := node["@type"].(type) {
	case string:
		return strings.Contains(strings.ToLower(t), "recipe")
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.Contains(strings.ToLower(s), "recipe") {
				return true
			}
		}
	}
	return false
}

// normalizeRecipeNode maps a raw Recipe node onto the canonical shape.
func normalizeRecipeNode(node map[string]any, pageURL string) recipe.Recipe {
	name := textValue(node["name"])

	ingredients := stringList(node["recipeIngredient"])
	if len(ingredients) == 0 {
		ingredients = stringList(node["ingredients"])
	}

	steps := FlattenInstructions(decodeInstructions(node["recipeInstructions"]))

	nutrition := normalizeNutrition(node["nutrition"])
	calories := 0
	if n, ok := recipe.ExtractInt(nutrition["calories"]); ok {
		calories = n
	}

	rec := recipe.Recipe{
		Name:        name,
		Category:    recipe.Classify(textValue(node["recipeCategory"]), textValue(node["recipeCuisine"]), name, ingredients),
		Calories:    calories,
		Servings:    parseServings(node["recipeYield"]),
		PrepTime:    FormatDuration(textValue(node["prepTime"])),
		CookTime:    FormatDuration(textValue(node["cookTime"])),
		TotalTime:   FormatDuration(textValue(node["totalTime"])),
		Source:      pageURL,
		Thumbnail:   imageValue(node["image"]),
		Ingredients: ingredients,
		Steps:       steps,
		Nutrition:   nutrition,
		Tags:        keywordTags(node["keywords"]),
		Notes:       textValue(node["description"]),
	}
	rec.Normalize()
	return rec
}
