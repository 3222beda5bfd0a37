package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/recipedex/recipedex/internal/recipe"
)

// ingredientSelectors and stepSelectors cover the common DOM
// conventions of recipe sites that lack structured markup. Microdata
// properties first, class-name guesses after.
var (
	ingredientSelectors = []string{
		`[itemprop="recipeIngredient"]`,
		`[itemprop="ingredients"]`,
		`[class*="ingredient"] li`,
	}
	stepSelectors = []string{
		`[itemprop="recipeInstructions"] li`,
		`[itemprop="recipeInstructions"]`,
		`[class*="instruction"] li`,
		`[class*="direction"] li`,
		`[class*="step"] li`,
	}
)

// extractHeuristic is the fallback stage: meta tags for identity,
// markup-convention selectors for ingredients and steps. The unknown-name
// literal keeps the stage total, so a fetched page always yields a draft.
func extractHeuristic(doc *goquery.Document, pageURL string) (recipe.Recipe, bool) {
	name := metaContent(doc, `meta[property="og:title"]`)
	if name == "" {
		name = cleanText(doc.Find("h1").First().Text())
	}
	if name == "" {
		name = "Unknown Recipe"
	}

	description := metaContent(doc, `meta[property="og:description"]`)
	if description == "" {
		description = metaContent(doc, `meta[name="description"]`)
	}

	ingredients := collectText(doc, ingredientSelectors, 80)
	steps := collectText(doc, stepSelectors, 40)

	if name == "" && len(ingredients) == 0 {
		return recipe.Recipe{}, false
	}

	rec := recipe.Recipe{
		Name:        name,
		Category:    recipe.Classify("", "", name, ingredients),
		Source:      pageURL,
		Thumbnail:   metaContent(doc, `meta[property="og:image"]`),
		Ingredients: ingredients,
		Steps:       steps,
		Notes:       description,
	}
	rec.Normalize()
	return rec, true
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// collectText gathers element text for the first selector that yields
// anything, deduplicating and capping the result. Mixing selectors
// would interleave duplicate markup variants of the same list.
func collectText(doc *goquery.Document, selectors []string, limit int) []string {
	for _, selector := range selectors {
		var out []string
		seen := map[string]struct{}{}
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := cleanText(sel.Text())
			if text == "" || len(text) > 300 {
				return
			}
			if _, dup := seen[text]; dup {
				return
			}
			seen[text] = struct{}{}
			if len(out) < limit {
				out = append(out, text)
			}
		})
		if len(out) > 0 {
			return out
		}
	}
	return []string{}
}

// cleanText collapses runs of whitespace, including newlines inside
// nested markup, into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
