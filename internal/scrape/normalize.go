package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/recipedex/recipedex/internal/recipe"
)

// textValue extracts plain text from the value shapes schema.org markup
// uses in the wild: bare strings, numbers, lists, and typed wrappers
// like {"@value": "..."} or {"name": "..."}.
func textValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case []any:
		for _, item := range t {
			if s := textValue(item); s != "" {
				return s
			}
		}
	case map[string]any:
		for _, key := range []string{"@value", "text", "name"} {
			if s := textValue(t[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringList flattens a string-or-list value into trimmed entries,
// dropping empties.
func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range t {
			if s := textValue(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Instruction step shapes found in structured markup. The markup allows
// a plain string, an object carrying the step text, or a section that
// nests further steps; flattening recurses in document order.
type (
	// PlainStep is a bare instruction string.
	PlainStep string

	// StructuredStep is a HowToStep-like object with a text or name field.
	StructuredStep struct {
		Text string
		Name string
	}

	// StepSection is a HowToSection-like grouping of nested steps.
	StepSection struct {
		Name  string
		Steps []Instruction
	}
)

// Instruction is the tagged union over the three step shapes.
type Instruction interface {
	appendTo(dst []string) []string
}

func (p PlainStep) appendTo(dst []string) []string {
	if s := strings.TrimSpace(string(p)); s != "" {
		dst = append(dst, s)
	}
	return dst
}

func (s StructuredStep) appendTo(dst []string) []string {
	text := strings.TrimSpace(s.Text)
	if text == "" {
		text = strings.TrimSpace(s.Name)
	}
	if text != "" {
		dst = append(dst, text)
	}
	return dst
}

func (s StepSection) appendTo(dst []string) []string {
	for _, step := range s.Steps {
		dst = step.appendTo(dst)
	}
	return dst
}

// decodeInstructions parses a recipeInstructions value into the union.
func decodeInstructions(v any) []Instruction {
	switch t := v.(type) {
	case string:
		return []Instruction{PlainStep(t)}
	case []any:
		out := make([]Instruction, 0, len(t))
		for _, item := range t {
			if in := decodeInstruction(item); in != nil {
				out = append(out, in)
			}
		}
		return out
	case map[string]any:
		if in := decodeInstruction(t); in != nil {
			return []Instruction{in}
		}
	}
	return nil
}

func decodeInstruction(v any) Instruction {
	switch t := v.(type) {
	case string:
		return PlainStep(t)
	case map[string]any:
		if nested, ok := t["itemListElement"]; ok {
			return StepSection{
				Name:  textValue(t["name"]),
				Steps: decodeInstructions(nested),
			}
		}
		return StructuredStep{
			Text: textValue(t["text"]),
			Name: textValue(t["name"]),
		}
	}
	return nil
}

// FlattenInstructions concatenates a decoded instruction tree into the
// flat ordered step list the data model stores.
func FlattenInstructions(list []Instruction) []string {
	out := []string{}
	for _, in := range list {
		out = in.appendTo(out)
	}
	return out
}

// nutritionSynonyms maps the canonical nutrient keys to the markup
// field names that feed them. First alias present wins.
var nutritionSynonyms = []struct {
	key     string
	aliases []string
}{
	{"calories", []string{"calories"}},
	{"fat", []string{"fatContent", "totalFat", "fat"}},
	{"saturatedFat", []string{"saturatedFatContent", "saturatedFat"}},
	{"carbs", []string{"carbohydrateContent", "carbohydrates", "carbs"}},
	{"sugar", []string{"sugarContent", "sugar"}},
	{"fiber", []string{"fiberContent", "fiber"}},
	{"protein", []string{"proteinContent", "protein"}},
	{"sodium", []string{"sodiumContent", "sodium"}},
	{"cholesterol", []string{"cholesterolContent", "cholesterol"}},
}

// normalizeNutrition maps a structured nutrition node onto canonical keys.
func normalizeNutrition(v any) map[string]string {
	node, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := map[string]string{}
	for _, syn := range nutritionSynonyms {
		for _, alias := range syn.aliases {
			if s := textValue(node[alias]); s != "" {
				out[syn.key] = s
				break
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)

// FormatDuration turns an ISO-8601 PT#H#M duration into the short
// display form the catalog stores ("1h 30 min", "45 min", "2 hr").
// Anything that does not match passes through unchanged.
func FormatDuration(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	m := isoDurationRe.FindStringSubmatch(strings.ToUpper(raw))
	if m == nil || (m[1] == "" && m[2] == "") {
		return raw
	}
	hours, _ := recipe.ExtractInt(m[1])
	minutes, _ := recipe.ExtractInt(m[2])
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %d min", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%d hr", hours)
	default:
		return fmt.Sprintf("%d min", minutes)
	}
}

// parseServings extracts a serving count from a yield value, which may
// be a number, a compound string ("4 to 6 servings"), or a list.
func parseServings(v any) int {
	candidates := stringList(v)
	if s := textValue(v); s != "" && len(candidates) == 0 {
		candidates = []string{s}
	}
	for _, c := range candidates {
		if n, ok := recipe.ExtractInt(c); ok && n > 0 {
			return n
		}
	}
	return recipe.DefaultServings
}

// imageValue resolves an image field that may be a URL string, a list,
// or an ImageObject with a url field.
func imageValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if s := imageValue(item); s != "" {
				return s
			}
		}
	case map[string]any:
		if s := textValue(t["url"]); s != "" {
			return s
		}
	}
	return ""
}

// keywordTags derives display tags from a keywords field, which is
// either a comma-separated string or a list.
func keywordTags(v any) []string {
	var parts []string
	switch t := v.(type) {
	case string:
		parts = strings.Split(t, ",")
	case []any:
		for _, item := range t {
			if s := textValue(item); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return recipe.NormalizeTags(parts)
}
