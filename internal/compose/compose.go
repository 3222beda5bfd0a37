// Package compose renders a recipe as a standalone HTML page.
package compose

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/recipedex/recipedex/internal/recipe"
)

var pageTemplate = template.Must(template.New("recipe").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Emoji}} {{.Name}}</title>
</head>
<body>
<article class="recipe">
<header>
<h1><span class="emoji">{{.Emoji}}</span> {{.Name}}</h1>
<p class="category">{{.CategoryLabel}}</p>
{{if .Meta}}<p class="meta">{{range $i, $m := .Meta}}{{if $i}} &middot; {{end}}{{$m}}{{end}}</p>{{end}}
</header>
{{if .LinkOut}}
<section class="bookmark">
<p>This recipe lives at its source:</p>
<p><a href="{{.Source}}" rel="noopener">{{.Source}}</a></p>
{{if .Notes}}<p class="notes">{{.Notes}}</p>{{end}}
</section>
{{else}}
{{if .Thumbnail}}<img src="{{.Thumbnail}}" alt="{{.Name}}">{{end}}
{{if .Ingredients}}
<section class="ingredients">
<h2>Ingredients</h2>
<ul>
{{range .Ingredients}}{{if .Spacer}}<li class="spacer" aria-hidden="true"></li>
{{else}}<li>{{.Text}}</li>
{{end}}{{end}}</ul>
</section>
{{end}}
{{if .Steps}}
<section class="steps">
<h2>Steps</h2>
<ol>
{{range .Steps}}<li>{{.}}</li>
{{end}}</ol>
</section>
{{end}}
{{if .Nutrition}}
<section class="nutrition">
<h2>Nutrition</h2>
<dl>
{{range .Nutrition}}<dt>{{.Key}}</dt><dd>{{.Value}}</dd>
{{end}}</dl>
</section>
{{end}}
{{if .Notes}}<section class="notes"><h2>Notes</h2><p>{{.Notes}}</p></section>{{end}}
{{if .Source}}<footer><a href="{{.Source}}" rel="noopener">Source</a></footer>{{end}}
{{end}}
</article>
</body>
</html>
`))

type ingredientView struct {
	Text   string
	Spacer bool
}

type nutritionView struct {
	Key   string
	Value string
}

type pageView struct {
	Name          string
	Emoji         string
	CategoryLabel string
	Meta          []string
	LinkOut       bool
	Source        string
	Thumbnail     string
	Ingredients   []ingredientView
	Steps         []string
	Nutrition     []nutritionView
	Notes         string
}

// Render produces a self-contained HTML document for the recipe.
// Empty-string ingredients are rendered as visual spacing, preserving
// the author's grouping. Link-out records render a bookmark card
// pointing at the source instead of a full page.
func Render(r recipe.Recipe) (string, error) {
	view := pageView{
		Name:          r.Name,
		Emoji:         r.DisplayEmoji(),
		CategoryLabel: recipe.CategoryFor(r.Category).Label,
		LinkOut:       r.IsLinkOut(),
		Source:        r.Source,
		Thumbnail:     r.Thumbnail,
		Steps:         r.Steps,
		Notes:         r.Notes,
	}

	if r.PrepTime != "" {
		view.Meta = append(view.Meta, "Prep "+r.PrepTime)
	}
	if r.CookTime != "" {
		view.Meta = append(view.Meta, "Cook "+r.CookTime)
	}
	if r.TotalTime != "" {
		view.Meta = append(view.Meta, "Total "+r.TotalTime)
	}
	if r.Servings > 0 {
		view.Meta = append(view.Meta, fmt.Sprintf("Serves %d", r.Servings))
	}
	if r.Calories > 0 {
		view.Meta = append(view.Meta, fmt.Sprintf("%d kcal", r.Calories))
	}

	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing) == "" {
			view.Ingredients = append(view.Ingredients, ingredientView{Spacer: true})
		} else {
			view.Ingredients = append(view.Ingredients, ingredientView{Text: ing})
		}
	}

	// Calories first when present, the rest in insertion-independent
	// sorted order so output is stable.
	if len(r.Nutrition) > 0 {
		if v, ok := r.Nutrition["calories"]; ok {
			view.Nutrition = append(view.Nutrition, nutritionView{Key: "calories", Value: v})
		}
		keys := make([]string, 0, len(r.Nutrition))
		for k := range r.Nutrition {
			if k != "calories" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			view.Nutrition = append(view.Nutrition, nutritionView{Key: k, Value: r.Nutrition[k]})
		}
	}

	var b strings.Builder
	if err := pageTemplate.Execute(&b, view); err != nil {
		return "", fmt.Errorf("rendering recipe page: %w", err)
	}
	return b.String(), nil
}
