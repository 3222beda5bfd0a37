// Package seed embeds the bundled empty collection document. It is the
// last resort of the load chain, used when both the remote document and
// the local snapshot are unavailable.
package seed

import (
	"encoding/json"

	_ "embed"

	"github.com/recipedex/recipedex/internal/recipe"
)

//go:embed seed.json
var raw []byte

// Collection returns a fresh copy of the seed document.
func Collection() recipe.Collection {
	var col recipe.Collection
	if err := json.Unmarshal(raw, &col); err != nil {
		return recipe.Collection{Version: "1", Recipes: []recipe.Recipe{}}
	}
	if col.Recipes == nil {
		col.Recipes = []recipe.Recipe{}
	}
	return col
}
