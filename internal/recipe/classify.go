package recipe

import "strings"

// rule binds a category key to the keywords that select it. Rules are
// evaluated in order and the first hit wins, so specific cuisines and
// dish shapes must come before the broad ingredient rules: "chicken
// taco" is Mexican, not Meat.
type rule struct {
	key      string
	keywords []string
}

var classifyRules = []rule{
	{"mexican", []string{"taco", "burrito", "quesadilla", "enchilada", "fajita", "salsa", "tortilla", "mexican", "carnitas", "guacamole"}},
	{"asian", []string{"stir fry", "stir-fry", "ramen", "sushi", "teriyaki", "pad thai", "curry", "wok", "soy sauce", "noodle", "dumpling", "asian", "thai", "korean", "japanese", "chinese", "vietnamese"}},
	{"breakfast", []string{"pancake", "waffle", "omelet", "omelette", "french toast", "granola", "porridge", "oatmeal", "breakfast", "brunch", "scrambled egg"}},
	{"soup", []string{"soup", "stew", "chowder", "broth", "bisque", "goulash", "chili con", "casserole"}},
	{"salad", []string{"salad", "slaw", "coleslaw"}},
	{"pasta", []string{"pasta", "spaghetti", "lasagna", "lasagne", "penne", "tagliatelle", "fettuccine", "macaroni", "gnocchi", "ravioli", "risotto"}},
	{"dessert", []string{"dessert", "cake", "brownie", "cookie", "ice cream", "pudding", "cheesecake", "tart", " pie", "mousse", "chocolate"}},
	{"baking", []string{"bread", "bun", "roll", "dough", "sourdough", "muffin", "scone", "bagel", "baking", "loaf"}},
	{"drinks", []string{"smoothie", "cocktail", "lemonade", "juice", "latte", "drink", "shake", "punch"}},
	{"snack", []string{"snack", "dip", "hummus", "popcorn", "cracker", "energy ball", "granola bar"}},
	{"seafood", []string{"fish", "salmon", "shrimp", "prawn", "tuna", "cod", "crab", "lobster", "mussel", "scallop", "seafood", "anchovy"}},
	{"meat", []string{"chicken", "beef", "pork", "lamb", "steak", "bacon", "sausage", "turkey", "duck", "meatball", "ribs", "brisket"}},
	{"vegetarian", []string{"vegetarian", "vegan", "tofu", "lentil", "chickpea", "veggie", "plant-based"}},
}

// Classify assigns a taxonomy key from free recipe text. It is pure and
// total: the same inputs always yield the same key and unmatched text
// falls back to DefaultCategory.
func Classify(category, cuisine, name string, ingredients []string) string {
	text := strings.ToLower(category + " " + cuisine + " " + name + " " + strings.Join(ingredients, " "))
	for _, r := range classifyRules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.key
			}
		}
	}
	return DefaultCategory
}
