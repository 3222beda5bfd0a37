package recipe

// Category describes one entry of the static taxonomy.
type Category struct {
	Key   string
	Label string
	Emoji string
	Color string
}

// DefaultCategory is returned by the classifier when nothing matches and
// backs the lookup fallback for unknown keys.
const DefaultCategory = "other"

// Categories is the ordered taxonomy. The order is the display order.
var Categories = []Category{
	{Key: "breakfast", Label: "Breakfast", Emoji: "\U0001F95E", Color: "#f6c453"},
	{Key: "soup", Label: "Soups & Stews", Emoji: "\U0001F372", Color: "#e07a5f"},
	{Key: "salad", Label: "Salads", Emoji: "\U0001F957", Color: "#81b29a"},
	{Key: "pasta", Label: "Pasta", Emoji: "\U0001F35D", Color: "#f2cc8f"},
	{Key: "mexican", Label: "Mexican", Emoji: "\U0001F32E", Color: "#d62828"},
	{Key: "asian", Label: "Asian", Emoji: "\U0001F35C", Color: "#b5179e"},
	{Key: "seafood", Label: "Seafood", Emoji: "\U0001F41F", Color: "#457b9d"},
	{Key: "meat", Label: "Meat & Poultry", Emoji: "\U0001F356", Color: "#9d4edd"},
	{Key: "vegetarian", Label: "Vegetarian", Emoji: "\U0001F966", Color: "#2d6a4f"},
	{Key: "dessert", Label: "Desserts", Emoji: "\U0001F370", Color: "#ff70a6"},
	{Key: "baking", Label: "Baking", Emoji: "\U0001F35E", Color: "#bc6c25"},
	{Key: "drinks", Label: "Drinks", Emoji: "\U0001F379", Color: "#00b4d8"},
	{Key: "snack", Label: "Snacks", Emoji: "\U0001F968", Color: "#ffb703"},
	{Key: DefaultCategory, Label: "Other", Emoji: "\U0001F37D", Color: "#8d99ae"},
}

var categoryIndex = func() map[string]Category {
	m := make(map[string]Category, len(Categories))
	for _, c := range Categories {
		m[c.Key] = c
	}
	return m
}()

// CategoryFor resolves a category key, falling back to the "other" entry.
// Unknown keys are tolerated, not rejected: a stored recipe may carry a
// category that predates or postdates this table.
func CategoryFor(key string) Category {
	if c, ok := categoryIndex[key]; ok {
		return c
	}
	return categoryIndex[DefaultCategory]
}
