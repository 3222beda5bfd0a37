package recipe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyKeywordPriority(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		category    string
		cuisine     string
		dish        string
		ingredients []string
		want        string
	}{
		{name: "taco is mexican", dish: "Street Tacos", want: "mexican"},
		{name: "chicken alone is meat", dish: "Roast Chicken", want: "meat"},
		{name: "chicken taco stays mexican", dish: "Chicken Tacos", want: "mexican"},
		{name: "declared category wins via keywords", category: "Dessert", dish: "Surprise", want: "dessert"},
		{name: "cuisine drives asian", cuisine: "Japanese", dish: "Bowl", want: "asian"},
		{name: "ingredient match", dish: "Weeknight Dinner", ingredients: []string{"400g spaghetti", "olive oil"}, want: "pasta"},
		{name: "casserole checked before broad meat rule", dish: "Chicken Casserole", want: "soup"},
		{name: "empty input falls back", want: DefaultCategory},
		{name: "no match falls back", dish: "Mystery Plate", want: DefaultCategory},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tc.category, tc.cuisine, tc.dish, tc.ingredients)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	t.Parallel()

	first := Classify("", "Tex-Mex", "Loaded Nachos", []string{"tortilla chips"})
	for range 25 {
		require.Equal(t, first, Classify("", "Tex-Mex", "Loaded Nachos", []string{"tortilla chips"}))
	}
}

func TestCategoryForUnknownKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Other", CategoryFor("definitely-not-a-key").Label)
	require.Equal(t, "Mexican", CategoryFor("mexican").Label)
}
