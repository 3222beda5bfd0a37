package recipe

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeRepairsNilSlices(t *testing.T) {
	t.Parallel()

	var r Recipe
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Toast"}`), &r))
	r.Normalize()

	require.NotNil(t, r.Ingredients)
	require.NotNil(t, r.Steps)
	require.NotNil(t, r.Tags)
	require.Empty(t, r.Ingredients)
	require.Equal(t, DefaultServings, r.Servings)
}

func TestNormalizeClampsRatingsAndCalories(t *testing.T) {
	t.Parallel()

	r := Recipe{
		Calories: -20,
		Ratings:  map[string]int{"alex": 14, "sam": -1},
	}
	r.Normalize()

	require.Equal(t, 0, r.Calories)
	require.Equal(t, 10, r.Ratings["alex"])
	require.Equal(t, 0, r.Ratings["sam"])
}

func TestNormalizeTagsDedupeAndCap(t *testing.T) {
	t.Parallel()

	tags := NormalizeTags([]string{"Quick", "quick", " DINNER ", "", "a", "b", "c", "d", "e"})
	require.Equal(t, []string{"quick", "dinner", "a", "b", "c", "d"}, tags)
	require.Len(t, tags, MaxTags)
}

func TestIsLinkOut(t *testing.T) {
	t.Parallel()

	link := Recipe{Source: "https://example.com/pasta", Ingredients: []string{}, Steps: []string{}}
	require.True(t, link.IsLinkOut())

	withIngredient := Recipe{Source: "https://example.com/pasta", Ingredients: []string{"flour"}}
	require.False(t, withIngredient.IsLinkOut())

	withStep := Recipe{Source: "https://example.com/pasta", Steps: []string{"boil"}}
	require.False(t, withStep.IsLinkOut())

	noSource := Recipe{}
	require.False(t, noSource.IsLinkOut())
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	orig := Recipe{
		Name:        "Soup",
		Ingredients: []string{"water", "", "salt"},
		Nutrition:   map[string]string{"calories": "120"},
	}
	clone := orig.Clone()
	clone.Ingredients[0] = "broth"
	clone.Nutrition["calories"] = "999"

	require.Equal(t, "water", orig.Ingredients[0])
	require.Equal(t, "120", orig.Nutrition["calories"])
}

func TestSeparatorIngredientsSurviveRoundTrip(t *testing.T) {
	t.Parallel()

	r := Recipe{Name: "Layered Dip", Ingredients: []string{"beans", "", "cheese"}}
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var back Recipe
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, []string{"beans", "", "cheese"}, back.Ingredients)
}

func TestDisplayEmojiFallsBackToCategory(t *testing.T) {
	t.Parallel()

	require.Equal(t, "\U0001F35D", Recipe{Category: "pasta"}.DisplayEmoji())
	require.Equal(t, "\U0001F9C1", Recipe{Category: "pasta", Emoji: "\U0001F9C1"}.DisplayEmoji())
}

func TestStamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2026-08-24", Stamp(time.Date(2026, 8, 24, 13, 0, 0, 0, time.UTC)))
}
