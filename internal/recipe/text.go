package recipe

import (
	"regexp"
	"strconv"
)

var intRe = regexp.MustCompile(`\d+`)

// ExtractInt returns the first integer token found in s.
// Used to coerce free-form values like "240 kcal" or "4-6 servings".
func ExtractInt(s string) (int, bool) {
	m := intRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
