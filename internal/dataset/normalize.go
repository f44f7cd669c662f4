// Package dataset loads a recipe CSV into the pantry database.
package dataset

import (
	"regexp"
	"strings"
)

const minIngredientLength = 3

const (
	CategoryQuick = "Quick Kitchen"
	CategoryAll   = "All"
)

var (
	parenthesesRX = regexp.MustCompile(`\(.*?\)`)
	quantityRX    = regexp.MustCompile(`^(\d+/\d+|\d+-\d+|\d+\.\d+|\d+)\s*`)
	nonLetterRX   = regexp.MustCompile(`[^a-z\s]`)
	spacesRX      = regexp.MustCompile(`\s+`)
	digitsRX      = regexp.MustCompile(`^\d+$`)

	descriptiveRXs = compileAll(
		`^a few\s+`, `^a small\s+`, `^a sprig\s+`, `^a pinch\s+`, `^a bunch\s+`,
		`^some\s+`, `^any\s+`, `^about\s+`, `^optional\s+`, `^additional\s+`,
		`^alternative\s+`, `^for the\s+`, `^for garnish\s+`, `^for frying\s+`,
		`^as required\s+`, `^as needed\s+`, `^soaked in\s+`, `^dissolved in\s+`,
		`^peeled and\s+`, `^washed and\s+`, `^roughly\s+`, `^finely\s+`,
		`^chopped\s+`, `^grated\s+`, `^minced\s+`, `^crushed\s+`, `^sliced\s+`,
		`^mashed\s+`, `^boiled\s+`, `^roasted\s+`, `^dried\s+`, `^fresh\s+`,
		`^and\s+`, `^or\s+`, `^with\s+`, `^into\s+`, `^to\s+`,
		`\s+chopped$`, `\s+peeled$`, `\s+grated$`, `\s+mashed$`, `\s+boiled$`,
		`\s+pieces$`, `\s+fillet$`, `\s+chunks$`, `\s+strips$`, `\s+garnish$`,
		`\bof\b`, `\band\b`,
	)

	unitRXs = compileWords(
		"cup", "cups", "tablespoon", "tablespoons", "teaspoon", "teaspoons",
		"tbsp", "tsp", "gram", "grams", "kg", "ml", "litre", "liter",
		"strands", "sprigs", "size", "sized", "ball", "half", "quarter",
		"extra", "more", "divided", "pinch", "bunch", "drop", "bit", "leaf", "leaves",
	)

	junkPhrases = []string{
		"a few", "a sprig", "a small", "a bit", "a drop", "as required", "to taste",
		"in addition to the potatoes", "following ingredients", "you could use the",
	}

	// commonIngredients mark an ingredient as a staple of the quick kitchen.
	commonIngredients = []string{
		"onion", "potato", "tomato", "ginger", "garlic", "green chili",
		"coriander leaves", "cumin seeds", "mustard seeds", "turmeric powder",
		"red chili powder", "garam masala", "salt", "oil", "ghee",
		"atta", "flour", "rice", "dal", "milk", "curd", "paneer", "lemon",
		"sugar", "black pepper", "curry leaves", "hing",
	}
)

func compileAll(patterns ...string) []*regexp.Regexp {
	rxs := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		rxs = append(rxs, regexp.MustCompile(p))
	}
	return rxs
}

func compileWords(words ...string) []*regexp.Regexp {
	rxs := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		rxs = append(rxs, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return rxs
}

// Normalize reduces a free-text ingredient line to a bare ingredient name. It reports false when
// nothing usable is left.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimSpace(parenthesesRX.ReplaceAllString(s, ""))

	for _, rx := range descriptiveRXs {
		s = strings.TrimSpace(rx.ReplaceAllString(s, ""))
	}

	s = quantityRX.ReplaceAllString(s, "")

	for _, rx := range unitRXs {
		s = strings.TrimSpace(rx.ReplaceAllString(s, ""))
	}

	s = nonLetterRX.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spacesRX.ReplaceAllString(s, " "))

	for _, phrase := range junkPhrases {
		if strings.Contains(s, phrase) {
			s = strings.TrimSpace(strings.ReplaceAll(s, phrase, ""))
		}
	}

	if s == "" || digitsRX.MatchString(s) || len(s) < minIngredientLength {
		return "", false
	}

	return s, true
}

// Categorize files an ingredient under the quick kitchen when it contains a common staple.
func Categorize(name string) string {
	for _, common := range commonIngredients {
		if strings.Contains(name, common) {
			return CategoryQuick
		}
	}

	return CategoryAll
}
