// Package classify holds the article categories the service knows about
// and a keyword scorer that picks one for imported items.
package classify

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Category is the value of an article's category field.
type Category string

const (
	Politika Category = "Politika"
	Sport    Category = "Sport"
	Tech     Category = "Tech"
)

// AllCategories returns the known categories in display order.
func AllCategories() []Category {
	return []Category{Politika, Sport, Tech}
}

// Known reports whether s is one of AllCategories, matched exactly.
func Known(s string) bool {
	for _, c := range AllCategories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

var keywords = map[Category][]string{
	Politika: {
		"politics", "political", "election", "elections", "vote", "parliament",
		"government", "minister", "president", "senate", "congress", "policy",
		"party", "campaign", "referendum", "coalition", "diplomacy", "sanctions",
		"politika", "volitve", "vlada", "predsednik", "stranka",
		"državni zbor", "prime minister", "foreign affairs",
	},
	Sport: {
		"sport", "sports", "football", "soccer", "basketball", "tennis", "hockey",
		"match", "tournament", "league", "championship", "olympic", "olympics",
		"coach", "goal", "score", "season", "cup", "athlete", "marathon",
		"šport", "nogomet", "košarka", "tekma", "prvenstvo", "world cup",
	},
	Tech: {
		"technology", "tech", "software", "hardware", "ai", "startup", "app",
		"smartphone", "chip", "cloud", "internet", "robot", "computer", "data",
		"cyber", "security", "developer", "programming", "open source",
		"tehnologija", "računalnik", "umetna inteligenca", "machine learning",
	},
}

// aliases maps short or alternate names to categories. Keys are lower case.
var aliases = map[string]Category{
	"pol":         Politika,
	"politics":    Politika,
	"sports":      Sport,
	"šport":       Sport,
	"technology":  Tech,
	"tehnologija": Tech,
}

// ResolveAlias maps a category name or alias, in any case, to a Category.
func ResolveAlias(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if cat, ok := aliases[key]; ok {
		return cat, nil
	}
	for _, cat := range AllCategories() {
		if strings.EqualFold(string(cat), key) {
			return cat, nil
		}
	}
	valid := make([]string, 0, len(aliases)+3)
	for _, cat := range AllCategories() {
		valid = append(valid, strings.ToLower(string(cat)))
	}
	for k := range aliases {
		valid = append(valid, k)
	}
	sort.Strings(valid)
	return "", fmt.Errorf("unknown category %q (valid: %s)", name, strings.Join(valid, ", "))
}

// Classify scores title and content against each category's keywords,
// counting title hits twice. Ties go to the earlier category; no hits at
// all gives Tech.
func Classify(title, content string) Category {
	titleWords := words(title)
	contentWords := words(content)
	titleText := strings.ToLower(title)
	contentText := strings.ToLower(content)

	best, bestScore := Tech, 0
	for _, cat := range AllCategories() {
		score := 0
		for _, kw := range keywords[cat] {
			if strings.Contains(kw, " ") {
				score += 2*strings.Count(titleText, kw) + strings.Count(contentText, kw)
				continue
			}
			score += 2*countWord(titleWords, kw) + countWord(contentWords, kw)
		}
		if score > bestScore {
			best, bestScore = cat, score
		}
	}
	return best
}

func countWord(ws []string, kw string) int {
	n := 0
	for _, w := range ws {
		if w == kw {
			n++
		}
	}
	return n
}

func words(s string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
