// Package competitor finds VK groups similar to a target group and ranks the
// target's audience against them.
package competitor

import (
	"sort"
	"strings"
	"unicode"
)

// MaxKeywords is how many keywords ExtractKeywords returns at most.
const MaxKeywords = 20

const minWordLength = 3

var stopWords = map[string]struct{}{
	"это": {}, "также": {}, "очень": {}, "можно": {}, "будет": {}, "есть": {},
	"который": {}, "которые": {}, "чтобы": {}, "как": {}, "для": {}, "или": {},
	"и": {}, "в": {}, "на": {}, "с": {},
}

// ExtractKeywords returns the most frequent words of text, most frequent first.
// Words are lowercase runs of at least three Cyrillic or Latin letters; a token
// mixing letters with digits or underscores is not a word. Ties keep the order
// of first appearance.
func ExtractKeywords(text string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	counts := make(map[string]int)
	var order []string
	for _, tok := range tokens {
		if !isWord(tok) {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}
	return order
}

func isWord(tok string) bool {
	n := 0
	for _, r := range tok {
		if !(r >= 'a' && r <= 'z') && !(r >= 'а' && r <= 'я') && r != 'ё' {
			return false
		}
		n++
	}
	return n >= minWordLength
}

// Similarity is the Jaccard index of the keyword sets of a and b.
// It is 0 when either text has no keywords.
func Similarity(a, b string) float64 {
	ka := keywordSet(a)
	kb := keywordSet(b)
	if len(ka) == 0 || len(kb) == 0 {
		return 0
	}

	shared := 0
	for kw := range ka {
		if _, ok := kb[kw]; ok {
			shared++
		}
	}
	union := len(ka) + len(kb) - shared
	return float64(shared) / float64(union)
}

func keywordSet(text string) map[string]struct{} {
	keywords := ExtractKeywords(text)
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		set[kw] = struct{}{}
	}
	return set
}
