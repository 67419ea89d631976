package matcher

import (
	"strings"
	"unicode"

	"github.com/jochie/teletekst/models"
)

// SimilarityThreshold is the acceptance bound for fuzzy matching: two pages
// with a word-set similarity at or above this value are considered the same
// article. The value is a policy constant; changing it moves the boundary
// between "moved/updated page" and "removed + new page" classifications.
const SimilarityThreshold = 0.6

// Similarity scores how alike two pages are. Scores are symmetric, fall in
// [0, 1], and reach 1.0 only for pages with identical word sets.
type Similarity interface {
	Score(a, b models.Page) float64
}

// WordSetSimilarity computes Jaccard similarity (intersection over union)
// between the sets of words in two pages' content. Words are lowercased and
// duplicates collapse, so reordered or repeated text still scores high.
type WordSetSimilarity struct{}

// Score implements the Similarity interface
func (WordSetSimilarity) Score(a, b models.Page) float64 {
	aWords := wordSet(a)
	bWords := wordSet(b)

	// Two blank pages are vacuously identical; without this a pair of empty
	// pages would score 0 and be misclassified as removed + new.
	if len(aWords) == 0 && len(bWords) == 0 {
		return 1.0
	}

	intersection := 0
	for w := range aWords {
		if bWords[w] {
			intersection++
		}
	}
	union := len(aWords) + len(bWords) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

// wordSet breaks the page content into lowercased words, splitting on
// whitespace and periods, collapsing duplicates
func wordSet(p models.Page) map[string]bool {
	words := map[string]bool{}
	for _, line := range p.Content {
		for _, w := range strings.FieldsFunc(line, splitWord) {
			words[strings.ToLower(w)] = true
		}
	}
	return words
}

func splitWord(r rune) bool {
	return unicode.IsSpace(r) || r == '.'
}
