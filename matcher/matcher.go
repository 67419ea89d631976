package matcher

import (
	"github.com/jochie/teletekst/models"
)

// Field identifies one dimension along which a matched page pair differs
type Field string

const (
	FieldNumber  Field = "number"
	FieldTitle   Field = "title"
	FieldContent Field = "content"
)

// Kind classifies a NEW page against the previous snapshot
type Kind int

const (
	// KindUnchanged means the page exists at the same number with identical
	// title and content
	KindUnchanged Kind = iota
	// KindChanged means the page corresponds to an old page but differs in
	// number, title, content, or a combination
	KindChanged
	// KindNew means no corresponding old page was found
	KindNew
)

// MatchResult is the classification of a single NEW page
type MatchResult struct {
	NewNumber int
	Kind      Kind
	OldNumber int     // the matched old page, for Unchanged and Changed
	Changed   []Field // the differing fields, only for Changed
}

// Result holds one MatchResult per NEW page (ascending page-number order)
// and the set of OLD page numbers that no NEW page matched
type Result struct {
	Matches []MatchResult
	Removed map[int]bool
}

// Matcher computes a correspondence between two snapshots of the page set.
// It is a pure function over its inputs: no I/O, no retained state, safe to
// call from multiple goroutines on distinct snapshot pairs.
type Matcher struct {
	sim       Similarity
	threshold float64
}

// NewMatcher creates a matcher with the default word-set similarity and
// acceptance threshold
func NewMatcher() *Matcher {
	return &Matcher{
		sim:       WordSetSimilarity{},
		threshold: SimilarityThreshold,
	}
}

// NewMatcherWithSimilarity creates a matcher with a custom similarity
// heuristic and threshold
func NewMatcherWithSimilarity(sim Similarity, threshold float64) *Matcher {
	return &Matcher{
		sim:       sim,
		threshold: threshold,
	}
}

// Match classifies every page in new against old. Pages that kept their
// number are matched first; the remainder is paired greedily by content
// similarity, so a page that moved to a different number is reported as
// changed rather than as a removed page plus a new one.
func (m *Matcher) Match(prev, next models.Snapshot) Result {
	oldUsed := make(map[int]bool, len(prev))
	newUsed := make(map[int]bool, len(next))
	matched := make(map[int]MatchResult, len(next))

	// Pages that exist at the same number in both snapshots always pair up,
	// whatever their content. This is the common case: no renumbering.
	for _, n := range next.Numbers() {
		oldPage, ok := prev[n]
		if !ok {
			continue
		}
		newPage := next[n]

		var changed []Field
		if newPage.Title != oldPage.Title {
			changed = append(changed, FieldTitle)
		}
		if !equalLines(newPage.Content, oldPage.Content) {
			changed = append(changed, FieldContent)
		}

		if len(changed) == 0 {
			matched[n] = MatchResult{NewNumber: n, Kind: KindUnchanged, OldNumber: n}
		} else {
			matched[n] = MatchResult{NewNumber: n, Kind: KindChanged, OldNumber: n, Changed: changed}
		}
		oldUsed[n] = true
		newUsed[n] = true
	}

	// Greedily pair the leftovers by highest similarity. Each score is
	// computed once up front, one comparison per leftover pair. Iterating
	// ascending old then new numbers with a strict > comparison breaks score
	// ties by lowest old page number, then lowest new page number.
	oldNumbers := prev.Numbers()
	newNumbers := next.Numbers()
	scores := make(map[int]map[int]float64, len(oldNumbers))
	for _, on := range oldNumbers {
		if oldUsed[on] {
			continue
		}
		row := make(map[int]float64, len(newNumbers))
		for _, nn := range newNumbers {
			if newUsed[nn] {
				continue
			}
			row[nn] = m.sim.Score(prev[on], next[nn])
		}
		scores[on] = row
	}

	for {
		bestScore := -1.0
		bestOld, bestNew := 0, 0
		for _, on := range oldNumbers {
			if oldUsed[on] {
				continue
			}
			for _, nn := range newNumbers {
				if newUsed[nn] {
					continue
				}
				if score := scores[on][nn]; score > bestScore {
					bestScore = score
					bestOld = on
					bestNew = nn
				}
			}
		}
		if bestScore < m.threshold {
			break
		}

		oldPage := prev[bestOld]
		newPage := next[bestNew]

		// Same-number pairs were consumed above, so a fuzzy pair always
		// differs in number.
		changed := []Field{FieldNumber}
		if newPage.Title != oldPage.Title {
			changed = append(changed, FieldTitle)
		}
		if !equalLines(newPage.Content, oldPage.Content) {
			changed = append(changed, FieldContent)
		}

		matched[bestNew] = MatchResult{NewNumber: bestNew, Kind: KindChanged, OldNumber: bestOld, Changed: changed}
		oldUsed[bestOld] = true
		newUsed[bestNew] = true
	}

	result := Result{
		Matches: make([]MatchResult, 0, len(next)),
		Removed: map[int]bool{},
	}
	for _, n := range newNumbers {
		if r, ok := matched[n]; ok {
			result.Matches = append(result.Matches, r)
		} else {
			result.Matches = append(result.Matches, MatchResult{NewNumber: n, Kind: KindNew})
		}
	}
	for _, n := range oldNumbers {
		if !oldUsed[n] {
			result.Removed[n] = true
		}
	}
	return result
}

// HasField reports whether the given field is among the changed fields
func (r MatchResult) HasField(f Field) bool {
	for _, c := range r.Changed {
		if c == f {
			return true
		}
	}
	return false
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
