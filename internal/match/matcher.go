package match

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"shelfpick/internal/media"
	"shelfpick/internal/textnorm"
)

const (
	// DefaultTitleThreshold is the similarity above which two titles are
	// considered the same work.
	DefaultTitleThreshold = 0.85
	// DefaultAuthorThreshold is the secondary threshold applied to authors
	// when both sides carry one, guarding against same-titled works by
	// different people.
	DefaultAuthorThreshold = 0.70
)

// Matcher scores similarity between normalized strings. The zero value is not
// usable; construct with New.
type Matcher struct {
	titleThreshold  float64
	authorThreshold float64
}

// New returns a Matcher with the given thresholds. Values outside (0, 1]
// fall back to the defaults.
func New(titleThreshold, authorThreshold float64) *Matcher {
	if titleThreshold <= 0 || titleThreshold > 1 {
		titleThreshold = DefaultTitleThreshold
	}
	if authorThreshold <= 0 || authorThreshold > 1 {
		authorThreshold = DefaultAuthorThreshold
	}
	return &Matcher{titleThreshold: titleThreshold, authorThreshold: authorThreshold}
}

// Default returns a Matcher with the default thresholds.
func Default() *Matcher {
	return New(DefaultTitleThreshold, DefaultAuthorThreshold)
}

// SameWork reports whether two items denote the same work. Title similarity
// must clear the title threshold; when both items carry an author, author
// similarity must also clear the author threshold. Commutative.
func (m *Matcher) SameWork(a, b media.Item) bool {
	if a.Category != b.Category {
		return false
	}
	if m.Similarity(a.Title, b.Title) < m.titleThreshold {
		return false
	}
	authorA := strings.TrimSpace(a.Author)
	authorB := strings.TrimSpace(b.Author)
	if authorA == "" || authorB == "" {
		return true
	}
	return m.NameSimilarity(authorA, authorB) >= m.authorThreshold
}

// SameName reports whether two person or band names clear the author
// threshold.
func (m *Matcher) SameName(a, b string) bool {
	return m.NameSimilarity(a, b) >= m.authorThreshold
}

// Similarity scores two titles on a 0-1 scale after normalization.
func (m *Matcher) Similarity(a, b string) float64 {
	na := textnorm.Normalize(a)
	nb := textnorm.Normalize(b)
	return scoreText(na, nb)
}

// NameSimilarity scores two names on a 0-1 scale. Beyond the plain text
// score it recognizes token containment ("Coppola" against "Francis Ford
// Coppola") and abbreviated given names ("D. Lynch" against "David Lynch").
func (m *Matcher) NameSimilarity(a, b string) float64 {
	na := textnorm.NormalizeName(a)
	nb := textnorm.NormalizeName(b)
	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}

	score := scoreText(na, nb)

	tokensA := strings.Fields(na)
	tokensB := strings.Fields(nb)
	if containsAll(tokensA, tokensB) || containsAll(tokensB, tokensA) {
		if score < 0.90 {
			score = 0.90
		}
	}
	if initialsCompatible(tokensA, tokensB) {
		if score < 0.85 {
			score = 0.85
		}
	}
	return score
}

// scoreText blends the Levenshtein ratio with a Dice token-overlap
// coefficient and keeps the stronger signal. Inputs must be normalized.
func scoreText(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	distance := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	ratio := 1 - float64(distance)/float64(longest)

	dice := tokenDice(strings.Fields(a), strings.Fields(b))
	if dice > ratio {
		return dice
	}
	return ratio
}

func tokenDice(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, token := range a {
		set[token] = struct{}{}
	}
	var shared int
	for _, token := range b {
		if _, ok := set[token]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(a)+len(b))
}

// containsAll reports whether every token of sub appears in full. Catches
// surname-only credits against full names.
func containsAll(sub, full []string) bool {
	if len(sub) == 0 || len(sub) > len(full) {
		return false
	}
	set := make(map[string]struct{}, len(full))
	for _, token := range full {
		set[token] = struct{}{}
	}
	for _, token := range sub {
		if _, ok := set[token]; !ok {
			return false
		}
	}
	return true
}

// initialsCompatible reports whether two names agree on the final token and
// every leading token of one is a prefix of the corresponding token of the
// other, as with abbreviated given names.
func initialsCompatible(a, b []string) bool {
	if len(a) != len(b) || len(a) < 2 {
		return false
	}
	if a[len(a)-1] != b[len(b)-1] {
		return false
	}
	for i := 0; i < len(a)-1; i++ {
		if !strings.HasPrefix(a[i], b[i]) && !strings.HasPrefix(b[i], a[i]) {
			return false
		}
	}
	return true
}
