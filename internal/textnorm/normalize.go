package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// noisePattern matches bracketed edition, reissue, and year annotations
	// that vary between curated lists for the same work.
	noisePattern = regexp.MustCompile(`(?i)[\(\[][^\)\]]*(?:remaster|deluxe|edition|extended|anniversary|expanded|reissue|bonus|director'?s cut|\b(?:19|20)\d{2}\b)[^\)\]]*[\)\]]`)

	punctPattern      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// stopWords lists filler words ignored during comparison. Covers English,
// German, and French articles since the curated lists mix all three.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "of": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "with": {}, "by": {}, "from": {},
	"der": {}, "die": {}, "das": {}, "ein": {}, "eine": {}, "und": {},
	"le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "et": {},
}

// Normalize canonicalizes free text for comparison: case folding, diacritic
// stripping, noise-annotation and punctuation removal, whitespace collapse,
// and stop-word filtering. Idempotent; empty input yields empty output.
func Normalize(text string) string {
	text = stripDiacritics(text)
	text = strings.ToLower(text)
	text = noisePattern.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "&", " and ")
	text = punctPattern.ReplaceAllString(text, " ")

	words := strings.Fields(text)
	kept := words[:0]
	for _, word := range words {
		if _, ok := stopWords[word]; ok {
			continue
		}
		kept = append(kept, word)
	}

	// A title made entirely of filler words keeps all of them so the key
	// does not collapse to the empty string.
	if len(kept) == 0 {
		return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	}
	return strings.Join(kept, " ")
}

// NormalizeName canonicalizes a person or band name. Catalog results list
// people as "Last, First"; the comma form is folded into "first last" before
// the regular normalization runs.
func NormalizeName(name string) string {
	if idx := strings.Index(name, ","); idx >= 0 {
		name = strings.TrimSpace(name[idx+1:]) + " " + strings.TrimSpace(name[:idx])
	}
	return Normalize(name)
}

// Key builds the normalized identity for a (title, author) pair. Items with
// equal keys are the same work regardless of source.
func Key(title, author string) string {
	return Normalize(title) + "|" + NormalizeName(author)
}

// Tokens splits normalized text into comparison tokens.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

func stripDiacritics(text string) string {
	decomposed := norm.NFKD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.IsMark(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
