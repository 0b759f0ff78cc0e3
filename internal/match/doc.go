// Package match decides whether two titles or names denote the same work or
// person. It combines a Levenshtein ratio with token-overlap scoring on
// normalized text and is used for cross-source deduplication as well as
// archive membership checks.
package match
