package media

import (
	"errors"
	"fmt"
	"strings"
)

// Category identifies the media type an item belongs to. Blacklists and
// accept/reject state are scoped per category.
type Category string

const (
	CategoryFilm  Category = "film"
	CategoryAlbum Category = "album"
	CategoryBook  Category = "book"
)

// Categories lists all known categories in a stable order.
func Categories() []Category {
	return []Category{CategoryFilm, CategoryAlbum, CategoryBook}
}

// ErrUnknownCategory indicates a category tag outside the known set.
var ErrUnknownCategory = errors.New("unknown category")

// ParseCategory validates a category tag. An unknown tag is a caller error,
// never silently ignored.
func ParseCategory(value string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case CategoryFilm:
		return CategoryFilm, nil
	case CategoryAlbum:
		return CategoryAlbum, nil
	case CategoryBook:
		return CategoryBook, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, value)
	}
}

// Valid reports whether the category is one of the known tags.
func (c Category) Valid() bool {
	switch c {
	case CategoryFilm, CategoryAlbum, CategoryBook:
		return true
	}
	return false
}

// Source tags a candidate with the curated list or personalization pipeline
// that produced it.
type Source string

// personalizedPrefix marks sources generated per top artist from the local
// archive analysis.
const personalizedPrefix = "top-artist:"

// PersonalizedSource builds a source tag for a top-artist recommendation.
func PersonalizedSource(artist string) Source {
	return Source(personalizedPrefix + strings.TrimSpace(artist))
}

// Personalized reports whether the source comes from the per-artist pipeline.
func (s Source) Personalized() bool {
	return strings.HasPrefix(string(s), personalizedPrefix)
}

// Bucket returns the balancing bucket for the source. All personalized
// sources collapse into a single bucket so that per-artist tags do not each
// claim their own share of the selection quota.
func (s Source) Bucket() string {
	if s.Personalized() {
		return "personalized"
	}
	return string(s)
}

// Artist returns the artist name embedded in a personalized source tag, or
// the empty string for curated sources.
func (s Source) Artist() string {
	if !s.Personalized() {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(string(s), personalizedPrefix))
}

// Item is one candidate work. Identity for dedup and store lookups is the
// normalized (title, author) pair; two items with the same identity are the
// same work regardless of source.
type Item struct {
	Title    string            `json:"title"`
	Author   string            `json:"author,omitempty"`
	Category Category          `json:"category"`
	Source   Source            `json:"source,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Validate rejects malformed items at the ingestion boundary.
func (i Item) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return errors.New("item title must not be empty")
	}
	if !i.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(i.Category))
	}
	return nil
}

// Display renders the item as "Title - Author" for logs and tables.
func (i Item) Display() string {
	title := strings.TrimSpace(i.Title)
	author := strings.TrimSpace(i.Author)
	if author == "" {
		return title
	}
	return title + " - " + author
}
