package archive

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shelfpick/internal/logging"
	"shelfpick/internal/media"
	"shelfpick/internal/textnorm"
)

// Index is a snapshot of the archive folder names, held both raw (lowercased)
// and normalized for fuzzy containment checks.
type Index struct {
	logger     *slog.Logger
	folders    map[string]struct{}
	normalized []string
}

// Scan walks root and collects every directory name. A missing root returns
// an empty index rather than an error so the personalized pipeline degrades
// to "nothing owned".
func Scan(root string, logger *slog.Logger) (*Index, error) {
	logger = logging.NewComponentLogger(logger, "archive")

	idx := &Index{
		logger:  logger,
		folders: make(map[string]struct{}),
	}

	if strings.TrimSpace(root) == "" {
		return idx, nil
	}
	if _, err := os.Stat(root); err != nil {
		logger.Warn("archive root not reachable",
			logging.String(logging.FieldPath, root),
			logging.Error(err),
			logging.String(logging.FieldImpact, "owned works cannot be filtered out"))
		return idx, nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}
		idx.add(d.Name())
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("archive scanned",
		logging.String(logging.FieldPath, root),
		logging.Int("folder_count", len(idx.folders)))
	return idx, nil
}

// NewIndex builds an index from explicit folder names, used by tests and by
// callers that already hold a listing.
func NewIndex(folders []string, logger *slog.Logger) *Index {
	idx := &Index{
		logger:  logging.NewComponentLogger(logger, "archive"),
		folders: make(map[string]struct{}, len(folders)),
	}
	for _, folder := range folders {
		idx.add(folder)
	}
	return idx
}

func (x *Index) add(name string) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return
	}
	if _, seen := x.folders[lowered]; seen {
		return
	}
	x.folders[lowered] = struct{}{}
	x.normalized = append(x.normalized, textnorm.Normalize(lowered))
}

// Len returns the number of distinct folder names indexed.
func (x *Index) Len() int {
	return len(x.folders)
}

// Contains reports whether a work by the author with the title appears in the
// archive. Exact lowercase folder matches are tried first, then a fuzzy
// containment check on normalized text: both the author and the title must
// occur in a folder name that is not implausibly long for the pair.
func (x *Index) Contains(author, title string) bool {
	if len(x.folders) == 0 {
		return false
	}

	for _, variant := range folderVariants(author, title) {
		if _, ok := x.folders[variant]; ok {
			return true
		}
	}

	normAuthor := textnorm.Normalize(author)
	normTitle := textnorm.Normalize(title)
	if normTitle == "" {
		return false
	}
	maxLength := 2 * len(author+" "+title)

	for _, folder := range x.normalized {
		if len(folder) > maxLength {
			continue
		}
		if !strings.Contains(folder, normTitle) {
			continue
		}
		if normAuthor == "" || strings.Contains(folder, normAuthor) {
			return true
		}
	}
	return false
}

// FilterOwned drops items already present in the archive.
func (x *Index) FilterOwned(items []media.Item) []media.Item {
	if len(x.folders) == 0 {
		return items
	}
	kept := make([]media.Item, 0, len(items))
	owned := 0
	for _, item := range items {
		if x.Contains(item.Author, item.Title) {
			owned++
			continue
		}
		kept = append(kept, item)
	}
	if owned > 0 {
		x.logger.Debug("filtered owned items",
			logging.Int("owned", owned),
			logging.Int("remaining", len(kept)))
	}
	return kept
}

// folderVariants enumerates the folder spellings an "author title" pair is
// commonly filed under.
func folderVariants(author, title string) []string {
	author = strings.ToLower(strings.TrimSpace(author))
	title = strings.ToLower(strings.TrimSpace(title))

	seen := make(map[string]struct{}, 8)
	variants := make([]string, 0, 8)
	push := func(value string) {
		value = strings.Join(strings.Fields(value), " ")
		if value == "" {
			return
		}
		if _, ok := seen[value]; ok {
			return
		}
		seen[value] = struct{}{}
		variants = append(variants, value)
	}

	joined := strings.TrimSpace(author + " " + title)
	push(joined)
	push(author + " - " + title)
	push(textnorm.Normalize(joined))
	push(strings.ReplaceAll(joined, "&", "and"))
	push(strings.ReplaceAll(joined, " and ", " & "))
	return variants
}
