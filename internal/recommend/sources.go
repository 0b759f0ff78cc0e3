package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shelfpick/internal/media"
)

// FileSource reads candidates from a JSON list file. The file holds either a
// flat array of items or an object keyed by category. Missing files yield an
// empty candidate set so a curated list can be added later without breaking
// the cycle.
type FileSource struct {
	name string
	path string
}

// NewFileSource builds a source named after the balancing bucket it feeds.
func NewFileSource(name, path string) (*FileSource, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("source name must not be empty")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("source path must not be empty")
	}
	return &FileSource{name: name, path: path}, nil
}

func (s *FileSource) Name() string { return s.name }

// Fetch loads the file and returns the entries matching category. Entries
// without an explicit source are tagged with this source's name; entries
// without an explicit category inherit the requested one.
func (s *FileSource) Fetch(ctx context.Context, category media.Category) ([]media.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []media.Item{}, nil
		}
		return nil, fmt.Errorf("read source %s: %w", s.name, err)
	}

	entries, err := decodeCandidates(data, category)
	if err != nil {
		return nil, fmt.Errorf("parse source %s: %w", s.name, err)
	}

	items := make([]media.Item, 0, len(entries))
	for _, entry := range entries {
		if entry.Category == "" {
			entry.Category = category
		}
		if entry.Category != category {
			continue
		}
		if entry.Source == "" {
			entry.Source = media.Source(s.name)
		}
		items = append(items, entry)
	}
	return items, nil
}

func decodeCandidates(data []byte, category media.Category) ([]media.Item, error) {
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if strings.HasPrefix(trimmed, "{") {
		var byCategory map[media.Category][]media.Item
		if err := json.Unmarshal(data, &byCategory); err != nil {
			return nil, err
		}
		return byCategory[category], nil
	}

	var flat []media.Item
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, err
	}
	return flat, nil
}

// StaticSource serves a fixed candidate list, used for personalized batches
// assembled in-process and in tests.
type StaticSource struct {
	name  string
	items []media.Item
}

// NewStaticSource wraps items under the given bucket name.
func NewStaticSource(name string, items []media.Item) *StaticSource {
	return &StaticSource{name: name, items: items}
}

func (s *StaticSource) Name() string { return s.name }

func (s *StaticSource) Fetch(_ context.Context, category media.Category) ([]media.Item, error) {
	items := make([]media.Item, 0, len(s.items))
	for _, item := range s.items {
		if item.Category != category {
			continue
		}
		if item.Source == "" {
			item.Source = media.Source(s.name)
		}
		items = append(items, item)
	}
	return items, nil
}

// DiscoverFileSources maps every *.json file in dir to a FileSource named
// after the file's base name. Returns an empty slice when dir is absent.
func DiscoverFileSources(dir string) ([]CandidateSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []CandidateSource{}, nil
		}
		return nil, fmt.Errorf("scan source dir: %w", err)
	}

	sources := make([]CandidateSource, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		source, err := NewFileSource(name, filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}
