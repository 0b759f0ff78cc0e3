package archive

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shelfpick/internal/logging"
)

// ArtistTally pairs an artist folder with how many tracks it holds.
type ArtistTally struct {
	Name  string `json:"name"`
	Songs int    `json:"songs"`
}

// ScanArtists treats every first-level directory under root as one artist and
// counts the regular files beneath it. Tallies come back ordered by song
// count, largest first. A missing root yields an empty listing.
func ScanArtists(root string, logger *slog.Logger) ([]ArtistTally, error) {
	logger = logging.NewComponentLogger(logger, "archive")

	if strings.TrimSpace(root) == "" {
		return []ArtistTally{}, nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("archive root not reachable",
				logging.String(logging.FieldPath, root),
				logging.String(logging.FieldImpact, "personalized pipeline has no artists to rank"))
			return []ArtistTally{}, nil
		}
		return nil, err
	}

	tallies := make([]ArtistTally, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		count, err := countFiles(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		if count == 0 {
			continue
		}
		tallies = append(tallies, ArtistTally{Name: entry.Name(), Songs: count})
	}

	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Songs != tallies[j].Songs {
			return tallies[i].Songs > tallies[j].Songs
		}
		return tallies[i].Name < tallies[j].Name
	})

	logger.Debug("artist tallies collected",
		logging.String(logging.FieldPath, root),
		logging.Int("artist_count", len(tallies)))
	return tallies, nil
}

func countFiles(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	return count, err
}
