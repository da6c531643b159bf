package lexicon

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Groups are the schema group subdirectories scanned under the lexicon
// base directory.
var Groups = []string{"orbit", "feed", "actor"}

// LoadAll reads every *.json file under the group subdirectories of
// baseDir and registers each document carrying an id. Malformed files
// are logged and skipped; a missing directory tree yields an empty
// registry. On duplicate ids the last file read wins.
func LoadAll(baseDir string) Registry {
	registry := Registry{}

	for _, group := range Groups {
		dir := filepath.Join(baseDir, group)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			path := filepath.Join(dir, entry.Name())

			raw, err := os.ReadFile(path)
			if err != nil {
				slog.Warn(
					"failed to read lexicon file",
					slog.String("path", path),
					slog.String("error", err.Error()),
				)
				continue
			}

			var doc Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				slog.Warn(
					"skipping malformed lexicon file",
					slog.String("path", path),
					slog.String("error", err.Error()),
				)
				continue
			}

			if doc.ID == "" {
				continue
			}

			if _, exists := registry[doc.ID]; exists {
				slog.Warn(
					"duplicate lexicon id, keeping last",
					slog.String("id", doc.ID),
					slog.String("path", path),
				)
			}
			registry[doc.ID] = &doc
		}
	}

	return registry
}
