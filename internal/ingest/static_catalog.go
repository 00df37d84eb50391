package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"topic-scout/internal/domain"
)

// CatalogFile describes one loaded static-data file.
type CatalogFile struct {
	Name       string `json:"name"`
	VideoCount int    `json:"video_count"`
}

// Catalog serves previously exported research data from JSON files in a
// directory. Each file holds {"videos": [...]}. The directory is read once
// at startup and on explicit Reload.
type Catalog struct {
	dir string

	mu    sync.RWMutex
	files map[string][]domain.Candidate
}

func NewCatalog(dir string) *Catalog {
	c := &Catalog{dir: dir, files: make(map[string][]domain.Candidate)}
	// a missing directory just means no static data was shipped
	_ = c.Reload()
	return c
}

// Reload re-reads every .json file in the directory, swapping the loaded
// set atomically. Files that fail to parse are skipped.
func (c *Catalog) Reload() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read static dir %s: %w", c.dir, err)
	}

	loaded := make(map[string][]domain.Candidate)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.dir, e.Name()))
		if err != nil {
			continue
		}
		var parsed struct {
			Videos []domain.Candidate `json:"videos"`
		}
		if err := json.Unmarshal(data, &parsed); err != nil {
			continue
		}
		loaded[e.Name()] = parsed.Videos
	}

	c.mu.Lock()
	c.files = loaded
	c.mu.Unlock()
	return nil
}

// Files lists the loaded files, sorted by name.
func (c *Catalog) Files() []CatalogFile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]CatalogFile, 0, len(c.files))
	for name, videos := range c.files {
		out = append(out, CatalogFile{Name: name, VideoCount: len(videos)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Videos returns the contents of one file.
func (c *Catalog) Videos(name string) ([]domain.Candidate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	videos, ok := c.files[name]
	if !ok {
		return nil, fmt.Errorf("static file %s: %w", name, domain.ErrNotFound)
	}
	return videos, nil
}

// Search scans all loaded files for candidates whose title contains the
// query, case-insensitively.
func (c *Catalog) Search(query string) []domain.Candidate {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.files))
	for name := range c.files {
		names = append(names, name)
	}
	sort.Strings(names)

	var hits []domain.Candidate
	for _, name := range names {
		for _, v := range c.files[name] {
			if strings.Contains(strings.ToLower(v.Title), query) {
				hits = append(hits, v)
			}
		}
	}
	return hits
}
