package niche

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"topic-scout/internal/domain"
)

// Store holds the curated channel list, backed by a JSON file. Reads are
// lock-free on the hot path apart from an RLock; Reload swaps the whole
// list at once so readers never observe a partially loaded state.
type Store struct {
	path string

	mu       sync.RWMutex
	channels []domain.ChannelRef
}

type fileFormat struct {
	Channels []domain.ChannelRef `json:"channels"`
}

// NewStore creates a store reading from path. The file may not exist yet;
// the store starts empty in that case.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return s, nil
}

// Reload re-reads the backing file and atomically replaces the in-memory
// list. On any error the previous list stays active.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var parsed fileFormat
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse niche file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.channels = parsed.Channels
	s.mu.Unlock()
	return nil
}

// Channels returns the curated refs, filtered by category when non-empty.
// The returned slice is a copy.
func (s *Store) Channels(category string) []domain.ChannelRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ChannelRef, 0, len(s.channels))
	for _, ref := range s.channels {
		if category == "" || ref.Category == category {
			out = append(out, ref)
		}
	}
	return out
}

// Categories returns the distinct category names, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, ref := range s.channels {
		if ref.Category != "" {
			seen[ref.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Add appends a channel and persists the list. Duplicate channel ids are
// rejected.
func (s *Store) Add(ref domain.ChannelRef) error {
	if ref.ChannelID == "" {
		return fmt.Errorf("channel id is empty: %w", domain.ErrConfiguration)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.channels {
		if existing.ChannelID == ref.ChannelID {
			return fmt.Errorf("channel %s already present: %w", ref.ChannelID, domain.ErrConfiguration)
		}
	}
	updated := append(append([]domain.ChannelRef{}, s.channels...), ref)
	if err := s.persist(updated); err != nil {
		return err
	}
	s.channels = updated
	return nil
}

// Remove deletes a channel by id and persists the list.
func (s *Store) Remove(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]domain.ChannelRef, 0, len(s.channels))
	found := false
	for _, existing := range s.channels {
		if existing.ChannelID == channelID {
			found = true
			continue
		}
		updated = append(updated, existing)
	}
	if !found {
		return fmt.Errorf("channel %s: %w", channelID, domain.ErrNotFound)
	}
	if err := s.persist(updated); err != nil {
		return err
	}
	s.channels = updated
	return nil
}

// persist writes via a temp file and rename so a crash mid-write never
// truncates the list. Caller holds the write lock.
func (s *Store) persist(channels []domain.ChannelRef) error {
	data, err := json.MarshalIndent(fileFormat{Channels: channels}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal niche file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create niche dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write niche file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace niche file: %w", err)
	}
	return nil
}
