package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// MemStore is an in-memory Store used by tests and the engine's own unit
// tests. Failure modes can be injected per operation.
type MemStore struct {
	mu     sync.Mutex
	themes map[string]string

	// Injected failures; nil means the operation succeeds.
	ListErr   error
	FetchErr  error
	UploadErr error
	DeleteErr error

	Uploads []string // ids uploaded, in order
	Deletes []string // ids deleted, in order
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{themes: map[string]string{}}
}

// Seed stores text under id without counting as an upload.
func (s *MemStore) Seed(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes[id] = text
}

func (s *MemStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	entries := make([]Entry, 0, len(s.themes))
	for id := range s.themes {
		entries = append(entries, Entry{ID: id, Format: "toml"})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (s *MemStore) Fetch(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FetchErr != nil {
		return "", s.FetchErr
	}
	text, ok := s.themes[id]
	if !ok {
		return "", ErrNotFound
	}
	return text, nil
}

func (s *MemStore) Upload(ctx context.Context, name string, data []byte) error {
	if err := ValidateUpload(name, data); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return s.UploadErr
	}
	id := strings.TrimSuffix(name, FileExt)
	s.themes[id] = string(data)
	s.Uploads = append(s.Uploads, id)
	return nil
}

func (s *MemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil && !errors.Is(s.DeleteErr, ErrNotFound) {
		return s.DeleteErr
	}
	s.Deletes = append(s.Deletes, id)
	if _, ok := s.themes[id]; !ok || errors.Is(s.DeleteErr, ErrNotFound) {
		return ErrNotFound
	}
	delete(s.themes, id)
	return nil
}

// Texts returns a copy of the stored definitions keyed by id.
func (s *MemStore) Texts() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.themes))
	for k, v := range s.themes {
		out[k] = v
	}
	return out
}
