// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"parokicms/internal/gitstore"
	"parokicms/internal/models"
)

const directoryFile = "umkm.json"

// DirectoryStore manages the parish business directory, stored as a
// single JSON array that is rewritten wholesale on every save.
type DirectoryStore struct {
	repo  Repo
	cache Invalidator
}

// NewDirectoryStore creates a new DirectoryStore.
func NewDirectoryStore(repo Repo, cache Invalidator) *DirectoryStore {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &DirectoryStore{repo: repo, cache: cache}
}

// List returns all directory entries in stored order. An absent file is
// an empty directory.
func (s *DirectoryStore) List(ctx context.Context) ([]models.DirectoryEntry, error) {
	var entries []models.DirectoryEntry
	if _, err := readJSON(ctx, s.repo, directoryFile, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Get retrieves one entry by ID.
func (s *DirectoryStore) Get(ctx context.Context, id string) (*models.DirectoryEntry, bool, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], true, nil
		}
	}
	return nil, false, nil
}

// Create validates and appends a new entry with a generated ID.
func (s *DirectoryStore) Create(ctx context.Context, entry models.DirectoryEntry) (*models.DirectoryEntry, error) {
	if err := validateDirectoryEntry(&entry); err != nil {
		return nil, err
	}
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.NewString()
	entries = append(entries, entry)
	msg := fmt.Sprintf("Tambah UMKM: %s", entry.Name)
	if err := s.save(ctx, entries, msg); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update replaces the entry with the given ID.
func (s *DirectoryStore) Update(ctx context.Context, id string, entry models.DirectoryEntry) (*models.DirectoryEntry, error) {
	if err := validateDirectoryEntry(&entry); err != nil {
		return nil, err
	}
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	idx := directoryIndex(entries, id)
	if idx < 0 {
		return nil, invalid("id", "data UMKM tidak ditemukan")
	}
	entry.ID = id
	entries[idx] = entry

	msg := fmt.Sprintf("Perbarui UMKM: %s", entry.Name)
	if err := s.save(ctx, entries, msg); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes the entry with the given ID.
func (s *DirectoryStore) Delete(ctx context.Context, id string) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}

	idx := directoryIndex(entries, id)
	if idx < 0 {
		return invalid("id", "data UMKM tidak ditemukan")
	}
	name := entries[idx].Name
	entries = append(entries[:idx], entries[idx+1:]...)

	return s.save(ctx, entries, fmt.Sprintf("Hapus UMKM: %s", name))
}

func (s *DirectoryStore) save(ctx context.Context, entries []models.DirectoryEntry, message string) error {
	if entries == nil {
		entries = []models.DirectoryEntry{}
	}
	raw, err := encodeJSON(entries)
	if err != nil {
		return err
	}
	if err := commitOne(ctx, s.repo, gitstore.TextFile(directoryFile, raw), message); err != nil {
		return fmt.Errorf("save directory: %w", err)
	}
	s.cache.Invalidate(ctx, "/umkm")
	return nil
}

func directoryIndex(entries []models.DirectoryEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func validateDirectoryEntry(entry *models.DirectoryEntry) error {
	if strings.TrimSpace(entry.Name) == "" {
		return invalid("name", "nama usaha wajib diisi")
	}
	if strings.TrimSpace(entry.Category) == "" {
		return invalid("category", "kategori wajib diisi")
	}
	return nil
}
