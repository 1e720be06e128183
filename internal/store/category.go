// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"parokicms/internal/gitstore"
	"parokicms/internal/models"
)

// CategoryStore manages the four independent category lists. Every
// mutation rewrites the whole domain file with the sorted list.
type CategoryStore struct {
	repo  Repo
	cache Invalidator
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(repo Repo, cache Invalidator) *CategoryStore {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &CategoryStore{repo: repo, cache: cache}
}

// List returns the domain's categories. An absent or unparseable file
// yields the built-in defaults so public pages always have something to
// show.
func (s *CategoryStore) List(ctx context.Context, domain models.CategoryDomain) ([]string, error) {
	if !domain.Valid() {
		return nil, invalid("domain", "jenis kategori tidak dikenal")
	}
	var list models.CategoryList
	found, err := readJSON(ctx, s.repo, domain.FilePath(), &list)
	if err != nil {
		var pe *parseError
		if errors.As(err, &pe) {
			slog.Warn("category file unparseable, using defaults", "domain", domain, "error", err)
			return domain.DefaultCategories(), nil
		}
		return nil, err
	}
	if !found {
		return domain.DefaultCategories(), nil
	}
	sortCategories(list.Categories)
	return list.Categories, nil
}

// Add appends a category. Names are case-insensitively unique within
// their domain.
func (s *CategoryStore) Add(ctx context.Context, domain models.CategoryDomain, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "nama kategori tidak boleh kosong")
	}

	categories, err := s.List(ctx, domain)
	if err != nil {
		return nil, err
	}
	if containsFold(categories, name) {
		return nil, invalid("name", "kategori sudah ada")
	}

	categories = append(categories, name)
	msg := fmt.Sprintf("Tambah kategori %s: %s", domain, name)
	if err := s.save(ctx, domain, categories, msg); err != nil {
		return nil, err
	}
	return categories, nil
}

// Rename replaces one category name with another. The new name must not
// collide with a different existing category.
func (s *CategoryStore) Rename(ctx context.Context, domain models.CategoryDomain, oldName, newName string) ([]string, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, invalid("name", "nama kategori tidak boleh kosong")
	}

	categories, err := s.List(ctx, domain)
	if err != nil {
		return nil, err
	}

	idx := indexFold(categories, oldName)
	if idx < 0 {
		return nil, invalid("name", "kategori tidak ditemukan")
	}
	if other := indexFold(categories, newName); other >= 0 && other != idx {
		return nil, invalid("name", "kategori sudah ada")
	}

	categories[idx] = newName
	msg := fmt.Sprintf("Ubah kategori %s: %s menjadi %s", domain, oldName, newName)
	if err := s.save(ctx, domain, categories, msg); err != nil {
		return nil, err
	}
	return categories, nil
}

// Remove deletes a category from the domain's list.
func (s *CategoryStore) Remove(ctx context.Context, domain models.CategoryDomain, name string) ([]string, error) {
	categories, err := s.List(ctx, domain)
	if err != nil {
		return nil, err
	}

	idx := indexFold(categories, name)
	if idx < 0 {
		return nil, invalid("name", "kategori tidak ditemukan")
	}

	categories = append(categories[:idx], categories[idx+1:]...)
	msg := fmt.Sprintf("Hapus kategori %s: %s", domain, name)
	if err := s.save(ctx, domain, categories, msg); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryStore) save(ctx context.Context, domain models.CategoryDomain, categories []string, message string) error {
	sortCategories(categories)
	raw, err := encodeJSON(models.CategoryList{Categories: categories})
	if err != nil {
		return err
	}
	if err := commitOne(ctx, s.repo, gitstore.TextFile(domain.FilePath(), raw), message); err != nil {
		return fmt.Errorf("save categories %s: %w", domain, err)
	}
	s.cache.Invalidate(ctx, "/categories/"+string(domain))
	return nil
}

func sortCategories(categories []string) {
	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i]) < strings.ToLower(categories[j])
	})
}

func containsFold(list []string, name string) bool {
	return indexFold(list, name) >= 0
}

func indexFold(list []string, name string) int {
	for i, c := range list {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}