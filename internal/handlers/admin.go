// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"parokicms/internal/models"
	"parokicms/internal/store"
)

// CollaboratorChecker answers whether a GitHub account may edit the
// content repository. Satisfied by *gitstore.Store.
type CollaboratorChecker interface {
	IsCollaborator(ctx context.Context, username string) (bool, error)
}

// CacheFlusher drops every cached response. Satisfied by
// *cache.PageCache.
type CacheFlusher interface {
	InvalidateAll(ctx context.Context)
}

// Admin groups the authenticated CRUD endpoints. Every mutation flows
// through a store, which commits to the content repository and
// invalidates the page cache.
type Admin struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	directory  *store.DirectoryStore
	events     *store.EventStore
	statistics *store.StatisticsStore
	access     CollaboratorChecker
	cache      CacheFlusher
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(posts *store.PostStore, categories *store.CategoryStore, directory *store.DirectoryStore, events *store.EventStore, statistics *store.StatisticsStore, access CollaboratorChecker, cache CacheFlusher) *Admin {
	return &Admin{
		posts:      posts,
		categories: categories,
		directory:  directory,
		events:     events,
		statistics: statistics,
		access:     access,
		cache:      cache,
	}
}

// postForm is the editable surface of a post.
type postForm struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Author      string          `json:"author"`
	Tags        []string        `json:"tags"`
	Category    string          `json:"category"`
	Banner      string          `json:"banner"`
	Published   bool            `json:"published"`
	SEO         *models.PostSEO `json:"seo"`
	Body        string          `json:"body"`
}

func (f *postForm) toPost() *models.Post {
	return &models.Post{
		Title:       f.Title,
		Description: f.Description,
		Author:      f.Author,
		Tags:        f.Tags,
		Category:    f.Category,
		Banner:      f.Banner,
		Published:   f.Published,
		SEO:         f.SEO,
		Body:        f.Body,
	}
}

// ListPosts serves all posts, drafts included.
func (a *Admin) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, posts)
}

// GetPost serves one post, draft or published.
func (a *Admin) GetPost(w http.ResponseWriter, r *http.Request) {
	post, found, err := a.posts.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !found {
		respondNotFound(w)
		return
	}
	respondData(w, post)
}

// CreatePost validates and commits a new post.
func (a *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	var form postForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := validatePostForm(&form); msg != "" {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: msg})
		return
	}

	post, err := a.posts.Create(r.Context(), form.toPost())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Artikel tersimpan.", post)
}

// UpdatePost rewrites an existing post.
func (a *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var form postForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := validatePostForm(&form); msg != "" {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: msg})
		return
	}

	post, err := a.posts.Update(r.Context(), chi.URLParam(r, "slug"), form.toPost())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Artikel diperbarui.", post)
}

// DeletePost removes a post.
func (a *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := a.posts.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Artikel dihapus.", nil)
}

type categoryForm struct {
	Name    string `json:"name"`
	NewName string `json:"newName,omitempty"`
}

// AddCategory appends a category to one domain's list.
func (a *Admin) AddCategory(w http.ResponseWriter, r *http.Request) {
	var form categoryForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, r, err)
		return
	}
	domain := models.CategoryDomain(chi.URLParam(r, "domain"))
	list, err := a.categories.Add(r.Context(), domain, form.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Kategori ditambahkan.", models.CategoryList{Categories: list})
}

// RenameCategory renames a category within one domain.
func (a *Admin) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var form categoryForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, r, err)
		return
	}
	domain := models.CategoryDomain(chi.URLParam(r, "domain"))
	list, err := a.categories.Rename(r.Context(), domain, form.Name, form.NewName)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Kategori diubah.", models.CategoryList{Categories: list})
}

// RemoveCategory deletes a category from one domain.
func (a *Admin) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	var form categoryForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, r, err)
		return
	}
	domain := models.CategoryDomain(chi.URLParam(r, "domain"))
	list, err := a.categories.Remove(r.Context(), domain, form.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Kategori dihapus.", models.CategoryList{Categories: list})
}

// CreateDirectoryEntry adds a business directory record.
func (a *Admin) CreateDirectoryEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.DirectoryEntry
	if err := decodeBody(r, &entry); err != nil {
		respondError(w, r, err)
		return
	}
	created, err := a.directory.Create(r.Context(), entry)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Data UMKM tersimpan.", created)
}

// UpdateDirectoryEntry replaces a business directory record.
func (a *Admin) UpdateDirectoryEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.DirectoryEntry
	if err := decodeBody(r, &entry); err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := a.directory.Update(r.Context(), chi.URLParam(r, "id"), entry)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Data UMKM diperbarui.", updated)
}

// DeleteDirectoryEntry removes a business directory record.
func (a *Admin) DeleteDirectoryEntry(w http.ResponseWriter, r *http.Request) {
	if err := a.directory.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Data UMKM dihapus.", nil)
}

// CreateEvent adds a schedule entry.
func (a *Admin) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := decodeBody(r, &event); err != nil {
		respondError(w, r, err)
		return
	}
	created, err := a.events.Create(r.Context(), event)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Jadwal tersimpan.", created)
}

// UpdateEvent replaces a schedule entry.
func (a *Admin) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := decodeBody(r, &event); err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := a.events.Update(r.Context(), chi.URLParam(r, "id"), event)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Jadwal diperbarui.", updated)
}

// DeleteEvent removes a schedule entry.
func (a *Admin) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := a.events.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Jadwal dihapus.", nil)
}

// SaveStatistics validates and commits the statistics object.
func (a *Admin) SaveStatistics(w http.ResponseWriter, r *http.Request) {
	var stats models.Statistics
	if err := decodeBody(r, &stats); err != nil {
		respondError(w, r, err)
		return
	}
	saved, err := a.statistics.Save(r.Context(), stats)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Statistik diperbarui.", saved)
}

// FlushCache drops every cached response, for when the content
// repository was edited out of band and the stores never saw the
// mutation.
func (a *Admin) FlushCache(w http.ResponseWriter, r *http.Request) {
	a.cache.InvalidateAll(r.Context())
	respondOK(w, "Cache dibersihkan.", nil)
}

// CheckAccess probes whether a GitHub account is a collaborator on the
// content repository, for the frontend to show who can publish.
func (a *Admin) CheckAccess(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	allowed, err := a.access.IsCollaborator(r.Context(), username)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, map[string]any{"username": username, "collaborator": allowed})
}
