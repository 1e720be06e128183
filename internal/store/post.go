// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"parokicms/internal/gitstore"
	"parokicms/internal/models"
	"parokicms/internal/slug"
)

const postsDir = "posts"

// PostStore manages articles stored as markdown files with YAML front
// matter under posts/. The slug doubles as the public identifier and is
// unique among post paths.
type PostStore struct {
	repo  Repo
	cache Invalidator
	now   func() time.Time
}

// NewPostStore creates a new PostStore. A nil invalidator disables
// cache signaling.
func NewPostStore(repo Repo, cache Invalidator) *PostStore {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &PostStore{repo: repo, cache: cache, now: time.Now}
}

// List returns all posts, newest first. Files that fail to parse are
// skipped with a warning so one bad commit cannot take down the whole
// listing.
func (s *PostStore) List(ctx context.Context) ([]*models.Post, error) {
	files, err := s.repo.ListDir(ctx, postsDir)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]*models.Post, 0, len(files))
	for _, f := range files {
		if !strings.HasSuffix(f.Name, ".md") {
			continue
		}
		raw, found, err := s.repo.ReadFile(ctx, f.Path)
		if err != nil {
			return nil, fmt.Errorf("read post %s: %w", f.Path, err)
		}
		if !found {
			continue
		}
		post, err := models.ParsePost(f.Name, raw)
		if err != nil {
			slog.Warn("skipping unparseable post", "file", f.Path, "error", err)
			continue
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
	return posts, nil
}

// Published returns only published posts, newest first.
func (s *PostStore) Published(ctx context.Context) ([]*models.Post, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	posts := all[:0]
	for _, p := range all {
		if p.Published {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// Get retrieves one post by slug. The found flag is false when no post
// file encodes that slug.
func (s *PostStore) Get(ctx context.Context, postSlug string) (*models.Post, bool, error) {
	path, found, err := s.findPath(ctx, postSlug)
	if err != nil || !found {
		return nil, false, err
	}
	raw, found, err := s.repo.ReadFile(ctx, path)
	if err != nil {
		return nil, false, fmt.Errorf("read post %s: %w", path, err)
	}
	if !found {
		return nil, false, nil
	}
	post, err := models.ParsePost(fileName(path), raw)
	if err != nil {
		return nil, false, fmt.Errorf("parse post %s: %w", path, err)
	}
	return post, true, nil
}

// Create validates the post, derives its slug from the title, and
// commits it as a new file. The slug must not collide with an existing
// post.
func (s *PostStore) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := validatePost(post); err != nil {
		return nil, err
	}

	post.Slug = slug.Generate(post.Title)
	if post.Slug == "" {
		return nil, invalid("title", "judul tidak menghasilkan slug yang valid")
	}
	if post.PublishedAt.IsZero() {
		post.PublishedAt = s.now().UTC()
	}

	_, exists, err := s.findPath(ctx, post.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("title", "artikel dengan judul serupa sudah ada")
	}

	raw, err := post.Encode()
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Tambah artikel: %s", post.Title)
	if err := commitOne(ctx, s.repo, gitstore.TextFile(post.FilePath(), raw), msg); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.cache.Invalidate(ctx, "/posts", "/posts/"+post.Slug)
	return post, nil
}

// Update rewrites an existing post in place. The file path, and with it
// the slug and publish date, never changes on update.
func (s *PostStore) Update(ctx context.Context, postSlug string, updated *models.Post) (*models.Post, error) {
	if err := validatePost(updated); err != nil {
		return nil, err
	}

	path, found, err := s.findPath(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, invalid("slug", "artikel tidak ditemukan")
	}
	raw, found, err := s.repo.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read post %s: %w", path, err)
	}
	if !found {
		return nil, invalid("slug", "artikel tidak ditemukan")
	}
	current, err := models.ParsePost(fileName(path), raw)
	if err != nil {
		return nil, fmt.Errorf("parse post %s: %w", path, err)
	}

	updated.Slug = current.Slug
	updated.PublishedAt = current.PublishedAt
	now := s.now().UTC()
	updated.UpdatedAt = &now

	encoded, err := updated.Encode()
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Perbarui artikel: %s", updated.Title)
	// Commit to the located path, never one recomputed from the front
	// matter: nothing stops a hand edit from putting a publishedAt in
	// the front matter that disagrees with the file name's date prefix,
	// and rewriting under a fresh path would strand the old file.
	if err := commitOne(ctx, s.repo, gitstore.TextFile(path, encoded), msg); err != nil {
		return nil, fmt.Errorf("update post %s: %w", postSlug, err)
	}

	s.cache.Invalidate(ctx, "/posts", "/posts/"+postSlug)
	return updated, nil
}

// Delete removes a post by slug.
func (s *PostStore) Delete(ctx context.Context, postSlug string) error {
	path, found, err := s.findPath(ctx, postSlug)
	if err != nil {
		return err
	}
	if !found {
		return invalid("slug", "artikel tidak ditemukan")
	}
	msg := fmt.Sprintf("Hapus artikel: %s", postSlug)
	if err := s.repo.DeleteFile(ctx, path, msg); err != nil {
		return fmt.Errorf("delete post %s: %w", postSlug, err)
	}

	s.cache.Invalidate(ctx, "/posts", "/posts/"+postSlug)
	return nil
}

// findPath locates the repository file whose name encodes the slug.
func (s *PostStore) findPath(ctx context.Context, postSlug string) (string, bool, error) {
	files, err := s.repo.ListDir(ctx, postsDir)
	if err != nil {
		return "", false, fmt.Errorf("list posts: %w", err)
	}
	for _, f := range files {
		if models.SlugFromFileName(f.Name) == postSlug {
			return f.Path, true, nil
		}
	}
	return "", false, nil
}

func validatePost(post *models.Post) error {
	if strings.TrimSpace(post.Title) == "" {
		return invalid("title", "judul wajib diisi")
	}
	if strings.TrimSpace(post.Category) == "" {
		return invalid("category", "kategori wajib diisi")
	}
	if strings.TrimSpace(post.Author) == "" {
		return invalid("author", "penulis wajib diisi")
	}
	return nil
}

func fileName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
