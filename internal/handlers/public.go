// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"parokicms/internal/markdown"
	"parokicms/internal/models"
	"parokicms/internal/store"
)

// PageCache is the slice of the response cache the public handlers
// need. A nil cache disables caching.
type PageCache interface {
	Get(ctx context.Context, path string) ([]byte, bool)
	Set(ctx context.Context, path string, body []byte)
}

// Public groups the read-only JSON endpoints of the site. Every
// response is served through the page cache so repeat reads never reach
// the content repository.
type Public struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	directory  *store.DirectoryStore
	events     *store.EventStore
	statistics *store.StatisticsStore
	media      *store.MediaStore
	pageCache  PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(posts *store.PostStore, categories *store.CategoryStore, directory *store.DirectoryStore, events *store.EventStore, statistics *store.StatisticsStore, media *store.MediaStore, pageCache PageCache) *Public {
	return &Public{
		posts:      posts,
		categories: categories,
		directory:  directory,
		events:     events,
		statistics: statistics,
		media:      media,
		pageCache:  pageCache,
	}
}

// postSummary is the list-view shape of a post: everything but the body.
type postSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Banner      string `json:"banner,omitempty"`
	PublishedAt string `json:"publishedAt"`
}

// postDetail adds the body, both as markdown source and rendered HTML.
type postDetail struct {
	postSummary
	Tags []string        `json:"tags,omitempty"`
	SEO  *models.PostSEO `json:"seo,omitempty"`
	Body string          `json:"body"`
	HTML string          `json:"html"`
}

// ListPosts serves the published posts, newest first.
func (p *Public) ListPosts(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, "/posts", func(ctx context.Context) (any, error) {
		posts, err := p.posts.Published(ctx)
		if err != nil {
			return nil, err
		}
		summaries := make([]postSummary, 0, len(posts))
		for _, post := range posts {
			summaries = append(summaries, summarize(post))
		}
		return summaries, nil
	})
}

// GetPost serves one published post by slug, with the body rendered to
// HTML.
func (p *Public) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p.cached(w, r, "/posts/"+slug, func(ctx context.Context) (any, error) {
		post, found, err := p.posts.Get(ctx, slug)
		if err != nil {
			return nil, err
		}
		if !found || !post.Published {
			return nil, errNotFound
		}
		html, err := markdown.ToHTML(post.Body)
		if err != nil {
			return nil, err
		}
		return postDetail{
			postSummary: summarize(post),
			Tags:        post.Tags,
			SEO:         post.SEO,
			Body:        post.Body,
			HTML:        html,
		}, nil
	})
}

// Categories serves one category domain's list.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	domain := models.CategoryDomain(chi.URLParam(r, "domain"))
	p.cached(w, r, "/categories/"+string(domain), func(ctx context.Context) (any, error) {
		list, err := p.categories.List(ctx, domain)
		if err != nil {
			return nil, err
		}
		return models.CategoryList{Categories: list}, nil
	})
}

// Directory serves the business directory.
func (p *Public) Directory(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, "/umkm", func(ctx context.Context) (any, error) {
		return p.directory.List(ctx)
	})
}

// Events serves the activity schedule in date order.
func (p *Public) Events(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, "/jadwal", func(ctx context.Context) (any, error) {
		return p.events.List(ctx)
	})
}

// Statistics serves the parish statistics.
func (p *Public) Statistics(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, "/statistik", func(ctx context.Context) (any, error) {
		return p.statistics.Get(ctx)
	})
}

// Image streams a stored image. Bytes are immutable once uploaded, so
// the response is marked long-cacheable for browsers and proxies.
func (p *Public) Image(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, found, err := p.media.Read(r.Context(), name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !found {
		respondNotFound(w)
		return
	}
	w.Header().Set("Content-Type", imageContentType(name))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(data)
}

// errNotFound signals cached() to emit the 404 envelope.
var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "not found" }

// cached serves the path from the page cache when possible, otherwise
// builds the response, stores it, and serves it. Error responses are
// never cached.
func (p *Public) cached(w http.ResponseWriter, r *http.Request, path string, build func(ctx context.Context) (any, error)) {
	ctx := r.Context()

	if p.pageCache != nil {
		if body, ok := p.pageCache.Get(ctx, path); ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Write(body)
			return
		}
	}

	v, err := build(ctx)
	if err != nil {
		if err == errNotFound {
			respondNotFound(w)
			return
		}
		respondError(w, r, err)
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if p.pageCache != nil {
		p.pageCache.Set(ctx, path, body)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

func summarize(post *models.Post) postSummary {
	return postSummary{
		Slug:        post.Slug,
		Title:       post.Title,
		Description: post.Description,
		Author:      post.Author,
		Category:    post.Category,
		Banner:      post.Banner,
		PublishedAt: post.PublishedAt.Format("2006-01-02"),
	}
}

func imageContentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".png"):
		return "image/png"
	case strings.HasSuffix(name, ".gif"):
		return "image/gif"
	case strings.HasSuffix(name, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
