// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Post is one article in the content repository, stored as a markdown
// file with YAML front matter at posts/<YYYY-MM-DD>-<slug>.md. The file
// path encodes the creation date and the slug; the slug is unique among
// post paths.
type Post struct {
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Author      string     `yaml:"author" json:"author"`
	Tags        []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	Category    string     `yaml:"category" json:"category"`
	Banner      string     `yaml:"banner,omitempty" json:"banner,omitempty"`
	Published   bool       `yaml:"published" json:"published"`
	PublishedAt time.Time  `yaml:"publishedAt" json:"publishedAt"`
	UpdatedAt   *time.Time `yaml:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	SEO         *PostSEO   `yaml:"seo,omitempty" json:"seo,omitempty"`

	// Slug and Body are not part of the front matter: the slug lives in
	// the file path and the body follows the closing delimiter.
	Slug string `yaml:"-" json:"slug"`
	Body string `yaml:"-" json:"body"`
}

// PostSEO holds optional per-post overrides for page metadata.
type PostSEO struct {
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// frontMatterDelimiter separates YAML front matter from the markdown body.
const frontMatterDelimiter = "---"

// FilePath returns the repository path for the post, derived from its
// publish date and slug.
func (p *Post) FilePath() string {
	return fmt.Sprintf("posts/%s-%s.md", p.PublishedAt.Format("2006-01-02"), p.Slug)
}

// Encode serializes the post to its stored form: YAML front matter
// between "---" delimiters followed by the markdown body.
func (p *Post) Encode() (string, error) {
	meta, err := yaml.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding post front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontMatterDelimiter)
	b.WriteString("\n")
	b.Write(meta)
	b.WriteString(frontMatterDelimiter)
	b.WriteString("\n")
	b.WriteString(p.Body)
	return b.String(), nil
}

// ParsePost decodes a stored post file. The slug is taken from the file
// name, which is "<YYYY-MM-DD>-<slug>.md".
func ParsePost(fileName, raw string) (*Post, error) {
	rest, ok := strings.CutPrefix(raw, frontMatterDelimiter+"\n")
	if !ok {
		return nil, fmt.Errorf("post %s: missing front matter", fileName)
	}
	meta, body, ok := strings.Cut(rest, "\n"+frontMatterDelimiter+"\n")
	if !ok {
		// The closing delimiter may end the file without a trailing body.
		meta, ok = strings.CutSuffix(rest, "\n"+frontMatterDelimiter)
		if !ok {
			return nil, fmt.Errorf("post %s: unterminated front matter", fileName)
		}
		body = ""
	}

	var post Post
	if err := yaml.Unmarshal([]byte(meta), &post); err != nil {
		return nil, fmt.Errorf("post %s: parsing front matter: %w", fileName, err)
	}
	post.Body = body
	post.Slug = SlugFromFileName(fileName)
	if post.Slug == "" {
		return nil, fmt.Errorf("post %s: file name does not encode a slug", fileName)
	}
	return &post, nil
}

// SlugFromFileName extracts the slug from a post file name of the form
// "<YYYY-MM-DD>-<slug>.md". Returns "" for names that don't match.
func SlugFromFileName(fileName string) string {
	name, ok := strings.CutSuffix(fileName, ".md")
	if !ok {
		return ""
	}
	// Date prefix is exactly "YYYY-MM-DD-" (11 bytes).
	if len(name) < 12 || name[4] != '-' || name[7] != '-' || name[10] != '-' {
		return ""
	}
	return name[11:]
}
