// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package github

import "time"

// User is a GitHub user reference.
type User struct {
	Login   string `json:"login"`
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

// Ref is a git reference (branch or tag).
type Ref struct {
	Ref    string    `json:"ref"` // "refs/heads/main"
	Object RefObject `json:"object"`
}

// RefObject is the object a ref points to.
type RefObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type"` // "commit"
}

// Commit is a git commit object.
type Commit struct {
	SHA     string      `json:"sha"`
	Message string      `json:"message"`
	Tree    CommitTree  `json:"tree"`
	Parents []CommitRef `json:"parents"`
	HTMLURL string      `json:"html_url"`
}

// CommitTree is the tree reference inside a commit.
type CommitTree struct {
	SHA string `json:"sha"`
}

// CommitRef is a parent commit reference.
type CommitRef struct {
	SHA string `json:"sha"`
}

// Blob is a git blob object reference returned from blob creation.
type Blob struct {
	SHA string `json:"sha"`
}

// Tree is a git tree object.
type Tree struct {
	SHA       string      `json:"sha"`
	Truncated bool        `json:"truncated"`
	Entries   []TreeEntry `json:"tree"`
}

// TreeEntry is a single entry in a git tree.
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"` // "100644", "100755", "120000", "160000", "040000"
	Type string `json:"type"` // "blob", "tree", "commit"
	SHA  string `json:"sha"`
	Size int64  `json:"size,omitempty"`
}

// Content is a file or directory entry from the repository contents API.
// For file responses Content holds the base64-encoded payload; directory
// listings return entries without content.
type Content struct {
	Type     string `json:"type"` // "file", "dir", "symlink", "submodule"
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int64  `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"` // "base64" for files
}

// Issue is a GitHub issue.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"` // "open" or "closed"
	HTMLURL   string    `json:"html_url"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
