// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package github

import (
	"context"
	"fmt"
	"net/url"
)

// CreateBlobRequest contains the fields for creating a git blob.
type CreateBlobRequest struct {
	// Content is the blob payload: UTF-8 text or a base64 string,
	// according to Encoding.
	Content string `json:"content"`

	// Encoding is "utf-8" or "base64".
	Encoding string `json:"encoding"`
}

// CreateTreeRequest contains the fields for creating a git tree. This is
// the middle step of the API-mediated commit path: blobs → tree → commit
// → ref update.
type CreateTreeRequest struct {
	// BaseTree is the SHA of the tree the new tree is layered on. If
	// empty, the tree is created from scratch.
	BaseTree string `json:"base_tree,omitempty"`

	// Entries are the tree entries to create or replace.
	Entries []CreateTreeEntry `json:"tree"`
}

// CreateTreeEntry describes one entry in a tree creation request.
type CreateTreeEntry struct {
	// Path is the file path relative to the repository root.
	Path string `json:"path"`

	// Mode is the file mode, normally "100644" for regular files.
	Mode string `json:"mode"`

	// Type is the object type: "blob", "tree", or "commit".
	Type string `json:"type"`

	// SHA is the blob SHA of an already-created blob. A nil SHA with a
	// non-nil Content would inline the blob instead; this codebase always
	// pre-creates blobs so binary content round-trips correctly.
	SHA *string `json:"sha,omitempty"`

	// Content inlines file content instead of referencing a blob SHA.
	// Mutually exclusive with SHA.
	Content *string `json:"content,omitempty"`
}

// CreateCommitRequest contains the fields for creating a git commit.
type CreateCommitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

// GetRef fetches a git reference. The ref is given without the "refs/"
// prefix, e.g. "heads/main".
func (c *Client) GetRef(ctx context.Context, owner, repo, ref string) (*Ref, error) {
	var result Ref
	path := fmt.Sprintf("/repos/%s/%s/git/ref/%s", owner, repo, url.PathEscape(ref))
	if err := c.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("getting ref %s in %s/%s: %w", ref, owner, repo, err)
	}
	return &result, nil
}

// GetCommit fetches a git commit object by SHA.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (*Commit, error) {
	var commit Commit
	path := fmt.Sprintf("/repos/%s/%s/git/commits/%s", owner, repo, sha)
	if err := c.get(ctx, path, &commit); err != nil {
		return nil, fmt.Errorf("getting commit %s in %s/%s: %w", sha, owner, repo, err)
	}
	return &commit, nil
}

// CreateBlob creates a git blob object and returns its SHA.
func (c *Client) CreateBlob(ctx context.Context, owner, repo string, req CreateBlobRequest) (*Blob, error) {
	var blob Blob
	path := fmt.Sprintf("/repos/%s/%s/git/blobs", owner, repo)
	if err := c.post(ctx, path, req, &blob); err != nil {
		return nil, fmt.Errorf("creating blob in %s/%s: %w", owner, repo, err)
	}
	return &blob, nil
}

// CreateTree creates a git tree object.
func (c *Client) CreateTree(ctx context.Context, owner, repo string, req CreateTreeRequest) (*Tree, error) {
	var tree Tree
	path := fmt.Sprintf("/repos/%s/%s/git/trees", owner, repo)
	if err := c.post(ctx, path, req, &tree); err != nil {
		return nil, fmt.Errorf("creating tree in %s/%s: %w", owner, repo, err)
	}
	return &tree, nil
}

// CreateCommit creates a git commit object.
func (c *Client) CreateCommit(ctx context.Context, owner, repo string, req CreateCommitRequest) (*Commit, error) {
	var commit Commit
	path := fmt.Sprintf("/repos/%s/%s/git/commits", owner, repo)
	if err := c.post(ctx, path, req, &commit); err != nil {
		return nil, fmt.Errorf("creating commit in %s/%s: %w", owner, repo, err)
	}
	return &commit, nil
}

// UpdateRef advances a git reference to a new commit. With force false
// this is a fast-forward-only update: GitHub rejects it when the ref has
// moved since the commit's parent was read, which is the compare-and-swap
// the commit path relies on.
func (c *Client) UpdateRef(ctx context.Context, owner, repo, ref, sha string, force bool) (*Ref, error) {
	var result Ref
	req := struct {
		SHA   string `json:"sha"`
		Force bool   `json:"force"`
	}{SHA: sha, Force: force}

	path := fmt.Sprintf("/repos/%s/%s/git/refs/%s", owner, repo, url.PathEscape(ref))
	if err := c.patch(ctx, path, req, &result); err != nil {
		return nil, fmt.Errorf("updating ref %s in %s/%s: %w", ref, owner, repo, err)
	}
	return &result, nil
}
