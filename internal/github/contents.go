// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// contentsPath builds the contents API path for a repository file or
// directory, escaping each path segment and pinning the ref.
func contentsPath(owner, repo, filePath, ref string) string {
	segments := strings.Split(strings.Trim(filePath, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	path := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, strings.Join(segments, "/"))
	if ref != "" {
		path += "?ref=" + url.QueryEscape(ref)
	}
	return path
}

// GetContents fetches a single file from a repository at the given ref.
// The returned Content carries the base64-encoded payload and blob SHA.
// Requesting a directory path returns an error; use ListDirectory.
func (c *Client) GetContents(ctx context.Context, owner, repo, filePath, ref string) (*Content, error) {
	body, err := c.do(ctx, http.MethodGet, contentsPath(owner, repo, filePath, ref), nil)
	if err != nil {
		return nil, fmt.Errorf("getting contents of %s in %s/%s: %w", filePath, owner, repo, err)
	}

	// A directory response is a JSON array; a file is an object.
	if len(body) > 0 && body[0] == '[' {
		return nil, fmt.Errorf("getting contents of %s in %s/%s: path is a directory", filePath, owner, repo)
	}

	var content Content
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, fmt.Errorf("decoding contents of %s: %w", filePath, err)
	}
	return &content, nil
}

// ListDirectory fetches the entries of a repository directory at the
// given ref. Entries come back without file content.
func (c *Client) ListDirectory(ctx context.Context, owner, repo, dirPath, ref string) ([]Content, error) {
	body, err := c.do(ctx, http.MethodGet, contentsPath(owner, repo, dirPath, ref), nil)
	if err != nil {
		return nil, fmt.Errorf("listing directory %s in %s/%s: %w", dirPath, owner, repo, err)
	}

	var entries []Content
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decoding directory listing %s: %w", dirPath, err)
	}
	return entries, nil
}

// DeleteFile removes a file from a repository as its own commit. GitHub
// requires the file's current blob SHA to authorize the delete.
func (c *Client) DeleteFile(ctx context.Context, owner, repo, filePath, branch, sha, message string) error {
	req := struct {
		Message string `json:"message"`
		SHA     string `json:"sha"`
		Branch  string `json:"branch,omitempty"`
	}{Message: message, SHA: sha, Branch: branch}

	_, err := c.do(ctx, http.MethodDelete, contentsPath(owner, repo, filePath, ""), req)
	if err != nil {
		return fmt.Errorf("deleting %s in %s/%s: %w", filePath, owner, repo, err)
	}
	return nil
}
