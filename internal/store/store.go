// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

// Package store implements collection CRUD on top of the Git-backed
// content repository. Each collection gets its own store type; all of
// them read and write through the Repo interface and never talk to the
// GitHub API directly.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"parokicms/internal/gitstore"
)

// Repo is the slice of the content repository the stores need. It is
// satisfied by *gitstore.Store.
type Repo interface {
	ReadFile(ctx context.Context, path string) (string, bool, error)
	ReadFileBytes(ctx context.Context, path string) ([]byte, bool, error)
	ListDir(ctx context.Context, path string) ([]gitstore.FileInfo, error)
	CommitFiles(ctx context.Context, files []gitstore.CommitFile, message string) (string, error)
	DeleteFile(ctx context.Context, path, message string) error
}

// Invalidator receives logical paths whose cached responses went stale
// after a successful mutation. Implementations must be best-effort: a
// failed invalidation is logged, never returned.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

// noopInvalidator is used when no cache is wired in.
type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, ...string) {}

// ValidationError reports a user-correctable problem with submitted
// data. Handlers detect it with errors.As and surface the message
// verbatim; everything else is treated as an internal failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// parseError marks a file that exists but cannot be decoded, as opposed
// to a transport failure. Callers that can fall back to defaults check
// for it with errors.As.
type parseError struct {
	path string
	err  error
}

func (e *parseError) Error() string { return fmt.Sprintf("parse %s: %v", e.path, e.err) }
func (e *parseError) Unwrap() error { return e.err }

// readJSON reads and decodes a JSON file from the repository. The found
// flag is false when the file is absent; a present but unparseable file
// yields a *parseError.
func readJSON(ctx context.Context, repo Repo, path string, v any) (bool, error) {
	raw, found, err := repo.ReadFile(ctx, path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, &parseError{path: path, err: err}
	}
	return true, nil
}

// encodeJSON renders a value the way the content repository stores it:
// two-space indented with a trailing newline, so commits stay readable
// in the repository's own diff view.
func encodeJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(out) + "\n", nil
}

// commitOne wraps the common single-file commit.
func commitOne(ctx context.Context, repo Repo, file gitstore.CommitFile, message string) error {
	_, err := repo.CommitFiles(ctx, []gitstore.CommitFile{file}, message)
	return err
}
