// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

// Package gitstore is the content access layer: it maps file-level
// operations onto the GitHub API for a single owner/repo/branch target.
// The content repository is the sole source of truth; every write is a
// commit and every read is a fetch from the branch head.
//
// Absence convention: a file the store reports as missing is a normal
// outcome, returned as found=false (or an empty listing), never an error.
// Everything else propagates.
package gitstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"

	"parokicms/internal/github"
)

// ErrConflict is returned by CommitFiles when the branch tip moved
// between reading it and advancing the ref: another writer won the
// compare-and-swap. Callers decide whether to retry or surface it.
var ErrConflict = errors.New("gitstore: branch tip moved during commit")

// FileInfo describes one plain file in a directory listing.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// CommitFile is one file in a multi-file commit. Content is a tagged
// variant: exactly one of text or binary is set, fixed at construction
// so encoding never has to be inferred downstream.
type CommitFile struct {
	path   string
	text   string
	binary []byte
	isBin  bool
}

// TextFile builds a CommitFile holding UTF-8 text content.
func TextFile(path, content string) CommitFile {
	return CommitFile{path: path, text: content}
}

// BinaryFile builds a CommitFile holding raw bytes, committed base64.
func BinaryFile(path string, data []byte) CommitFile {
	return CommitFile{path: path, binary: data, isBin: true}
}

// Path returns the repository-relative path the file commits to.
func (f CommitFile) Path() string { return f.path }

// Data returns the file content as bytes regardless of variant.
func (f CommitFile) Data() []byte {
	if f.isBin {
		return f.binary
	}
	return []byte(f.text)
}

// Store exposes file operations against one content repository branch.
type Store struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

// New binds a client to the content repository target.
func New(client *github.Client, owner, repo, branch string) *Store {
	if branch == "" {
		branch = "main"
	}
	return &Store{client: client, owner: owner, repo: repo, branch: branch}
}

// ReadFile fetches a file from the branch head and decodes it to text.
// found is false when the store reports the path missing.
func (s *Store) ReadFile(ctx context.Context, path string) (content string, found bool, err error) {
	data, found, err := s.ReadFileBytes(ctx, path)
	if err != nil || !found {
		return "", found, err
	}
	return string(data), true, nil
}

// ReadFileBytes fetches a file from the branch head as raw bytes.
func (s *Store) ReadFileBytes(ctx context.Context, path string) ([]byte, bool, error) {
	content, err := s.client.GetContents(ctx, s.owner, s.repo, path, s.branch)
	if err != nil {
		if github.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	data, err := decodeContent(content)
	if err != nil {
		return nil, false, fmt.Errorf("gitstore: decoding %s: %w", path, err)
	}
	return data, true, nil
}

// ListDir lists the plain files in a directory on the branch head,
// sorted by name. Directories are excluded; an absent directory yields
// an empty list.
func (s *Store) ListDir(ctx context.Context, path string) ([]FileInfo, error) {
	entries, err := s.client.ListDirectory(ctx, s.owner, s.repo, path, s.branch)
	if err != nil {
		if github.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.Type != "file" {
			continue
		}
		files = append(files, FileInfo{Name: entry.Name, Path: entry.Path, Size: entry.Size})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// CommitFiles lands all the given files in one new commit on the branch:
// read the tip, create one blob per file, layer a tree on the tip's
// tree, create the commit with the tip as sole parent, then advance the
// ref without force. The ref update is a compare-and-swap against the
// tip read in step one; losing the race returns ErrConflict and none of
// the files become reachable. Returns the new commit SHA.
func (s *Store) CommitFiles(ctx context.Context, files []CommitFile, message string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("gitstore: commit with no files")
	}

	ref, err := s.client.GetRef(ctx, s.owner, s.repo, "heads/"+s.branch)
	if err != nil {
		return "", fmt.Errorf("gitstore: reading branch tip: %w", err)
	}
	tip := ref.Object.SHA

	tipCommit, err := s.client.GetCommit(ctx, s.owner, s.repo, tip)
	if err != nil {
		return "", fmt.Errorf("gitstore: reading tip commit: %w", err)
	}

	entries := make([]github.CreateTreeEntry, 0, len(files))
	for _, file := range files {
		blobReq := github.CreateBlobRequest{Content: file.text, Encoding: "utf-8"}
		if file.isBin {
			blobReq = github.CreateBlobRequest{
				Content:  base64.StdEncoding.EncodeToString(file.binary),
				Encoding: "base64",
			}
		}
		blob, err := s.client.CreateBlob(ctx, s.owner, s.repo, blobReq)
		if err != nil {
			return "", fmt.Errorf("gitstore: creating blob for %s: %w", file.path, err)
		}
		sha := blob.SHA
		entries = append(entries, github.CreateTreeEntry{
			Path: file.path,
			Mode: "100644",
			Type: "blob",
			SHA:  &sha,
		})
	}

	tree, err := s.client.CreateTree(ctx, s.owner, s.repo, github.CreateTreeRequest{
		BaseTree: tipCommit.Tree.SHA,
		Entries:  entries,
	})
	if err != nil {
		return "", fmt.Errorf("gitstore: creating tree: %w", err)
	}

	commit, err := s.client.CreateCommit(ctx, s.owner, s.repo, github.CreateCommitRequest{
		Message: message,
		Tree:    tree.SHA,
		Parents: []string{tip},
	})
	if err != nil {
		return "", fmt.Errorf("gitstore: creating commit: %w", err)
	}

	if _, err := s.client.UpdateRef(ctx, s.owner, s.repo, "heads/"+s.branch, commit.SHA, false); err != nil {
		// GitHub reports a lost fast-forward race as 422, occasionally
		// 409. Either way the tip moved under us.
		if github.IsValidationFailed(err) || github.IsConflict(err) {
			return "", fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return "", fmt.Errorf("gitstore: advancing branch ref: %w", err)
	}

	return commit.SHA, nil
}

// DeleteFile removes a file as its own commit. The store requires the
// file's current blob SHA, so an already-absent file surfaces as the
// underlying not-found error rather than being masked.
func (s *Store) DeleteFile(ctx context.Context, path, message string) error {
	content, err := s.client.GetContents(ctx, s.owner, s.repo, path, s.branch)
	if err != nil {
		return fmt.Errorf("gitstore: resolving %s for delete: %w", path, err)
	}
	return s.client.DeleteFile(ctx, s.owner, s.repo, path, s.branch, content.SHA, message)
}

// IsCollaborator checks the repository's native access control list.
func (s *Store) IsCollaborator(ctx context.Context, username string) (bool, error) {
	return s.client.IsCollaborator(ctx, s.owner, s.repo, username)
}

// decodeContent decodes a contents API payload. GitHub wraps base64 at
// 60 columns, so newlines are stripped before decoding.
func decodeContent(content *github.Content) ([]byte, error) {
	switch content.Encoding {
	case "base64":
		cleaned := make([]byte, 0, len(content.Content))
		for i := 0; i < len(content.Content); i++ {
			if c := content.Content[i]; c != '\n' && c != '\r' {
				cleaned = append(cleaned, c)
			}
		}
		return base64.StdEncoding.DecodeString(string(cleaned))
	case "", "none":
		return []byte(content.Content), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", content.Encoding)
	}
}
