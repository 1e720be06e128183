// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"parokicms/internal/gitstore"
)

// fakeRepo is an in-memory stand-in for the Git-backed content
// repository. It honors the same conventions: absence is a found=false,
// deleting a missing file is an error, commits apply all files at once.
type fakeRepo struct {
	files    map[string][]byte
	commits  []string
	failNext error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{files: make(map[string][]byte)}
}

func (r *fakeRepo) ReadFile(ctx context.Context, path string) (string, bool, error) {
	data, found, err := r.ReadFileBytes(ctx, path)
	return string(data), found, err
}

func (r *fakeRepo) ReadFileBytes(_ context.Context, path string) ([]byte, bool, error) {
	data, ok := r.files[path]
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

func (r *fakeRepo) ListDir(_ context.Context, dir string) ([]gitstore.FileInfo, error) {
	prefix := dir + "/"
	var infos []gitstore.FileInfo
	for path, data := range r.files {
		name, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(name, "/") {
			continue
		}
		infos = append(infos, gitstore.FileInfo{Name: name, Path: path, Size: int64(len(data))})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (r *fakeRepo) CommitFiles(_ context.Context, files []gitstore.CommitFile, message string) (string, error) {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return "", err
	}
	for _, f := range files {
		r.files[f.Path()] = f.Data()
	}
	r.commits = append(r.commits, message)
	return fmt.Sprintf("commit-%d", len(r.commits)), nil
}

func (r *fakeRepo) DeleteFile(_ context.Context, path, message string) error {
	if _, ok := r.files[path]; !ok {
		return fmt.Errorf("delete %s: file not found", path)
	}
	delete(r.files, path)
	r.commits = append(r.commits, message)
	return nil
}

// recordingCache captures invalidation signals for assertions.
type recordingCache struct {
	paths []string
}

func (c *recordingCache) Invalidate(_ context.Context, paths ...string) {
	c.paths = append(c.paths, paths...)
}

func (c *recordingCache) saw(path string) bool {
	for _, p := range c.paths {
		if p == path {
			return true
		}
	}
	return false
}

func isValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
