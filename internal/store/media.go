// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"parokicms/internal/gitstore"
	"parokicms/internal/models"
	"parokicms/internal/slug"
)

const imagesDir = "images"

// MediaStore manages uploaded images in the repository's flat images/
// namespace. Uploads get a collision-proof generated name; assets are
// never rewritten, only added and deleted.
type MediaStore struct {
	repo  Repo
	cache Invalidator
	now   func() time.Time
}

// NewMediaStore creates a new MediaStore.
func NewMediaStore(repo Repo, cache Invalidator) *MediaStore {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &MediaStore{repo: repo, cache: cache, now: time.Now}
}

// List returns all stored images.
func (s *MediaStore) List(ctx context.Context) ([]models.MediaAsset, error) {
	files, err := s.repo.ListDir(ctx, imagesDir)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	assets := make([]models.MediaAsset, 0, len(files))
	for _, f := range files {
		asset := models.MediaAsset{Name: f.Name, Path: f.Path, Size: f.Size}
		if asset.IsImage() {
			assets = append(assets, asset)
		}
	}
	return assets, nil
}

// Read returns the raw bytes of one stored image.
func (s *MediaStore) Read(ctx context.Context, name string) ([]byte, bool, error) {
	if err := validateAssetName(name); err != nil {
		return nil, false, err
	}
	data, found, err := s.repo.ReadFileBytes(ctx, imagesDir+"/"+name)
	if err != nil {
		return nil, false, fmt.Errorf("read media %s: %w", name, err)
	}
	return data, found, nil
}

// Upload stores image bytes under a generated name derived from the
// original file name, a timestamp, and a random suffix.
func (s *MediaStore) Upload(ctx context.Context, originalName string, data []byte) (*models.MediaAsset, error) {
	if len(data) == 0 {
		return nil, invalid("file", "berkas kosong")
	}
	ext := strings.ToLower(extension(originalName))
	probe := models.MediaAsset{Name: "probe" + ext}
	if !probe.IsImage() {
		return nil, invalid("file", "jenis berkas tidak didukung, unggah gambar")
	}

	base := slug.Generate(strings.TrimSuffix(originalName, extension(originalName)))
	if base == "" {
		base = "gambar"
	}
	name := fmt.Sprintf("%s-%d-%s%s", base, s.now().Unix(), uuid.NewString()[:8], ext)
	path := imagesDir + "/" + name

	msg := fmt.Sprintf("Unggah gambar: %s", name)
	if err := commitOne(ctx, s.repo, gitstore.BinaryFile(path, data), msg); err != nil {
		return nil, fmt.Errorf("upload media %s: %w", name, err)
	}

	s.cache.Invalidate(ctx, "/media")
	return &models.MediaAsset{Name: name, Path: path, Size: int64(len(data))}, nil
}

// Delete removes a stored image by file name.
func (s *MediaStore) Delete(ctx context.Context, name string) error {
	if err := validateAssetName(name); err != nil {
		return err
	}
	msg := fmt.Sprintf("Hapus gambar: %s", name)
	if err := s.repo.DeleteFile(ctx, imagesDir+"/"+name, msg); err != nil {
		return fmt.Errorf("delete media %s: %w", name, err)
	}

	s.cache.Invalidate(ctx, "/media")
	return nil
}

// validateAssetName rejects names that could escape the images/
// namespace.
func validateAssetName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return invalid("name", "nama berkas tidak valid")
	}
	return nil
}

func extension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}
