// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
)

// MediaAsset describes one uploaded image in the content repository's
// flat images/ namespace. Assets are immutable after upload: they are
// only ever added or deleted, never rewritten.
type MediaAsset struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// IsImage reports whether the asset's extension is a servable image type.
func (m *MediaAsset) IsImage() bool {
	switch strings.ToLower(extOf(m.Name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

// HumanSize returns a human-readable file size string.
func (m *MediaAsset) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.Size >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.Size)/float64(mb))
	case m.Size >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.Size)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.Size)
	}
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}
