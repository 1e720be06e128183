// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

// Package imaging normalizes uploaded images before they are committed
// to the content repository. Oversized uploads are downscaled to the
// preset width and re-encoded as JPEG; WebP files pass through
// untouched because the repository cannot re-encode them.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 82

// Preset is a named maximum width for a processed image.
type Preset struct {
	Name     string
	MaxWidth int
}

// The two presets the admin upload form offers.
var (
	// Banner suits post header images.
	Banner = Preset{Name: "banner", MaxWidth: 1200}
	// Thumbnail suits directory entries and list views.
	Thumbnail = Preset{Name: "thumbnail", MaxWidth: 480}
)

// Result describes a processed upload.
type Result struct {
	Data      []byte
	Extension string // ".jpg" or the original extension for passthrough
	Width     int
	Height    int
}

// Process decodes the upload, downscales it to the preset width when it
// is wider, and encodes it as JPEG. WebP input is returned unmodified,
// whatever its size: decoding WebP is supported but encoding is not.
func Process(data []byte, originalName string, preset Preset) (*Result, error) {
	if strings.EqualFold(ext(originalName), ".webp") {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode webp: %w", err)
		}
		return &Result{Data: data, Extension: ".webp", Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > preset.MaxWidth {
		newH := h * preset.MaxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, preset.MaxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = preset.MaxWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return &Result{Data: buf.Bytes(), Extension: ".jpg", Width: w, Height: h}, nil
}

// PresetByName resolves a preset from a form value, defaulting to
// Banner.
func PresetByName(name string) Preset {
	if name == Thumbnail.Name {
		return Thumbnail
	}
	return Banner
}

func ext(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}
