// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"parokicms/internal/imaging"
	"parokicms/internal/store"
)

// maxUploadBytes caps the multipart body of an image upload.
const maxUploadBytes = 10 << 20

// Media groups the admin image endpoints.
type Media struct {
	store *store.MediaStore
}

// NewMedia creates a new Media handler group.
func NewMedia(s *store.MediaStore) *Media {
	return &Media{store: s}
}

// List serves all stored images.
func (m *Media) List(w http.ResponseWriter, r *http.Request) {
	assets, err := m.store.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, assets)
}

// Upload accepts a multipart form with an "image" file and an optional
// "preset" value, normalizes the image, and commits it.
func (m *Media) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Unggahan tidak valid atau terlalu besar."})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Berkas gambar wajib diunggah."})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	preset := imaging.PresetByName(r.FormValue("preset"))
	result, err := imaging.Process(data, header.Filename, preset)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Berkas bukan gambar yang dapat diproses."})
		return
	}

	asset, err := m.store.Upload(r.Context(), withExtension(header.Filename, result.Extension), result.Data)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondOK(w, "Gambar terunggah.", map[string]any{
		"name":      asset.Name,
		"path":      asset.Path,
		"size":      asset.Size,
		"humanSize": asset.HumanSize(),
		"width":     result.Width,
		"height":    result.Height,
	})
}

// Delete removes a stored image.
func (m *Media) Delete(w http.ResponseWriter, r *http.Request) {
	if err := m.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, "Gambar dihapus.", nil)
}

// withExtension swaps the file name's extension for the one the image
// pipeline actually produced.
func withExtension(name, ext string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name + ext
}
