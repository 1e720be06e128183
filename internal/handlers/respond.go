// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP surface: public JSON endpoints,
// the admin CRUD API, and authentication. Responses follow one shape
// everywhere: data payloads for reads, {"success", "message"} envelopes
// for mutations and errors.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"parokicms/internal/gitstore"
	"parokicms/internal/store"
)

// envelope is the mutation and error response body.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondData writes a raw data payload for read endpoints.
func respondData(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

// respondOK writes a success envelope for mutations.
func respondOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// respondError maps an error to the client-facing envelope. Validation
// problems surface their message verbatim; a lost commit race asks the
// editor to retry; everything else is logged and masked.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: ve.Message})
		return
	}
	if errors.Is(err, gitstore.ErrConflict) {
		writeJSON(w, http.StatusConflict, envelope{
			Success: false,
			Message: "Perubahan lain baru saja disimpan. Muat ulang dan coba lagi.",
		})
		return
	}
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "Terjadi kesalahan pada server.",
	})
}

// respondNotFound writes the uniform absent-resource envelope.
func respondNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Data tidak ditemukan."})
}

// decodeBody parses a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &store.ValidationError{Message: "Permintaan tidak valid."}
	}
	return nil
}
