// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Input limits for request bodies. The stores enforce the semantic
// rules; these keep obviously broken or abusive payloads from reaching
// a commit.
const (
	maxTitleLen       = 200
	maxDescriptionLen = 500
	maxBodyLen        = 200_000
	maxTagCount       = 10
	maxNameLen        = 100
	maxSubjectLen     = 200
	maxMessageLen     = 5_000
)

// validatePostForm returns an Indonesian error message, or "" when the
// form is acceptable.
func validatePostForm(f *postForm) string {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return "Judul wajib diisi."
	case utf8.RuneCountInString(f.Title) > maxTitleLen:
		return "Judul terlalu panjang."
	case utf8.RuneCountInString(f.Description) > maxDescriptionLen:
		return "Deskripsi terlalu panjang."
	case utf8.RuneCountInString(f.Body) > maxBodyLen:
		return "Isi artikel terlalu panjang."
	case len(f.Tags) > maxTagCount:
		return "Terlalu banyak tag."
	}
	return ""
}

// validateContact returns an Indonesian error message, or "" when the
// submission is acceptable.
func validateContact(req *contactRequest) string {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return "Nama wajib diisi."
	case utf8.RuneCountInString(req.Name) > maxNameLen:
		return "Nama terlalu panjang."
	case strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@"):
		return "Alamat email tidak valid."
	case strings.TrimSpace(req.Subject) == "":
		return "Subjek wajib diisi."
	case utf8.RuneCountInString(req.Subject) > maxSubjectLen:
		return "Subjek terlalu panjang."
	case strings.TrimSpace(req.Message) == "":
		return "Pesan wajib diisi."
	case utf8.RuneCountInString(req.Message) > maxMessageLen:
		return "Pesan terlalu panjang."
	}
	return ""
}
