// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package models

// CategoryDomain names one of the independently managed category lists.
type CategoryDomain string

const (
	CategoryDomainPosts    CategoryDomain = "posts"
	CategoryDomainBusiness CategoryDomain = "business"
	CategoryDomainSchedule CategoryDomain = "schedule"
	CategoryDomainForms    CategoryDomain = "forms"
)

// CategoryList is the stored shape of one category domain file:
// {"categories": [...]}. Entries are case-insensitively unique and kept
// sorted; every mutation rewrites the whole file.
type CategoryList struct {
	Categories []string `json:"categories"`
}

// FilePath returns the repository file holding the domain's list. Posts
// keep the original bare name; the other domains are prefixed.
func (d CategoryDomain) FilePath() string {
	switch d {
	case CategoryDomainBusiness:
		return "umkm-categories.json"
	case CategoryDomainSchedule:
		return "jadwal-categories.json"
	case CategoryDomainForms:
		return "form-categories.json"
	default:
		return "categories.json"
	}
}

// DefaultCategories returns the built-in seed list used when the
// domain's file is absent or unparseable.
func (d CategoryDomain) DefaultCategories() []string {
	switch d {
	case CategoryDomainBusiness:
		return []string{"Jasa", "Kerajinan", "Kuliner", "Lainnya"}
	case CategoryDomainSchedule:
		return []string{"Ibadah", "Kegiatan", "Rapat"}
	case CategoryDomainForms:
		return []string{"Administrasi", "Pendaftaran"}
	default:
		return []string{"Berita", "Kegiatan", "Pengumuman", "Renungan"}
	}
}

// Valid reports whether d is one of the known category domains.
func (d CategoryDomain) Valid() bool {
	switch d {
	case CategoryDomainPosts, CategoryDomainBusiness, CategoryDomainSchedule, CategoryDomainForms:
		return true
	}
	return false
}
