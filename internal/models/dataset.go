// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package models

import "time"

// DirectoryEntry is one parish business directory (UMKM) record. The
// whole directory is stored as a JSON array in umkm.json and rewritten
// wholesale on every save.
type DirectoryEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Event is one schedule entry in jadwal-kegiatan.json.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Date        string `json:"date"` // "2006-01-02"
	Time        string `json:"time,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// Statistics is the parish statistics object in statistik.json.
// LastUpdated is set by the store on every save.
type Statistics struct {
	Churches     int       `json:"churches"`
	Wards        int       `json:"wards"`
	Families     int       `json:"families"`
	Parishioners int       `json:"parishioners"`
	LastUpdated  time.Time `json:"lastUpdated"`
}
