// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"parokicms/internal/gitstore"
	"parokicms/internal/models"
)

const eventsFile = "jadwal-kegiatan.json"

// EventStore manages the activity schedule, a single JSON array
// rewritten wholesale on every save. Listings come back in date order
// so the public schedule reads chronologically.
type EventStore struct {
	repo  Repo
	cache Invalidator
}

// NewEventStore creates a new EventStore.
func NewEventStore(repo Repo, cache Invalidator) *EventStore {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &EventStore{repo: repo, cache: cache}
}

// List returns all events sorted by date, earliest first. An absent
// file is an empty schedule.
func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if _, err := readJSON(ctx, s.repo, eventsFile, &events); err != nil {
		return nil, err
	}
	sortEvents(events)
	return events, nil
}

// Get retrieves one event by ID.
func (s *EventStore) Get(ctx context.Context, id string) (*models.Event, bool, error) {
	events, err := s.List(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range events {
		if events[i].ID == id {
			return &events[i], true, nil
		}
	}
	return nil, false, nil
}

// Create validates and appends a new event with a generated ID.
func (s *EventStore) Create(ctx context.Context, event models.Event) (*models.Event, error) {
	if err := validateEvent(&event); err != nil {
		return nil, err
	}
	events, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	event.ID = uuid.NewString()
	events = append(events, event)
	msg := fmt.Sprintf("Tambah jadwal: %s", event.Title)
	if err := s.save(ctx, events, msg); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update replaces the event with the given ID.
func (s *EventStore) Update(ctx context.Context, id string, event models.Event) (*models.Event, error) {
	if err := validateEvent(&event); err != nil {
		return nil, err
	}
	events, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	idx := eventIndex(events, id)
	if idx < 0 {
		return nil, invalid("id", "jadwal tidak ditemukan")
	}
	event.ID = id
	events[idx] = event

	msg := fmt.Sprintf("Perbarui jadwal: %s", event.Title)
	if err := s.save(ctx, events, msg); err != nil {
		return nil, err
	}
	return &event, nil
}

// Delete removes the event with the given ID.
func (s *EventStore) Delete(ctx context.Context, id string) error {
	events, err := s.List(ctx)
	if err != nil {
		return err
	}

	idx := eventIndex(events, id)
	if idx < 0 {
		return invalid("id", "jadwal tidak ditemukan")
	}
	title := events[idx].Title
	events = append(events[:idx], events[idx+1:]...)

	return s.save(ctx, events, fmt.Sprintf("Hapus jadwal: %s", title))
}

func (s *EventStore) save(ctx context.Context, events []models.Event, message string) error {
	if events == nil {
		events = []models.Event{}
	}
	sortEvents(events)
	raw, err := encodeJSON(events)
	if err != nil {
		return err
	}
	if err := commitOne(ctx, s.repo, gitstore.TextFile(eventsFile, raw), message); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	s.cache.Invalidate(ctx, "/jadwal")
	return nil
}

func sortEvents(events []models.Event) {
	// Dates are "2006-01-02" so lexicographic order is date order.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
}

func eventIndex(events []models.Event, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}

func validateEvent(event *models.Event) error {
	if strings.TrimSpace(event.Title) == "" {
		return invalid("title", "nama kegiatan wajib diisi")
	}
	if strings.TrimSpace(event.Category) == "" {
		return invalid("category", "kategori wajib diisi")
	}
	if _, err := time.Parse("2006-01-02", event.Date); err != nil {
		return invalid("date", "tanggal harus berformat YYYY-MM-DD")
	}
	return nil
}
