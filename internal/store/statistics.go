// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"time"

	"parokicms/internal/gitstore"
	"parokicms/internal/models"
)

const statisticsFile = "statistik.json"

// StatisticsStore manages the parish statistics object.
type StatisticsStore struct {
	repo  Repo
	cache Invalidator
	now   func() time.Time
}

// NewStatisticsStore creates a new StatisticsStore.
func NewStatisticsStore(repo Repo, cache Invalidator) *StatisticsStore {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &StatisticsStore{repo: repo, cache: cache, now: time.Now}
}

// Get returns the stored statistics, or the zero value when the file
// has never been saved.
func (s *StatisticsStore) Get(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	if _, err := readJSON(ctx, s.repo, statisticsFile, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Save validates and persists the statistics, stamping LastUpdated with
// the current time.
func (s *StatisticsStore) Save(ctx context.Context, stats models.Statistics) (*models.Statistics, error) {
	if stats.Churches < 0 || stats.Wards < 0 || stats.Families < 0 || stats.Parishioners < 0 {
		return nil, invalid("statistics", "nilai statistik tidak boleh negatif")
	}
	stats.LastUpdated = s.now().UTC()

	raw, err := encodeJSON(stats)
	if err != nil {
		return nil, err
	}
	if err := commitOne(ctx, s.repo, gitstore.TextFile(statisticsFile, raw), "Perbarui statistik paroki"); err != nil {
		return nil, fmt.Errorf("save statistics: %w", err)
	}

	s.cache.Invalidate(ctx, "/statistik")
	return &stats, nil
}
