package services

import (
	"context"
	"fmt"
	"time"

	"vehicle-dashboard/models"
	"vehicle-dashboard/storage"
)

// LoadDataset fetches the raw rows once and cleans them. Any failure is fatal
// for the caller: there is no partial dataset.
func LoadDataset(ctx context.Context, src storage.RawSource, cleaner *Cleaner) (*models.Dataset, error) {
	raw, err := src.FetchRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Describe(), err)
	}

	listings, err := cleaner.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", src.Describe(), err)
	}

	return &models.Dataset{
		Listings: listings,
		Source:   src.Describe(),
		Checksum: src.Checksum(),
		LoadedAt: time.Now(),
	}, nil
}
