package storage

import (
	"context"

	"vehicle-dashboard/models"
)

// RawSource is the interface any dataset backend must satisfy. FetchRaw is
// called exactly once at startup.
type RawSource interface {
	FetchRaw(ctx context.Context) ([]models.RawListing, error)
	// Describe names the source for logs, e.g. the CSV path.
	Describe() string
	// Checksum fingerprints the data returned by the last FetchRaw.
	Checksum() string
}

// ListingWriter is the interface for exporting cleaned listings.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}
