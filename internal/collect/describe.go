package collect

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoKey is returned when a record has no Open Library key to look up.
var ErrNoKey = errors.New("no Open Library key")

// Describe fetches the detail record behind the book's key and fills in its
// description. One attempt: on failure the record is left untouched with
// DescriptionLoaded still false, so the next access retries.
func (s *Service) Describe(ctx context.Context, b *Book) error {
	if b.DescriptionLoaded {
		return nil
	}
	if b.OpenLibraryKey == "" {
		return ErrNoKey
	}

	work, err := s.catalog.GetWork(ctx, b.OpenLibraryKey)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", b.OpenLibraryKey, err)
	}

	desc, ok := work.Description.Get()
	if !ok {
		desc = NoDescription
	}
	b.Description = desc
	b.DescriptionLoaded = true
	return nil
}
