// Package covers writes one cover image file per record into a target
// directory, best effort.
package covers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
	"unicode"

	"bookdesk/internal/collect"
)

// itemPause is the fixed courtesy pause between downloads.
const itemPause = 50 * time.Millisecond

// maxTitleLen bounds the title fragment used in filenames.
const maxTitleLen = 50

// Getter is the slice of the Open Library client this package needs.
type Getter interface {
	Cover(ctx context.Context, url string) ([]byte, error)
}

// Result reports the outcome for one record.
type Result struct {
	Index int
	Title string
	Path  string
	Err   error
}

// Download writes large covers for every record that has a URL, named by
// 1-based sequence number and a sanitized title fragment. Per-item failures
// are logged and recorded; they never abort the batch.
func Download(ctx context.Context, client Getter, books []collect.Book, dir string) ([]Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	results := make([]Result, 0, len(books))
	for i, b := range books {
		res := Result{Index: i + 1, Title: b.Title}
		if b.CoverURLLarge == "" {
			log.Printf("[%d/%d] skipping %q, no cover URL", i+1, len(books), b.Title)
			res.Err = fmt.Errorf("no cover URL")
			results = append(results, res)
			continue
		}

		data, err := client.Cover(ctx, b.CoverURLLarge)
		if err != nil {
			log.Printf("[%d/%d] cover download failed for %q: %v", i+1, len(books), b.Title, err)
			res.Err = err
			results = append(results, res)
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("%d_%s.jpg", i+1, Filename(b.Title)))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Printf("[%d/%d] writing cover for %q: %v", i+1, len(books), b.Title, err)
			res.Err = err
			results = append(results, res)
			continue
		}
		res.Path = path
		results = append(results, res)

		time.Sleep(itemPause)
	}
	return results, nil
}

// Filename reduces a title to a filesystem-safe fragment: truncated, with
// every non-alphanumeric rune replaced by an underscore.
func Filename(title string) string {
	if title == "" {
		title = "Unknown_Title"
	}
	runes := []rune(title)
	if len(runes) > maxTitleLen {
		runes = runes[:maxTitleLen]
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			runes[i] = '_'
		}
	}
	return string(runes)
}
