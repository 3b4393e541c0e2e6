package collect

import (
	"context"
	"log"

	"bookdesk/internal/openlibrary"
)

// BatchSize is the largest number of ISBNs sent in one search query.
const BatchSize = 50

// Catalog is the slice of the Open Library client this service needs.
type Catalog interface {
	SearchISBNs(ctx context.Context, isbns []string) (*openlibrary.SearchResponse, error)
	SearchSubject(ctx context.Context, subject string, page, limit int) (*openlibrary.SearchResponse, error)
	GetWork(ctx context.Context, key string) (*openlibrary.Work, error)
}

// Service runs the fetch pipeline: chunk, query, match, build.
type Service struct {
	catalog Catalog
}

func NewService(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// FetchByISBNs queries the given identifiers in chunks of at most BatchSize,
// one request per chunk, in order. A chunk that fails is logged and skipped;
// it contributes zero records and never aborts the chunks after it. An empty
// result is a valid "nothing found" outcome.
func (s *Service) FetchByISBNs(ctx context.Context, isbns []string) ([]Book, *Run) {
	run := newRun()
	defer run.finish()

	var books []Book
	for _, chunk := range chunkISBNs(isbns, BatchSize) {
		run.Chunks++
		res, err := s.catalog.SearchISBNs(ctx, chunk)
		if err != nil {
			log.Printf("search failed for chunk of %d: %v", len(chunk), err)
			run.ChunksFailed++
			run.Errors = append(run.Errors, err.Error())
			continue
		}
		run.DocsSeen += len(res.Docs)
		books = append(books, matchChunk(chunk, res.Docs, run)...)
	}
	return books, run
}

// SampleBySubject is the discovery flow: build records straight from a
// subject search page. Records carry the raw numeric cover asset id and no
// description; the enricher fills that in on demand.
func (s *Service) SampleBySubject(ctx context.Context, subject string, page, limit int) ([]Book, error) {
	res, err := s.catalog.SearchSubject(ctx, subject, page, limit)
	if err != nil {
		return nil, err
	}

	books := make([]Book, 0, len(res.Docs))
	for _, doc := range res.Docs {
		b := Book{
			Title:          doc.Title,
			Authors:        doc.AuthorNames,
			OpenLibraryKey: doc.Key,
			Subjects:       doc.Subjects,
			CoverID:        doc.CoverID,
		}
		if b.Title == "" {
			b.Title = UnknownTitle
		}
		if len(b.Authors) == 0 {
			b.Authors = []string{UnknownAuthor}
		}
		if id := pickISBN(doc.ISBNs); id != "" {
			b.ISBNs = []string{id}
			b.CoverURLMedium = openlibrary.CoverURL(id, openlibrary.SizeMedium)
			b.CoverURLLarge = openlibrary.CoverURL(id, openlibrary.SizeLarge)
		} else if doc.CoverID != 0 {
			b.CoverURLMedium = openlibrary.CoverIDURL(doc.CoverID, openlibrary.SizeMedium)
			b.CoverURLLarge = openlibrary.CoverIDURL(doc.CoverID, openlibrary.SizeLarge)
		}
		books = append(books, b)
	}
	return books, nil
}

// pickISBN prefers a 13-digit ISBN when the document lists both forms.
func pickISBN(isbns []string) string {
	if len(isbns) == 0 {
		return ""
	}
	for _, id := range isbns {
		if len(id) == 13 {
			return id
		}
	}
	return isbns[0]
}

func chunkISBNs(isbns []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(isbns); start += size {
		end := start + size
		if end > len(isbns) {
			end = len(isbns)
		}
		chunks = append(chunks, isbns[start:end])
	}
	return chunks
}
