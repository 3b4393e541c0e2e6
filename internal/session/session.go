// Package session holds the operator's in-memory working state: the fetched
// record list, the currently selected record, and the operations the review
// surface drives. Nothing here survives the process.
package session

import (
	"context"
	"errors"
	"strings"

	"bookdesk/internal/collect"
	"bookdesk/internal/covers"
	"bookdesk/internal/isbn"
	"bookdesk/internal/strapi"
)

// ErrNoSelection is returned when an operation needs a current record and the
// session has none.
var ErrNoSelection = errors.New("no record selected")

// Defaults the review form starts from.
const (
	DefaultCondition = "Good"
	DefaultStatus    = "available"
)

// Fetcher is the slice of the collect service the session drives.
type Fetcher interface {
	FetchByISBNs(ctx context.Context, isbns []string) ([]collect.Book, *collect.Run)
	SampleBySubject(ctx context.Context, subject string, page, limit int) ([]collect.Book, error)
	Describe(ctx context.Context, b *collect.Book) error
}

// Session is the single-operator working state.
type Session struct {
	fetcher Fetcher
	client  covers.Getter

	books   []collect.Book
	current int
}

func New(fetcher Fetcher, client covers.Getter) *Session {
	return &Session{fetcher: fetcher, client: client, current: -1}
}

// Fetch normalizes the raw identifier text, fetches matching records, and
// replaces the whole collection. The first record becomes current.
func (s *Session) Fetch(ctx context.Context, raw string) (*collect.Run, error) {
	ids, err := isbn.Normalize(raw)
	if err != nil {
		return nil, err
	}
	books, run := s.fetcher.FetchByISBNs(ctx, ids)
	s.replace(books)
	return run, nil
}

// Sample replaces the collection with a subject discovery page.
func (s *Session) Sample(ctx context.Context, subject string, page, limit int) error {
	books, err := s.fetcher.SampleBySubject(ctx, subject, page, limit)
	if err != nil {
		return err
	}
	s.replace(books)
	return nil
}

func (s *Session) replace(books []collect.Book) {
	s.books = books
	s.current = -1
	if len(books) > 0 {
		s.current = 0
	}
}

// Books exposes the collection for display and bulk operations.
func (s *Session) Books() []collect.Book {
	return s.books
}

func (s *Session) Len() int {
	return len(s.books)
}

// Current returns the selected record, mutable in place.
func (s *Session) Current() (*collect.Book, bool) {
	if s.current < 0 || s.current >= len(s.books) {
		return nil, false
	}
	return &s.books[s.current], true
}

// Index reports the zero-based current position, -1 when empty.
func (s *Session) Index() int {
	return s.current
}

// Next advances the selection; it reports whether it moved.
func (s *Session) Next() bool {
	if s.current >= 0 && s.current < len(s.books)-1 {
		s.current++
		return true
	}
	return false
}

// Prev moves the selection back; it reports whether it moved.
func (s *Session) Prev() bool {
	if s.current > 0 {
		s.current--
		return true
	}
	return false
}

// DescribeCurrent ensures the selected record's description is loaded,
// fetching it on first access only.
func (s *Session) DescribeCurrent(ctx context.Context) (string, error) {
	b, ok := s.Current()
	if !ok {
		return "", ErrNoSelection
	}
	if !b.DescriptionLoaded {
		if err := s.fetcher.Describe(ctx, b); err != nil {
			return "", err
		}
	}
	return b.Description, nil
}

// PrefillForm seeds a review form from the selected record the way the
// original review screen did.
func (s *Session) PrefillForm() (strapi.Form, error) {
	b, ok := s.Current()
	if !ok {
		return strapi.Form{}, ErrNoSelection
	}
	f := strapi.Form{
		Title:       b.Title,
		Author:      strings.Join(b.Authors, ", "),
		Description: b.Description,
		Condition:   DefaultCondition,
		BookType:    strapi.TypeForSale,
		Status:      DefaultStatus,
	}
	if len(b.Subjects) > 0 {
		f.Subject = b.Subjects[0]
	}
	return f, nil
}

// ExportCurrent shapes the edited form into a payload. The selected record is
// never mutated, and a validation failure produces no payload at all.
func (s *Session) ExportCurrent(f strapi.Form) (strapi.Payload, error) {
	if _, ok := s.Current(); !ok {
		return nil, ErrNoSelection
	}
	return strapi.BuildPayload(f)
}

// DownloadCovers writes covers for the whole collection into dir.
func (s *Session) DownloadCovers(ctx context.Context, dir string) ([]covers.Result, error) {
	return covers.Download(ctx, s.client, s.books, dir)
}
