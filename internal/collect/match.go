package collect

import (
	"fmt"
	"log"
	"strings"

	"bookdesk/internal/openlibrary"
)

// isbnMarker is the substring Open Library embeds in seed references,
// e.g. "/books/OL123M/isbn/9780441013593".
const isbnMarker = "/isbn/"

// matchChunk maps each search document back to one ISBN from the chunk it was
// queried in. Documents that match no chunk member are dropped: a business
// rule, not an error.
func matchChunk(chunk []string, docs []openlibrary.Doc, run *Run) []Book {
	// A 1:1 response is trusted without confirmation. Search results for a
	// single precise ISBN do not always echo it back in any field, so this
	// shortcut knowingly skips verification.
	if len(chunk) == 1 && len(docs) == 1 {
		run.DocsMatched++
		return []Book{buildBook(docs[0], chunk[0])}
	}

	members := make(map[string]bool, len(chunk))
	for _, id := range chunk {
		members[id] = true
	}

	var books []Book
	for _, doc := range docs {
		id := matchDoc(doc, members)
		if id == "" {
			log.Printf("no chunk ISBN found for doc %q, skipping", doc.Title)
			run.DocsSkipped++
			continue
		}
		run.DocsMatched++
		books = append(books, buildBook(doc, id))
	}
	return books
}

// matchDoc tries the seed references first, then the document's own ISBN
// list. First hit wins.
func matchDoc(doc openlibrary.Doc, chunk map[string]bool) string {
	for _, seed := range doc.Seeds {
		i := strings.LastIndex(seed, isbnMarker)
		if i < 0 {
			continue
		}
		if id := seed[i+len(isbnMarker):]; chunk[id] {
			return id
		}
	}
	for _, id := range doc.ISBNs {
		if chunk[id] {
			return id
		}
	}
	return ""
}

func buildBook(doc openlibrary.Doc, id string) Book {
	b := Book{
		Title:          doc.Title,
		Authors:        doc.AuthorNames,
		ISBNs:          []string{id},
		OpenLibraryKey: doc.Key,
		Subjects:       doc.Subjects,
		CoverURLMedium: openlibrary.CoverURL(id, openlibrary.SizeMedium),
		CoverURLLarge:  openlibrary.CoverURL(id, openlibrary.SizeLarge),
		CoverID:        doc.CoverID,
	}
	if b.Title == "" {
		b.Title = UnknownTitle
	}
	if len(b.Authors) == 0 {
		b.Authors = []string{UnknownAuthor}
	}
	b.Description = fallbackDescription(doc)
	b.DescriptionLoaded = true
	return b
}

// fallbackDescription picks the best description available in the search
// document itself, so the detail lookup is only needed when all else fails.
func fallbackDescription(doc openlibrary.Doc) string {
	switch {
	case doc.FirstSentenceValue != "":
		return doc.FirstSentenceValue
	case len(doc.FirstSentence) > 0:
		return doc.FirstSentence[0]
	case doc.FirstPublishYear != 0:
		return fmt.Sprintf("Published: %d", doc.FirstPublishYear)
	default:
		return NoDescription
	}
}
