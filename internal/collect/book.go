// Package collect fetches book metadata from Open Library in batches and maps
// the returned search documents back to the ISBNs that were asked for.
package collect

// Fallback field values used when a search document is missing data.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
	NoDescription = "Description not available."
)

// Book is one normalized record assembled from a matched search document.
type Book struct {
	Title          string   `json:"title"`
	Authors        []string `json:"authors"`
	ISBNs          []string `json:"isbns"`
	OpenLibraryKey string   `json:"openlibrary_key,omitempty"`
	Subjects       []string `json:"subjects,omitempty"`
	CoverURLMedium string   `json:"cover_url_medium,omitempty"`
	CoverURLLarge  string   `json:"cover_url_large,omitempty"`
	CoverID        int      `json:"cover_id,omitempty"`

	// Description starts from a search-time fallback (ISBN flow) or empty
	// (discovery flow) and is replaced by the detail lookup on demand.
	Description       string `json:"description,omitempty"`
	DescriptionLoaded bool   `json:"description_loaded"`
}
