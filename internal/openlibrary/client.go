package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://openlibrary.org"
	coversBaseURL  = "https://covers.openlibrary.org"

	searchTimeout = 20 * time.Second
	workTimeout   = 10 * time.Second
	coverTimeout  = 15 * time.Second
)

// Cover sizes accepted by CoverURL.
const (
	SizeMedium = "M"
	SizeLarge  = "L"
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient builds a client with a courtesy rate limit. Every lookup is a
// single attempt: failures are reported to the caller, never retried here.
func NewClient(baseURL, userAgent string, rps int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{},
		userAgent:  userAgent,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

// Doc is one search result document.
type Doc struct {
	Key                string   `json:"key"`
	Title              string   `json:"title"`
	AuthorNames        []string `json:"author_name"`
	ISBNs              []string `json:"isbn"`
	Seeds              []string `json:"seed"`
	Subjects           []string `json:"subject"`
	FirstSentenceValue string   `json:"first_sentence_value"`
	FirstSentence      []string `json:"first_sentence"`
	FirstPublishYear   int      `json:"first_publish_year"`
	CoverID            int      `json:"cover_i"`
}

// Work matches {key}.json
type Work struct {
	Title       string      `json:"title"`
	Description Description `json:"description"`
}

// Description is the work description field, which Open Library serves either
// as a bare string or as a {"type": ..., "value": ...} object.
type Description struct {
	value *string
}

func (d *Description) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		d.value = &s
		return nil
	}
	var obj struct {
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(b, &obj); err == nil && obj.Value != nil {
		d.value = obj.Value
		return nil
	}
	// Unrecognized shape: leave unset, the caller falls back.
	return nil
}

// Get reports the description text and whether one was present.
func (d Description) Get() (string, bool) {
	if d.value == nil {
		return "", false
	}
	return *d.value, true
}

// SearchISBNs queries one batch of ISBNs as repeated isbn= parameters.
func (c *Client) SearchISBNs(ctx context.Context, isbns []string) (*SearchResponse, error) {
	if len(isbns) == 0 {
		return &SearchResponse{}, nil
	}
	q := make(url.Values, 2)
	q["isbn"] = isbns
	q.Set("fields", "key,title,author_name,isbn,seed,subject,first_sentence,first_publish_year,cover_i")
	u := fmt.Sprintf("%s/search.json?%s", c.baseURL, q.Encode())

	var res SearchResponse
	if err := c.get(ctx, u, searchTimeout, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SearchSubject samples books for a subject with pagination.
func (c *Client) SearchSubject(ctx context.Context, subject string, page, limit int) (*SearchResponse, error) {
	u := fmt.Sprintf("%s/search.json?q=subject:%s&fields=key,title,author_name,isbn,subject,first_publish_year,cover_i&page=%d&limit=%d",
		c.baseURL, url.QueryEscape(subject), page, limit)

	var res SearchResponse
	if err := c.get(ctx, u, searchTimeout, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetWork fetches the detail record behind a search document's key.
func (c *Client) GetWork(ctx context.Context, key string) (*Work, error) {
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	u := fmt.Sprintf("%s%s.json", c.baseURL, key)

	var res Work
	if err := c.get(ctx, u, workTimeout, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Cover fetches raw image bytes from an absolute cover URL.
func (c *Client) Cover(ctx context.Context, coverURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, coverTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) get(ctx context.Context, url string, timeout time.Duration, target interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// CoverURL builds the deterministic cover image URL for a matched ISBN.
func CoverURL(isbn, size string) string {
	return fmt.Sprintf("%s/b/isbn/%s-%s.jpg", coversBaseURL, isbn, size)
}

// CoverIDURL builds the cover image URL for a numeric cover asset id.
func CoverIDURL(id int, size string) string {
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", coversBaseURL, id, size)
}
