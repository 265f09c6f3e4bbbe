// Package openlibrary fetches book metadata from the Open Library API and
// flattens its loosely typed responses into two stable record types.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL      = "https://openlibrary.org"
	defaultCoverBaseURL = "https://covers.openlibrary.org"
	defaultTimeout      = 10 * time.Second
	defaultSearchLimit  = 10

	userAgent = "annualmedia/1.0 (https://github.com/miskhill/annualmedia)"

	// search.json returns enormous documents by default; project to the
	// fields the picker actually renders.
	searchFields = "title,author_name,first_publish_year,isbn"
)

// Client fetches book metadata from the Open Library API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	coverBaseURL string
	searchLimit  int
	rateLimiter  *rateLimiter
}

// Config tunes the client; zero values fall back to defaults.
type Config struct {
	BaseURL      string
	CoverBaseURL string
	Timeout      time.Duration
	RateLimit    time.Duration
	SearchLimit  int
}

// NewClient creates an Open Library client with rate limiting.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.CoverBaseURL == "" {
		cfg.CoverBaseURL = defaultCoverBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = defaultSearchLimit
	}
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		coverBaseURL: strings.TrimRight(cfg.CoverBaseURL, "/"),
		searchLimit:  cfg.SearchLimit,
		rateLimiter:  newRateLimiter(cfg.RateLimit),
	}
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// Search queries titles by free text. A blank query returns no results
// without touching the network. Every document field is optional; missing
// data yields defaults rather than errors.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}

	c.rateLimiter.wait()

	params := url.Values{}
	params.Set("q", trimmed)
	params.Set("limit", fmt.Sprint(c.searchLimit))
	params.Set("fields", searchFields)

	var response searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search.json?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(response.Docs))
	for _, doc := range response.Docs {
		isbn13 := extractISBN13(doc.ISBN)
		results = append(results, SearchResult{
			Title:              titleOrDefault(doc.Title),
			Authors:            append([]string(nil), doc.AuthorName...),
			FirstPublishedYear: doc.FirstPublishYear,
			ISBN13:             isbn13,
			CoverURL:           c.coverURL(isbn13),
		})
	}
	return results, nil
}

// GetByISBN retrieves an edition and resolves its referenced authors and,
// when the edition lacks a description or subjects, its work record.
func (c *Client) GetByISBN(ctx context.Context, isbn string) (*BookDetail, error) {
	trimmed := strings.TrimSpace(isbn)
	if trimmed == "" {
		return nil, ErrMissingISBN
	}

	c.rateLimiter.wait()

	var edition editionRecord
	requestURL := c.baseURL + "/isbn/" + url.PathEscape(trimmed) + ".json"
	if err := c.getJSON(ctx, requestURL, &edition); err != nil {
		return nil, err
	}

	isbn13 := trimmed
	if len(edition.ISBN13) > 0 {
		isbn13 = edition.ISBN13[0]
	} else if len(edition.ISBN10) > 0 {
		isbn13 = edition.ISBN10[0]
	}

	detail := &BookDetail{
		Title:         titleOrDefault(edition.Title),
		Authors:       c.resolveAuthors(ctx, edition.Authors),
		Description:   parseDescription(edition.Description),
		Subjects:      normalizeStrings(edition.Subjects),
		PublishedDate: edition.PublishDate,
		PageCount:     edition.NumberOfPages,
		ISBN13:        isbn13,
		CoverURL:      c.coverURL(isbn13),
	}
	if detail.Description == "" {
		detail.Description = parseDescription(edition.Notes)
	}

	if detail.Description == "" || len(detail.Subjects) == 0 {
		work := c.fetchWork(ctx, edition.Works)
		if detail.Description == "" {
			detail.Description = work.description
		}
		if len(detail.Subjects) == 0 {
			detail.Subjects = work.subjects
		}
	}
	return detail, nil
}

// resolveAuthors fetches every referenced author record concurrently. A
// failed or empty resolution drops that author; the rest keep their original
// order.
func (c *Client) resolveAuthors(ctx context.Context, refs []keyRef) []string {
	if len(refs) == 0 {
		return nil
	}

	resolved := make([]string, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		key := strings.TrimSpace(ref.Key)
		if key == "" {
			continue
		}
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			var author authorRecord
			if err := c.getJSON(ctx, c.baseURL+key+".json", &author); err != nil {
				log.Printf("openlibrary: dropping author %s: %v", key, err)
				return
			}
			resolved[i] = strings.TrimSpace(author.Name)
		}(i, key)
	}
	wg.Wait()

	names := make([]string, 0, len(resolved))
	for _, name := range resolved {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

type workFallback struct {
	description string
	subjects    []string
}

// fetchWork loads the first referenced work record. Any failure yields empty
// fallback values; work-level data is strictly best-effort.
func (c *Client) fetchWork(ctx context.Context, refs []keyRef) workFallback {
	key := firstRefKey(refs)
	if key == "" {
		return workFallback{}
	}

	var work workRecord
	if err := c.getJSON(ctx, c.baseURL+key+".json", &work); err != nil {
		log.Printf("openlibrary: work fallback %s unavailable: %v", key, err)
		return workFallback{}
	}

	return workFallback{
		description: parseDescription(work.Description),
		subjects: mergeUnique(
			normalizeStrings(work.Subjects),
			normalizeStrings(work.Genres),
			normalizeStrings(work.SubjectPeople),
			normalizeStrings(work.SubjectPlaces),
			normalizeStrings(work.SubjectTimes),
		),
	}
}

// coverURL builds the deterministic cover image URL for an ISBN. Covers are
// never fetched or verified; the template is the contract.
func (c *Client) coverURL(isbn13 string) string {
	if isbn13 == "" {
		return ""
	}
	return c.coverBaseURL + "/b/isbn/" + url.PathEscape(isbn13) + "-L.jpg"
}

func (c *Client) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
