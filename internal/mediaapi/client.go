// Package mediaapi is the HTTP client for the Annual Media REST API.
//
// A single Client instance is shared by the whole process. The bearer token
// is injected by a RoundTripper registered once at construction; it reads the
// current token through the TokenSource on every request, so callers never
// touch auth headers and a token change is visible to the very next call.
package mediaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/miskhill/annualmedia/internal/entities"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the current bearer token; an empty string means no
// session and no Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, mostly useful in tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client interfaces with the Annual Media API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates the shared API client. tokens may be nil for a client
// that never authenticates.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{next: http.DefaultTransport, tokens: tokens},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type authTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.next.RoundTrip(req)
}

// LoginResult is the success body of POST /api/auth/login.
type LoginResult struct {
	Token string        `json:"token"`
	User  entities.User `json:"user"`
}

// Login exchanges credentials for a token and profile. Rejections come back
// as *APIError carrying the server's message verbatim; transport failures
// wrap ErrNetworkUnreachable.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	return &result, nil
}

// ListBooks fetches the book collection.
func (c *Client) ListBooks(ctx context.Context) ([]entities.MediaItem, error) {
	return c.list(ctx, "/api/books")
}

// ListMovies fetches the movie collection.
func (c *Client) ListMovies(ctx context.Context) ([]entities.MediaItem, error) {
	return c.list(ctx, "/api/movies")
}

// ListSeries fetches the series collection.
func (c *Client) ListSeries(ctx context.Context) ([]entities.MediaItem, error) {
	return c.list(ctx, "/api/series")
}

// CreateBook posts a new book record; the API answers 201 on success.
func (c *Client) CreateBook(ctx context.Context, book entities.BookUpload) error {
	payload, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("encode book: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/books", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return decodeAPIError(resp)
	}
	return nil
}

func (c *Client) list(ctx context.Context, path string) ([]entities.MediaItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return decodeCollection(raw, path)
}

// decodeCollection accepts both response shapes the API has used over time: a
// plain JSON array, or an object keyed by record id. Object values come back
// ordered by key so list output is deterministic.
func decodeCollection(raw json.RawMessage, path string) ([]entities.MediaItem, error) {
	var asList []rawMediaItem
	if err := json.Unmarshal(raw, &asList); err == nil {
		items := make([]entities.MediaItem, 0, len(asList))
		for _, r := range asList {
			items = append(items, r.toEntity())
		}
		return items, nil
	}

	var asMap map[string]rawMediaItem
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return nil, fmt.Errorf("decode %s response: unexpected shape: %w", path, err)
	}

	keys := make([]string, 0, len(asMap))
	for k := range asMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]entities.MediaItem, 0, len(asMap))
	for _, k := range keys {
		items = append(items, asMap[k].toEntity())
	}
	return items, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}
