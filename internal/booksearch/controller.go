// Package booksearch drives the interactive Open Library picker: it owns the
// query text, debounces searches, discards responses that were superseded by
// newer input, and runs the detail fetch when a result is selected.
package booksearch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/miskhill/annualmedia/internal/openlibrary"
)

const (
	// MinQueryLength is the shortest trimmed query that triggers a search.
	MinQueryLength = 2

	// DefaultDebounce is the quiet period before a query actually fires.
	DefaultDebounce = 300 * time.Millisecond

	// DefaultMaxResults caps how many results are surfaced.
	DefaultMaxResults = 10
)

// MetadataClient is the slice of the Open Library client the controller
// uses. Implemented by openlibrary.Client.
type MetadataClient interface {
	Search(ctx context.Context, query string) ([]openlibrary.SearchResult, error)
	GetByISBN(ctx context.Context, isbn string) (*openlibrary.BookDetail, error)
}

// State is what the UI renders. Err is a human-readable message, empty when
// there is no error. ActiveISBN identifies which row a pending detail fetch
// belongs to.
type State struct {
	Query           string
	Results         []openlibrary.SearchResult
	Loading         bool
	Err             string
	ActiveISBN      string
	FetchingDetails bool
}

// Options tunes the controller. Debounce 0 means DefaultDebounce; MaxResults
// values <= 0 disable capping.
type Options struct {
	Debounce   time.Duration
	MaxResults int
}

// DefaultOptions returns the standard picker settings.
func DefaultOptions() Options {
	return Options{Debounce: DefaultDebounce, MaxResults: DefaultMaxResults}
}

// Controller is safe for concurrent use. Every launched fetch captures a
// generation number; a response is applied only while its generation is
// still current, so a stale response can never overwrite newer state. The
// underlying HTTP request is not aborted, its result is just ignored.
type Controller struct {
	mu        sync.Mutex
	ctx       context.Context
	client    MetadataClient
	opts      Options
	onUpdate  func(State)
	onDetail  func(openlibrary.BookDetail)
	state     State
	searchSeq uint64
	detailSeq uint64
	timer     *time.Timer
}

// New creates a controller. onUpdate observes every state change and may be
// nil; onDetail receives the resolved detail after a successful selection
// and may be nil. ctx bounds all fetches the controller launches.
func New(ctx context.Context, client MetadataClient, opts Options, onUpdate func(State), onDetail func(openlibrary.BookDetail)) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Controller{
		ctx:      ctx,
		client:   client,
		opts:     opts,
		onUpdate: onUpdate,
		onDetail: onDetail,
	}
}

// SetQuery records a keystroke's worth of input. Sub-minimum queries clear
// results, error and loading without any network activity; qualifying
// queries (re)arm the debounce timer.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()

	c.state.Query = query
	c.searchSeq++ // anything in flight is now stale
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	trimmed := strings.TrimSpace(query)
	if len(trimmed) < MinQueryLength {
		c.state.Results = nil
		c.state.Loading = false
		c.state.Err = ""
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return
	}

	seq := c.searchSeq
	c.state.Loading = true
	c.state.Err = ""
	c.timer = time.AfterFunc(c.opts.Debounce, func() {
		c.runSearch(seq, trimmed)
	})
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) runSearch(seq uint64, query string) {
	c.mu.Lock()
	if seq != c.searchSeq {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	results, err := c.client.Search(c.ctx, query)

	c.mu.Lock()
	if seq != c.searchSeq {
		// A newer query took over while this one was on the wire.
		c.mu.Unlock()
		return
	}
	c.state.Loading = false
	if err != nil {
		c.state.Err = err.Error()
		c.state.Results = nil
	} else {
		if c.opts.MaxResults > 0 && len(results) > c.opts.MaxResults {
			results = results[:c.opts.MaxResults]
		}
		c.state.Results = results
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Select starts the detail fetch for a chosen result. A result without an
// ISBN surfaces an error immediately, no network call. The fetch has its own
// liveness generation; selecting another row abandons the previous fetch's
// result.
func (c *Controller) Select(result openlibrary.SearchResult) {
	c.mu.Lock()

	if result.ISBN13 == "" {
		c.state.Err = "No ISBN details available for this title."
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return
	}

	c.detailSeq++
	seq := c.detailSeq
	c.state.ActiveISBN = result.ISBN13
	c.state.FetchingDetails = true
	c.state.Err = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	go c.runDetailFetch(seq, result.ISBN13)
}

func (c *Controller) runDetailFetch(seq uint64, isbn string) {
	detail, err := c.client.GetByISBN(c.ctx, isbn)

	c.mu.Lock()
	if seq != c.detailSeq {
		c.mu.Unlock()
		return
	}
	c.state.FetchingDetails = false
	c.state.ActiveISBN = ""
	if err != nil {
		// Prior results stay visible so the user can pick another row.
		c.state.Err = err.Error()
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	if c.onDetail != nil {
		c.onDetail(*detail)
	}
}

// State returns a copy of the current picker state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	snap := c.state
	snap.Results = append([]openlibrary.SearchResult(nil), c.state.Results...)
	return snap
}

func (c *Controller) notify(snap State) {
	if c.onUpdate != nil {
		c.onUpdate(snap)
	}
}
