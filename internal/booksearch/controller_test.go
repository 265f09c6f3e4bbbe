package booksearch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miskhill/annualmedia/internal/openlibrary"
)

type fakeClient struct {
	mu          sync.Mutex
	searchCalls []string
	detailCalls []string
	searchFn    func(query string) ([]openlibrary.SearchResult, error)
	detailFn    func(isbn string) (*openlibrary.BookDetail, error)
}

func (f *fakeClient) Search(ctx context.Context, query string) ([]openlibrary.SearchResult, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	fn := f.searchFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(query)
}

func (f *fakeClient) GetByISBN(ctx context.Context, isbn string) (*openlibrary.BookDetail, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, isbn)
	fn := f.detailFn
	f.mu.Unlock()
	if fn == nil {
		return &openlibrary.BookDetail{ISBN13: isbn}, nil
	}
	return fn(isbn)
}

func (f *fakeClient) searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchCalls...)
}

func (f *fakeClient) details() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.detailCalls...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func results(titles ...string) []openlibrary.SearchResult {
	out := make([]openlibrary.SearchResult, 0, len(titles))
	for _, title := range titles {
		out = append(out, openlibrary.SearchResult{Title: title, ISBN13: "978" + title})
	}
	return out
}

func TestShortQueryMakesNoNetworkCall(t *testing.T) {
	client := &fakeClient{}
	ctrl := New(context.Background(), client, Options{Debounce: 5 * time.Millisecond, MaxResults: 10}, nil, nil)

	ctrl.SetQuery("a")
	ctrl.SetQuery(" b ")
	ctrl.SetQuery("")

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, client.searches())

	state := ctrl.State()
	assert.Empty(t, state.Results)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)
}

func TestShortQueryClearsPreviousState(t *testing.T) {
	client := &fakeClient{searchFn: func(string) ([]openlibrary.SearchResult, error) {
		return results("Dune"), nil
	}}
	ctrl := New(context.Background(), client, Options{Debounce: 5 * time.Millisecond, MaxResults: 10}, nil, nil)

	ctrl.SetQuery("dune")
	waitFor(t, func() bool { return len(ctrl.State().Results) == 1 })

	ctrl.SetQuery("d")
	state := ctrl.State()
	assert.Empty(t, state.Results)
	assert.False(t, state.Loading)
}

func TestDebounceCoalescesRapidEdits(t *testing.T) {
	client := &fakeClient{searchFn: func(q string) ([]openlibrary.SearchResult, error) {
		return results(q), nil
	}}
	ctrl := New(context.Background(), client, Options{Debounce: 40 * time.Millisecond, MaxResults: 10}, nil, nil)

	ctrl.SetQuery("du")
	ctrl.SetQuery("dun")
	ctrl.SetQuery("dune")

	waitFor(t, func() bool { return len(ctrl.State().Results) == 1 })
	// Only the final query within the quiet period hit the network.
	assert.Equal(t, []string{"dune"}, client.searches())
	assert.Equal(t, "dune", ctrl.State().Results[0].Title)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	client := &fakeClient{}
	client.searchFn = func(q string) ([]openlibrary.SearchResult, error) {
		if q == "slow query" {
			close(firstStarted)
			<-releaseFirst
			return results("Stale"), nil
		}
		return results("Fresh"), nil
	}
	ctrl := New(context.Background(), client, Options{Debounce: time.Millisecond, MaxResults: 10}, nil, nil)

	ctrl.SetQuery("slow query")
	<-firstStarted

	// Supersede while the first search is still on the wire.
	ctrl.SetQuery("fast query")
	waitFor(t, func() bool {
		s := ctrl.State()
		return len(s.Results) == 1 && s.Results[0].Title == "Fresh"
	})

	// Let the stale response arrive; it must not be applied.
	close(releaseFirst)
	time.Sleep(20 * time.Millisecond)
	state := ctrl.State()
	require.Len(t, state.Results, 1)
	assert.Equal(t, "Fresh", state.Results[0].Title)
}

func TestMaxResultsCap(t *testing.T) {
	many := results("a", "b", "c", "d", "e")
	client := &fakeClient{searchFn: func(string) ([]openlibrary.SearchResult, error) {
		return many, nil
	}}
	ctrl := New(context.Background(), client, Options{Debounce: time.Millisecond, MaxResults: 3}, nil, nil)

	ctrl.SetQuery("anything")
	waitFor(t, func() bool { return len(ctrl.State().Results) > 0 })
	assert.Len(t, ctrl.State().Results, 3)
}

func TestMaxResultsDisabled(t *testing.T) {
	many := results("a", "b", "c", "d", "e")
	client := &fakeClient{searchFn: func(string) ([]openlibrary.SearchResult, error) {
		return many, nil
	}}
	ctrl := New(context.Background(), client, Options{Debounce: time.Millisecond, MaxResults: -1}, nil, nil)

	ctrl.SetQuery("anything")
	waitFor(t, func() bool { return len(ctrl.State().Results) > 0 })
	assert.Len(t, ctrl.State().Results, 5)
}

func TestSearchErrorClearsResults(t *testing.T) {
	client := &fakeClient{searchFn: func(string) ([]openlibrary.SearchResult, error) {
		return results("Dune"), nil
	}}
	ctrl := New(context.Background(), client, Options{Debounce: time.Millisecond, MaxResults: 10}, nil, nil)

	ctrl.SetQuery("dune")
	waitFor(t, func() bool { return len(ctrl.State().Results) == 1 })

	client.mu.Lock()
	client.searchFn = func(string) ([]openlibrary.SearchResult, error) {
		return nil, errors.New("Open Library is unavailable: status 503")
	}
	client.mu.Unlock()

	ctrl.SetQuery("dune messiah")
	waitFor(t, func() bool { return ctrl.State().Err != "" })

	state := ctrl.State()
	assert.Empty(t, state.Results)
	assert.False(t, state.Loading)
	assert.Contains(t, state.Err, "Open Library is unavailable")
}

func TestSelectWithoutISBN(t *testing.T) {
	client := &fakeClient{}
	ctrl := New(context.Background(), client, DefaultOptions(), nil, nil)

	ctrl.Select(openlibrary.SearchResult{Title: "No Codes"})

	state := ctrl.State()
	assert.Equal(t, "No ISBN details available for this title.", state.Err)
	assert.False(t, state.FetchingDetails)
	assert.Empty(t, client.details())
}

func TestSelectFetchesDetailAndInvokesContinuation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client := &fakeClient{detailFn: func(isbn string) (*openlibrary.BookDetail, error) {
		close(started)
		<-release
		return &openlibrary.BookDetail{Title: "Dune", ISBN13: isbn}, nil
	}}

	var mu sync.Mutex
	var received *openlibrary.BookDetail
	ctrl := New(context.Background(), client, DefaultOptions(), nil, func(d openlibrary.BookDetail) {
		mu.Lock()
		defer mu.Unlock()
		received = &d
	})

	ctrl.Select(openlibrary.SearchResult{Title: "Dune", ISBN13: "9780441013593"})

	<-started
	state := ctrl.State()
	assert.True(t, state.FetchingDetails)
	assert.Equal(t, "9780441013593", state.ActiveISBN)

	close(release)
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return received != nil
	})

	mu.Lock()
	assert.Equal(t, "Dune", received.Title)
	mu.Unlock()
	assert.False(t, ctrl.State().FetchingDetails)
}

func TestDetailFailureKeepsResultsVisible(t *testing.T) {
	client := &fakeClient{
		searchFn: func(string) ([]openlibrary.SearchResult, error) {
			return results("Dune"), nil
		},
		detailFn: func(string) (*openlibrary.BookDetail, error) {
			return nil, errors.New("Open Library is unavailable: status 500")
		},
	}
	ctrl := New(context.Background(), client, Options{Debounce: time.Millisecond, MaxResults: 10}, nil, nil)

	ctrl.SetQuery("dune")
	waitFor(t, func() bool { return len(ctrl.State().Results) == 1 })

	ctrl.Select(ctrl.State().Results[0])
	waitFor(t, func() bool { return ctrl.State().Err != "" })

	state := ctrl.State()
	assert.Len(t, state.Results, 1)
	assert.False(t, state.FetchingDetails)
}

func TestOnUpdateObservesStateChanges(t *testing.T) {
	client := &fakeClient{searchFn: func(string) ([]openlibrary.SearchResult, error) {
		return results("Dune"), nil
	}}

	var mu sync.Mutex
	var states []State
	ctrl := New(context.Background(), client, Options{Debounce: time.Millisecond, MaxResults: 10}, func(s State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	}, nil)

	ctrl.SetQuery("dune")
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) >= 2
	})

	mu.Lock()
	defer mu.Unlock()
	// First notification shows loading, a later one carries the results.
	assert.True(t, states[0].Loading)
	last := states[len(states)-1]
	assert.False(t, last.Loading)
	assert.Len(t, last.Results, 1)
}
