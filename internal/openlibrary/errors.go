package openlibrary

import "errors"

// ErrUpstreamUnavailable indicates Open Library answered with a non-2xx
// status. The condition is transient from the caller's point of view; a new
// search is the retry.
var ErrUpstreamUnavailable = errors.New("Open Library is unavailable")

// ErrMissingISBN indicates a detail lookup was attempted without an ISBN.
// No network call is made in this case.
var ErrMissingISBN = errors.New("an ISBN is required to fetch book details")
