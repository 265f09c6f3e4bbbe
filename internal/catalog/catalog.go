// Package catalog holds the in-memory list operations behind the collection
// views: filtering, sorting, client-side pagination and the annual totals.
// The remote API has no query parameters; everything happens on the full
// fetched list.
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/miskhill/annualmedia/internal/entities"
)

// Sort keys accepted by Query.SortBy. Anything else sorts by that field name
// as a case-insensitive string (title, author, genre).
const (
	SortYear      = "year"
	SortRating    = "rating"
	SortCreatedAt = "createdAt"
	SortTitle     = "title"
	SortAuthor    = "author"
	SortGenre     = "genre"
)

// AllYears selects every record regardless of the year it was added.
const AllYears = 0

// Query is one view over a collection.
type Query struct {
	// Search matches title, author and genre, case-insensitively.
	Search string
	// SortBy is one of the Sort* keys; empty means SortCreatedAt.
	SortBy string
	// Year keeps records added in that calendar year; AllYears keeps all.
	Year int
}

// Apply sorts and filters a copy of items; the input is never mutated.
func Apply(items []entities.MediaItem, q Query) []entities.MediaItem {
	sorted := sortItems(items, q.SortBy)

	search := strings.ToLower(strings.TrimSpace(q.Search))
	filtered := make([]entities.MediaItem, 0, len(sorted))
	for _, item := range sorted {
		if !matchesSearch(item, search) {
			continue
		}
		if q.Year != AllYears && item.CreatedYear() != q.Year {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func matchesSearch(item entities.MediaItem, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), search) ||
		strings.Contains(strings.ToLower(item.Author), search) ||
		strings.Contains(strings.ToLower(item.Genre), search)
}

func sortItems(items []entities.MediaItem, key string) []entities.MediaItem {
	sorted := append([]entities.MediaItem(nil), items...)
	if key == "" {
		key = SortCreatedAt
	}

	switch key {
	case SortYear:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Year > sorted[j].Year
		})
	case SortRating:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Rating > sorted[j].Rating
		})
	case SortCreatedAt:
		sort.SliceStable(sorted, func(i, j int) bool {
			return createdAtUnix(sorted[i]) > createdAtUnix(sorted[j])
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(stringField(sorted[i], key)) < strings.ToLower(stringField(sorted[j], key))
		})
	}
	return sorted
}

func stringField(item entities.MediaItem, key string) string {
	switch key {
	case SortAuthor:
		return item.Author
	case SortGenre:
		return item.Genre
	default:
		return item.Title
	}
}

func createdAtUnix(item entities.MediaItem) int64 {
	if item.CreatedAt == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// Paginate slices out a 1-based page. Out-of-range pages are empty; a
// perPage <= 0 disables pagination and returns everything.
func Paginate(items []entities.MediaItem, page, perPage int) []entities.MediaItem {
	if perPage <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// earliestFallback is used when no record carries a usable createdAt year.
const earliestFallback = 2023

/// YearOptions lists the selectable years, newest first: every year from the
// earliest observed (or the fallback) through the latest observed or next
// calendar year, whichever is later.
func YearOptions(items []entities.MediaItem, now time.Time) []int {
	earliest, latest := 0, 0
	for _, item := range items {
		year := item.CreatedYear()
		if year == 0 {
			continue
		}
		if earliest == 0 || year < earliest {
			earliest = year
		}
		if year > latest {
			latest = year
		}
	}
	if earliest == 0 {
		earliest = earliestFallback
	}
	if next := now.Year() + 1; next > latest {
		latest = next
	}

	options := make([]int, 0, latest-earliest+1)
	for year := latest; year >= earliest; year-- {
		options = append(options, year)
	}
	return options
}

// AnnualTotal counts records added in the given year; AllYears counts all.
func AnnualTotal(items []entities.MediaItem, year int) int {
	if year == AllYears {
		return len(items)
	}
	total := 0
	for _, item := range items {
		if item.CreatedYear() == year {
			total++
		}
	}
	return total
}
