package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/miskhill/annualmedia/internal/entities"
)

func sampleItems() []entities.MediaItem {
	return []entities.MediaItem{
		{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: 1965, Rating: 5, CreatedAt: "2023-06-01T12:00:00Z"},
		{Title: "Emma", Author: "Jane Austen", Genre: "Classics", Year: 1815, Rating: 4, CreatedAt: "2024-02-10T12:00:00Z"},
		{Title: "Alien", Genre: "Horror", Year: 1979, Rating: 4.5, CreatedAt: "2024-07-20T12:00:00Z"},
		{Title: "Heat", Genre: "Crime", Year: 1995, Rating: 3.5, CreatedAt: ""},
	}
}

func titles(items []entities.MediaItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestApplyDefaultSortIsNewestFirst(t *testing.T) {
	got := Apply(sampleItems(), Query{})
	// Missing createdAt sorts last.
	assert.Equal(t, []string{"Alien", "Emma", "Dune", "Heat"}, titles(got))
}

func TestApplySortByYear(t *testing.T) {
	got := Apply(sampleItems(), Query{SortBy: SortYear})
	assert.Equal(t, []string{"Heat", "Alien", "Dune", "Emma"}, titles(got))
}

func TestApplySortByRating(t *testing.T) {
	got := Apply(sampleItems(), Query{SortBy: SortRating})
	assert.Equal(t, []string{"Dune", "Alien", "Emma", "Heat"}, titles(got))
}

func TestApplySortByTitle(t *testing.T) {
	got := Apply(sampleItems(), Query{SortBy: SortTitle})
	assert.Equal(t, []string{"Alien", "Dune", "Emma", "Heat"}, titles(got))
}

func TestApplySearchMatchesTitleAuthorGenre(t *testing.T) {
	items := sampleItems()

	assert.Equal(t, []string{"Dune"}, titles(Apply(items, Query{Search: "dune"})))
	assert.Equal(t, []string{"Emma"}, titles(Apply(items, Query{Search: "austen"})))
	assert.Equal(t, []string{"Alien"}, titles(Apply(items, Query{Search: "horror"})))
	assert.Empty(t, Apply(items, Query{Search: "zebra"}))
}

func TestApplyYearFilter(t *testing.T) {
	got := Apply(sampleItems(), Query{Year: 2024})
	assert.Equal(t, []string{"Alien", "Emma"}, titles(got))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	_ = Apply(items, Query{SortBy: SortYear})
	assert.Equal(t, "Dune", items[0].Title)
}

func TestPaginate(t *testing.T) {
	items := sampleItems()

	assert.Equal(t, []string{"Dune", "Emma"}, titles(Paginate(items, 1, 2)))
	assert.Equal(t, []string{"Alien", "Heat"}, titles(Paginate(items, 2, 2)))
	assert.Empty(t, Paginate(items, 3, 2))
	assert.Len(t, Paginate(items, 1, 0), 4)  // disabled
	assert.Len(t, Paginate(items, 0, 10), 4) // page clamps to 1
}

func TestYearOptions(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	got := YearOptions(sampleItems(), now)
	assert.Equal(t, []int{2027, 2026, 2025, 2024, 2023}, got)
}

func TestYearOptionsEmptyCollection(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	got := YearOptions(nil, now)
	// Falls back to the collection's first year of use.
	assert.Equal(t, 2027, got[0])
	assert.Equal(t, 2023, got[len(got)-1])
}

func TestAnnualTotal(t *testing.T) {
	items := sampleItems()

	assert.Equal(t, 4, AnnualTotal(items, AllYears))
	assert.Equal(t, 2, AnnualTotal(items, 2024))
	assert.Equal(t, 1, AnnualTotal(items, 2023))
	assert.Equal(t, 0, AnnualTotal(items, 2020))
}
