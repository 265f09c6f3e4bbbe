package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miskhill/annualmedia/internal/booksearch"
	"github.com/miskhill/annualmedia/internal/entities"
	"github.com/miskhill/annualmedia/internal/openlibrary"
)

func newAddBookCommand(app *App) *cobra.Command {
	var isbn string

	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Add a book, with metadata looked up from Open Library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth("/books/upload"); err != nil {
				return err
			}
			if isbn != "" {
				detail, err := app.library.GetByISBN(cmd.Context(), isbn)
				if err != nil {
					return err
				}
				return app.uploadBook(cmd, *detail)
			}
			detail, err := app.pickBook(cmd)
			if err != nil {
				return err
			}
			return app.uploadBook(cmd, detail)
		},
	}

	cmd.Flags().StringVar(&isbn, "isbn", "", "skip the search and look the book up directly")
	return cmd
}

// pickBook runs the interactive search loop: type a query, pick a numbered
// result, or type a new query to search again.
func (a *App) pickBook(cmd *cobra.Command) (openlibrary.BookDetail, error) {
	settled := make(chan booksearch.State, 16)
	details := make(chan openlibrary.BookDetail, 1)

	ctrl := booksearch.New(cmd.Context(), a.library,
		booksearch.Options{Debounce: a.cfg.Search.Debounce, MaxResults: a.cfg.Search.MaxResults},
		func(s booksearch.State) {
			if !s.Loading && !s.FetchingDetails {
				settled <- s
			}
		},
		func(d openlibrary.BookDetail) {
			details <- d
		},
	)

	query, err := a.promptLine("Search: ")
	if err != nil {
		return openlibrary.BookDetail{}, err
	}

	for {
		ctrl.SetQuery(query)
		state := <-settled

		if state.Err != "" {
			fmt.Fprintln(a.out, state.Err)
		}
		if len(state.Results) == 0 {
			fmt.Fprintln(a.out, "No results.")
			query, err = a.promptLine("Search again (empty to cancel): ")
			if err != nil {
				return openlibrary.BookDetail{}, err
			}
			if query == "" {
				return openlibrary.BookDetail{}, errors.New("cancelled")
			}
			continue
		}

		for i, result := range state.Results {
			year := ""
			if result.FirstPublishedYear != 0 {
				year = fmt.Sprintf(" (%d)", result.FirstPublishedYear)
			}
			fmt.Fprintf(a.out, "%2d. %s by %s%s\n", i+1, result.Title, strings.Join(result.Authors, ", "), year)
		}

		answer, err := a.promptLine("Pick a number, or type a new search: ")
		if err != nil {
			return openlibrary.BookDetail{}, err
		}
		if answer == "" {
			return openlibrary.BookDetail{}, errors.New("cancelled")
		}

		n, convErr := strconv.Atoi(answer)
		if convErr != nil {
			query = answer
			continue
		}
		if n < 1 || n > len(state.Results) {
			fmt.Fprintln(a.out, "No such result.")
			continue
		}

		ctrl.Select(state.Results[n-1])
		if detail, ok := a.awaitDetail(settled, details); ok {
			return detail, nil
		}
	}
}

// awaitDetail waits for a selection to resolve. A state update without an
// error just precedes the detail delivery; one carrying an error means the
// row had no ISBN or the lookup failed.
func (a *App) awaitDetail(settled chan booksearch.State, details chan openlibrary.BookDetail) (openlibrary.BookDetail, bool) {
	for {
		select {
		case detail := <-details:
			return detail, true
		case state := <-settled:
			if state.Err != "" {
				fmt.Fprintln(a.out, state.Err)
				return openlibrary.BookDetail{}, false
			}
		}
	}
}

func (a *App) uploadBook(cmd *cobra.Command, detail openlibrary.BookDetail) error {
	upload := prefillUpload(detail)

	fmt.Fprintf(a.out, "\nTitle:     %s\n", upload.Title)
	fmt.Fprintf(a.out, "Author:    %s\n", upload.Author)
	fmt.Fprintf(a.out, "Genre:     %s\n", upload.Genre)
	fmt.Fprintf(a.out, "Year:      %s\n", upload.Year)
	fmt.Fprintf(a.out, "Pages:     %s\n", upload.Pages)

	rating, err := a.promptLine("Your rating (1-10, empty to skip): ")
	if err != nil {
		return err
	}
	upload.Rating = rating

	answer, err := a.promptLine("Add this book? [y/N]: ")
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		return errors.New("cancelled")
	}

	if err := a.api.CreateBook(cmd.Context(), upload); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %q\n", upload.Title)
	return nil
}

// prefillUpload maps a resolved book onto the upload form: authors joined
// with commas, the first three subjects as the genre, and the four-digit
// year pulled out of whatever date format the edition carries.
func prefillUpload(detail openlibrary.BookDetail) entities.BookUpload {
	upload := entities.BookUpload{
		Title:  detail.Title,
		Author: strings.Join(detail.Authors, ", "),
		Plot:   detail.Description,
		Poster: detail.CoverURL,
		Year:   extractYear(detail.PublishedDate),
	}
	if detail.PageCount > 0 {
		upload.Pages = strconv.Itoa(detail.PageCount)
	}
	if len(detail.Subjects) > 0 {
		genres := detail.Subjects
		if len(genres) > 3 {
			genres = genres[:3]
		}
		upload.Genre = strings.Join(genres, ", ")
	}
	return upload
}

var yearPattern = regexp.MustCompile(`\d{4}`)

func extractYear(date string) string {
	return yearPattern.FindString(date)
}
