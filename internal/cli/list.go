package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/miskhill/annualmedia/internal/catalog"
	"github.com/miskhill/annualmedia/internal/entities"
)

type listOptions struct {
	search   string
	sortBy   string
	year     int
	page     int
	pageSize int
}

func (o *listOptions) bind(cmd *cobra.Command, app *App) {
	cmd.Flags().StringVar(&o.search, "search", "", "filter by title, author or genre")
	cmd.Flags().StringVar(&o.sortBy, "sort", catalog.SortCreatedAt, "sort key: createdAt, year, rating, title, author or genre")
	cmd.Flags().IntVar(&o.year, "year", catalog.AllYears, "only records added in this year (0 = all)")
	cmd.Flags().IntVar(&o.page, "page", 1, "page number")
	cmd.Flags().IntVar(&o.pageSize, "page-size", app.cfg.UI.PageSize, "records per page (0 = everything)")
}

// route rebuilds the browse view the flags describe, so a login redirect can
// point straight back at it.
func (o *listOptions) route(base string) string {
	q := url.Values{}
	if o.search != "" {
		q.Set("search", o.search)
	}
	if o.sortBy != "" && o.sortBy != catalog.SortCreatedAt {
		q.Set("sort", o.sortBy)
	}
	if o.year != catalog.AllYears {
		q.Set("year", strconv.Itoa(o.year))
	}
	if o.page > 1 {
		q.Set("page", strconv.Itoa(o.page))
	}
	if encoded := q.Encode(); encoded != "" {
		return base + "?" + encoded
	}
	return base
}

func newBooksCommand(app *App) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the books in your catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runList(cmd.Context(), "/books", opts, app.api.ListBooks, true)
		},
	}
	opts.bind(cmd, app)
	return cmd
}

func newMoviesCommand(app *App) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "List the movies in your catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runList(cmd.Context(), "/movies", opts, app.api.ListMovies, false)
		},
	}
	opts.bind(cmd, app)
	return cmd
}

func newSeriesCommand(app *App) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "series",
		Short: "List the series in your catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runList(cmd.Context(), "/series", opts, app.api.ListSeries, false)
		},
	}
	opts.bind(cmd, app)
	return cmd
}

func (a *App) runList(ctx context.Context, base string, opts *listOptions, fetch func(context.Context) ([]entities.MediaItem, error), withAuthor bool) error {
	if err := a.requireAuth(opts.route(base)); err != nil {
		return err
	}

	items, err := fetch(ctx)
	if err != nil {
		return err
	}

	view := catalog.Apply(items, catalog.Query{
		Search: opts.search,
		SortBy: opts.sortBy,
		Year:   opts.year,
	})
	page := catalog.Paginate(view, opts.page, opts.pageSize)

	a.renderItems(page, withAuthor)
	a.renderListFooter(view, page, opts)
	return nil
}

func (a *App) renderItems(items []entities.MediaItem, withAuthor bool) {
	w := table.NewWriter()
	w.SetOutputMirror(a.out)
	w.SetStyle(table.StyleRounded)

	header := table.Row{"Title", "Genre", "Year", "Rating", "Added"}
	if withAuthor {
		header = table.Row{"Title", "Author", "Genre", "Year", "Rating", "Added"}
	}
	w.AppendHeader(header)
	w.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Year", Align: text.AlignRight},
		{Name: "Rating", Align: text.AlignRight},
	})

	for _, item := range items {
		row := table.Row{item.Title, item.Genre, item.Year, formatRating(item.Rating), formatAdded(item.CreatedAt)}
		if withAuthor {
			row = table.Row{item.Title, item.Author, item.Genre, item.Year, formatRating(item.Rating), formatAdded(item.CreatedAt)}
		}
		w.AppendRow(row)
	}
	w.Render()
}

func (a *App) renderListFooter(view, page []entities.MediaItem, opts *listOptions) {
	if len(view) == 0 {
		fmt.Fprintln(a.out, "No records match.")
		return
	}
	if opts.pageSize > 0 {
		first := (opts.page-1)*opts.pageSize + 1
		if opts.page < 1 {
			first = 1
		}
		fmt.Fprintf(a.out, "Showing %d-%d of %d\n", first, first+len(page)-1, len(view))
	}
	year := opts.year
	if year == catalog.AllYears {
		year = time.Now().Year()
	}
	fmt.Fprintf(a.out, "%d total: %d\n", year, catalog.AnnualTotal(view, year))
}

func formatRating(rating float64) string {
	if rating == 0 {
		return "-"
	}
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

func formatAdded(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Format("2006-01-02")
}
