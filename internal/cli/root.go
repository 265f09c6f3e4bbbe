package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute builds and runs the root command. It is the only entry point the
// main package needs.
func Execute() error {
	app, err := newApp(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer app.Close()

	return newRootCommand(app).Execute()
}

func newRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "annualmedia",
		Short:         "Browse and grow your annual media catalog",
		Long:          "annualmedia is a client for the Annual Media catalog: log in, browse books, movies and series, and add new books with metadata looked up from Open Library.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	cmd.AddCommand(
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newBooksCommand(app),
		newMoviesCommand(app),
		newSeriesCommand(app),
		newAddBookCommand(app),
	)
	return cmd
}
