package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCommand(app *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Log in to the media server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var email string
			if len(args) == 1 {
				email = args[0]
			} else {
				var err error
				email, err = app.promptLine("Email: ")
				if err != nil {
					return err
				}
			}

			password, err := app.promptPassword("Password: ")
			if err != nil {
				return err
			}

			user, err := app.session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			name := user.Name
			if name == "" {
				name = user.Email
			}
			fmt.Fprintf(app.out, "Logged in as %s\n", name)
			if from != "" {
				fmt.Fprintf(app.out, "You can now go back to %s\n", from)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "route you were trying to reach before logging in")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.session.Logout()
			fmt.Fprintln(app.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.session.Snapshot()
			if snap.User.IsZero() {
				fmt.Fprintln(app.out, "Not logged in")
				return nil
			}
			fmt.Fprintf(app.out, "%s <%s>\n", snap.User.Name, snap.User.Email)
			return nil
		},
	}
}

func (a *App) promptLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal, and falls back
// to a plain line read otherwise so the command stays scriptable.
func (a *App) promptPassword(prompt string) (string, error) {
	file, ok := a.in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return a.promptLine(prompt)
	}
	fmt.Fprint(a.out, prompt)
	raw, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
