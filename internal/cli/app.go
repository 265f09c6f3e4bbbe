// Package cli is the annualmedia command tree. Commands are thin: they parse
// flags, ask the route guard whether they may run, and hand off to the
// internal packages.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/miskhill/annualmedia/internal/auth"
	"github.com/miskhill/annualmedia/internal/config"
	"github.com/miskhill/annualmedia/internal/credstore"
	"github.com/miskhill/annualmedia/internal/mediaapi"
	"github.com/miskhill/annualmedia/internal/openlibrary"
)

// App wires the long-lived pieces together: one config, one credential
// store, one session store, and one shared client per upstream.
type App struct {
	cfg     *config.Config
	creds   *credstore.Store
	session *auth.Store
	guard   *auth.Guard
	api     *mediaapi.Client
	library *openlibrary.Client
	out     io.Writer
	in      io.Reader
	reader  *bufio.Reader
}

func newApp(in io.Reader, out io.Writer) (*App, error) {
	cfg := config.NewConfig()

	creds, err := credstore.New(credstore.Config{
		DatabasePath: cfg.Credentials.Path,
		KeyPath:      cfg.Credentials.KeyPath,
	})
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	// The session store is the API client's token source; the client is the
	// session store's login backend. The closure breaks the construction
	// cycle: by the time a request needs a token, the store exists.
	var session *auth.Store
	api := mediaapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout, mediaapi.TokenFunc(func() string {
		return session.Token()
	}))
	session = auth.NewStore(creds, api)
	session.Hydrate()

	library := openlibrary.NewClient(openlibrary.Config{
		BaseURL:      cfg.OpenLibrary.BaseURL,
		CoverBaseURL: cfg.OpenLibrary.CoverBaseURL,
		Timeout:      cfg.OpenLibrary.Timeout,
		RateLimit:    cfg.OpenLibrary.RateLimit,
		SearchLimit:  cfg.Search.MaxResults,
	})

	return &App{
		cfg:     cfg,
		creds:   creds,
		session: session,
		guard:   auth.NewGuard(session),
		api:     api,
		library: library,
		out:     out,
		in:      in,
		reader:  bufio.NewReader(in),
	}, nil
}

func (a *App) Close() error {
	return a.creds.Close()
}

// requireAuth runs the route guard for a protected command. The returned
// error carries the originally requested route so the user can come back to
// it after logging in.
func (a *App) requireAuth(route string) error {
	decision, err := a.guard.Evaluate(route)
	if err != nil {
		return err
	}
	switch decision.State {
	case auth.StateHydrating:
		return errors.New("session is still loading, try again")
	case auth.StateUnauthenticated:
		return fmt.Errorf("not logged in: run 'annualmedia login --from %q' first", decision.From)
	default:
		return nil
	}
}
