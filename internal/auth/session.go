// Package auth owns the client session: the bearer token and user profile,
// their durable persistence, and the gate that decides whether protected
// views may render.
package auth

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/miskhill/annualmedia/internal/credstore"
	"github.com/miskhill/annualmedia/internal/entities"
	"github.com/miskhill/annualmedia/internal/mediaapi"
)

// Storage is the durable client storage behind the session. Implemented by
// credstore.Store.
type Storage interface {
	SaveSession(token string, user entities.User) error
	LoadToken() (string, error)
	LoadUser() (entities.User, error)
	Clear() error
}

// LoginAPI is the slice of the media API the session store needs.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (*mediaapi.LoginResult, error)
}

// Snapshot is a consistent view of the session state.
type Snapshot struct {
	Token            string
	User             entities.User
	IsAuthenticated  bool
	HasHydrated      bool
	IsAuthenticating bool
}

// Store holds the session. All mutations go through Login/Logout; durable
// storage is written through inside the same critical section as the
// in-memory change, so the two can never be observed out of sync.
type Store struct {
	mu       sync.Mutex
	storage  Storage
	api      LoginAPI
	token    string
	user     entities.User
	hydrated bool
	inFlight int
}

// NewStore creates an empty, not-yet-hydrated session store.
func NewStore(storage Storage, api LoginAPI) *Store {
	return &Store{storage: storage, api: api}
}

// Token returns the current bearer token. The Store is the shared API
// client's mediaapi.TokenSource, which makes it the single point of truth
// for the Authorization header.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Hydrate performs the one-time startup read of durable storage. Malformed
// entries are logged and treated as "no session"; hydration itself never
// fails.
func (s *Store) Hydrate() {
	token, err := s.storage.LoadToken()
	if err != nil {
		log.Printf("auth: ignoring stored token: %v", err)
		token = ""
	}
	user, err := s.storage.LoadUser()
	if err != nil {
		log.Printf("auth: ignoring stored user: %v", err)
		user = entities.User{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.hydrated = true
}

// Login exchanges credentials for a session. On success the token and user
// are set and persisted atomically and the user is returned. On failure the
// session is left untouched and the error is one of *CredentialsError,
// ErrNetworkUnreachable or *ServerError. Concurrent calls are not
// deduplicated; the last response wins.
func (s *Store) Login(ctx context.Context, email, password string) (entities.User, error) {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()

	result, err := s.api.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if err != nil {
		return entities.User{}, translateLoginError(err)
	}

	s.token = result.Token
	s.user = result.User
	if err := s.storage.SaveSession(result.Token, result.User); err != nil {
		// The in-memory session still works for this process; only the
		// next startup loses it.
		log.Printf("auth: persisting session failed: %v", err)
	}
	return result.User, nil
}

// Logout clears the session from memory and durable storage. It is
// synchronous, idempotent and always succeeds; a storage failure is logged.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = entities.User{}
	if err := s.storage.Clear(); err != nil {
		log.Printf("auth: clearing stored session failed: %v", err)
	}
}

// Snapshot returns the current session state. IsAuthenticated is derived:
// true iff both token and user are present.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Token:            s.token,
		User:             s.user,
		IsAuthenticated:  s.token != "" && !s.user.IsZero(),
		HasHydrated:      s.hydrated,
		IsAuthenticating: s.inFlight > 0,
	}
}

func translateLoginError(err error) error {
	if errors.Is(err, mediaapi.ErrNetworkUnreachable) {
		return ErrNetworkUnreachable
	}
	var apiErr *mediaapi.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return &CredentialsError{Message: apiErr.Message}
		}
		return &ServerError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	return err
}

var _ Storage = (*credstore.Store)(nil)
