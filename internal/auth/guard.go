package auth

// LoginRoute is the entry point unauthenticated users are redirected to.
const LoginRoute = "/login"

// State is the route guard's three-way verdict.
type State int

const (
	// StateHydrating: storage has not been read yet or a login is in
	// flight. Protected content must not render and no redirect may be
	// issued, otherwise a logged-in user would see a login flash at
	// startup.
	StateHydrating State = iota
	// StateUnauthenticated: hydration finished and there is no session.
	StateUnauthenticated
	// StateAuthenticated: a full session exists.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateHydrating:
		return "hydrating"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Decision tells the caller what to do with a protected route request.
type Decision struct {
	State State
	// RedirectTo is set for StateUnauthenticated.
	RedirectTo string
	// From is the originally requested path+query, carried through the
	// redirect so login can return the user there.
	From string
}

// SessionReader is the slice of the session store the guard needs.
type SessionReader interface {
	Snapshot() Snapshot
}

// Guard gates protected content on session state.
type Guard struct {
	session SessionReader
}

// NewGuard wires a guard to a session store.
func NewGuard(session SessionReader) *Guard {
	return &Guard{session: session}
}

// Evaluate decides what to do with a request for the given protected path.
// The hydrating check runs first; auth is only consulted once hydration has
// settled.
func (g *Guard) Evaluate(requested string) (Decision, error) {
	if g == nil || g.session == nil {
		return Decision{}, ErrNotInitialized
	}

	snap := g.session.Snapshot()
	if !snap.HasHydrated || snap.IsAuthenticating {
		return Decision{State: StateHydrating}, nil
	}
	if !snap.IsAuthenticated {
		return Decision{
			State:      StateUnauthenticated,
			RedirectTo: LoginRoute,
			From:       requested,
		}, nil
	}
	return Decision{State: StateAuthenticated}, nil
}
