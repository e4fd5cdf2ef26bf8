// Package session holds the client-side authentication state: the single
// source of truth for "who is the current user". All authentication network
// calls go through the Store; everything else reads its state.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mallhub-dev/mallhub/internal/cli/client"
	"github.com/mallhub-dev/mallhub/internal/guard"
)

// genericNetworkError is surfaced when a request fails before the server
// could produce a message
const genericNetworkError = "network error"

// API is the slice of the HTTP client the store drives
type API interface {
	Me(ctx context.Context) (*client.User, error)
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Register(ctx context.Context, r client.RegisterRequest, logoPath string) (*client.User, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, u client.ProfileUpdate) (*client.User, error)
}

// State is a snapshot of the session. User and Token are only set while
// Status is StatusAuthenticated; the token is informational on this side of
// the wire (the server enforces auth via its own cookie).
type State struct {
	User    *client.User
	Token   string
	Status  guard.Status
	Loading bool
	Err     string
}

// Authenticated reports whether the state carries a confirmed login
func (s State) Authenticated() bool {
	return s.Status == guard.StatusAuthenticated
}

// Result is the outcome of a mutating session operation. Operations never
// return a Go error; callers branch on Success and present Err themselves.
type Result struct {
	Success bool
	User    *client.User
	Err     string
}

// Store owns the session state. State is mutated only by the Store's own
// operations; consumers read copies via State(). Each mutating operation is
// stamped with an increasing sequence number and a response that arrives
// after a newer operation has begun is discarded, so a stale response cannot
// overwrite newer state.
type Store struct {
	mu    sync.Mutex
	api   API
	log   zerolog.Logger
	seq   uint64
	state State
}

// New creates a session store in the unresolved state. Callers are expected
// to run CheckAuthStatus once right after construction.
func New(api API, log zerolog.Logger) *Store {
	return &Store{
		api: api,
		log: log,
		state: State{
			Status: guard.StatusUnknown,
		},
	}
}

// State returns a copy of the current session state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the guard view of the current state
func (s *Store) Snapshot() guard.Snapshot {
	st := s.State()
	snap := guard.Snapshot{
		Status:  st.Status,
		Loading: st.Loading,
	}
	if st.User != nil {
		snap.User = guard.Principal{
			Role:     st.User.Role,
			UserType: st.User.UserType,
		}
	}
	return snap
}

// begin stamps a new operation: bumps the sequence, sets Loading and
// optionally clears the previous error
func (s *Store) begin(clearErr bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state.Loading = true
	if clearErr {
		s.state.Err = ""
	}
	return s.seq
}

// commit applies fn only if no newer operation has begun since seq was
// issued. Stale responses are dropped entirely; the newer operation owns the
// Loading flag.
func (s *Store) commit(seq uint64, fn func(*State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	fn(&s.state)
	s.state.Loading = false
	return true
}

// errorMessage extracts the server-provided message from an API error, or
// falls back to a generic network error for transport failures
func errorMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return genericNetworkError
}

// CheckAuthStatus probes the backend for an active session. Success confirms
// the login; any failure resolves to anonymous without surfacing an error, so
// a cold-starting backend never flashes an error at startup.
func (s *Store) CheckAuthStatus(ctx context.Context) {
	seq := s.begin(false)

	user, err := s.api.Me(ctx)

	s.commit(seq, func(st *State) {
		if err != nil {
			s.log.Debug().Err(err).Msg("Session check resolved to anonymous")
			st.User = nil
			st.Token = ""
			st.Status = guard.StatusAnonymous
			return
		}
		st.User = user
		st.Status = guard.StatusAuthenticated
	})
}

// Login authenticates with email and password. A non-ok response surfaces
// the server message; a transport failure surfaces a generic network error.
// Either way the caller gets a Result, never a panic or an error value.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	seq := s.begin(true)

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		msg := errorMessage(err, "Login failed")
		s.commit(seq, func(st *State) {
			st.User = nil
			st.Token = ""
			st.Status = guard.StatusAnonymous
			st.Err = msg
		})
		return Result{Success: false, Err: msg}
	}

	s.commit(seq, func(st *State) {
		st.User = resp.User
		st.Token = resp.Token
		st.Status = guard.StatusAuthenticated
	})
	return Result{Success: true, User: resp.User}
}

// Register creates a new account. Success does not authenticate: a seller
// account needs admin approval before its first login, so the state stays
// anonymous either way. logoPath switches the request to multipart.
func (s *Store) Register(ctx context.Context, r client.RegisterRequest, logoPath string) Result {
	seq := s.begin(true)

	user, err := s.api.Register(ctx, r, logoPath)
	if err != nil {
		msg := errorMessage(err, "Registration failed")
		s.commit(seq, func(st *State) {
			st.Err = msg
		})
		return Result{Success: false, Err: msg}
	}

	s.commit(seq, func(st *State) {})
	return Result{Success: true, User: user}
}

// Logout terminates the session. The network call is best-effort: its
// failure is logged, never surfaced, and the local state is reset to
// anonymous regardless. Logout must not leave stale authenticated state
// behind a dead network.
func (s *Store) Logout(ctx context.Context) {
	seq := s.begin(false)

	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Logout request failed; clearing local session anyway")
	}

	s.commit(seq, func(st *State) {
		st.User = nil
		st.Token = ""
		st.Status = guard.StatusAnonymous
		st.Err = ""
	})
}

// UpdateProfile applies profile changes. Success swaps the user record in
// place; failure surfaces the message. Authentication status is untouched in
// both cases.
func (s *Store) UpdateProfile(ctx context.Context, u client.ProfileUpdate) Result {
	seq := s.begin(true)

	user, err := s.api.UpdateProfile(ctx, u)
	if err != nil {
		msg := errorMessage(err, "Profile update failed")
		s.commit(seq, func(st *State) {
			st.Err = msg
		})
		return Result{Success: false, Err: msg}
	}

	s.commit(seq, func(st *State) {
		st.User = user
	})
	return Result{Success: true, User: user}
}

// ClearError resets the last error. Idempotent.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
}
