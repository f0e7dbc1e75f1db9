package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
)

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

type State int

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Authenticator performs the login call.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (LoginResponse, error)
}

// Manager owns the session lifecycle: restore, login, logout.
// One Manager is bound to one Store (one browser, one CLI profile); it is passed explicitly to its consumers.
type Manager struct {
	store Store
	authn Authenticator

	mu      sync.RWMutex
	state   State
	current Session

	NowFunc func() time.Time
}

func NewManager(store Store, authn Authenticator) *Manager {
	return &Manager{store: store, authn: authn, NowFunc: time.Now}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Restore loads {token, user} from the store. A missing or unusable value leaves the Manager unauthenticated.
func (m *Manager) Restore() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.load()
	if !ok {
		_ = m.store.Delete(TokenKey, UserKey)
		m.state, m.current = Unauthenticated, Session{}
		return Session{}, false
	}
	m.state, m.current = Authenticated, sess
	return sess, true
}

func (m *Manager) load() (Session, bool) {
	token, err := m.store.Get(TokenKey)
	if err != nil || token == "" {
		return Session{}, false
	}
	raw, err := m.store.Get(UserKey)
	if err != nil || raw == "" {
		return Session{}, false
	}
	var usr User
	if err := json.Unmarshal([]byte(raw), &usr); err != nil {
		return Session{}, false
	}
	if tokenExpired(token, m.NowFunc()) {
		return Session{}, false
	}
	return Session{Token: token, User: usr, Role: usr.Role}, true
}

// Login authenticates against the server and persists the session.
// An unrecognized role is an error and nothing is persisted.
func (m *Manager) Login(ctx context.Context, creds Credentials) (Session, error) {
	m.mu.Lock()
	if m.state == Authenticating {
		m.mu.Unlock()
		return Session{}, ErrNotResolved
	}
	m.state = Authenticating
	m.mu.Unlock()

	sess, err := m.login(ctx, creds)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		// a failed login leaves no earlier session behind
		_ = m.store.Delete(TokenKey, UserKey)
		m.state, m.current = Unauthenticated, Session{}
		return Session{}, err
	}
	m.state, m.current = Authenticated, sess
	return sess, nil
}

func (m *Manager) login(ctx context.Context, creds Credentials) (Session, error) {
	resp, err := m.authn.Login(ctx, creds)
	if err != nil {
		return Session{}, errors.Wrap(err, "logging in")
	}
	if resp.Token == "" || resp.User == nil {
		msg := resp.Message
		if msg == "" {
			msg = "invalid credentials"
		}
		return Session{}, core.NewValidationError(errors.New(msg))
	}

	usr := *resp.User
	role := firstNonEmpty(resp.Role, usr.Role, creds.Role)
	if _, err := Destination(role); err != nil {
		return Session{}, err
	}
	usr.Role = role

	data, err := json.Marshal(usr)
	if err != nil {
		return Session{}, errors.Wrap(err, "encoding user")
	}
	if err := m.store.Set(TokenKey, resp.Token); err != nil {
		return Session{}, errors.Wrap(err, "persisting token")
	}
	if err := m.store.Set(UserKey, string(data)); err != nil {
		_ = m.store.Delete(TokenKey)
		return Session{}, errors.Wrap(err, "persisting user")
	}
	return Session{Token: resp.Token, User: usr, Role: role}, nil
}

func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state, m.current = Unauthenticated, Session{}
	return errors.Wrap(m.store.Delete(TokenKey, UserKey), "clearing session")
}

func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != Authenticated {
		return Session{}, false
	}
	return m.current, true
}

// Token implements the gateway token source.
func (m *Manager) Token() string {
	sess, _ := m.Current()
	return sess.Token
}

// Require is the check every protected view runs before fetching data.
func (m *Manager) Require() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case m.state == Authenticating:
		return Session{}, ErrNotResolved
	case m.state != Authenticated || m.current.Token == "":
		return Session{}, ErrUnauthenticated
	}
	return m.current, nil
}

// RequireRole additionally checks the session belongs to the given area.
func (m *Manager) RequireRole(role string) (Session, error) {
	sess, err := m.Require()
	if err != nil {
		return Session{}, err
	}
	if sess.Role != role {
		return sess, ErrWrongArea
	}
	return sess, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = core.CleanString(v, true /* lower */); v != "" {
			return v
		}
	}
	return ""
}
