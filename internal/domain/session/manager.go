package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/welldoc/riskdash/internal/platform/statestore"
)

// sessionKey is the state-store key holding the active profile, mirroring
// the key the browser front-end used in local storage.
const sessionKey = "welldoc_user"

// Manager owns the active session. There is at most one session per Manager;
// the persisted copy in the state store is a serialized mirror that is
// restored (and trusted without re-validation) at construction time.
type Manager struct {
	creds  *CredentialStore
	state  statestore.Store
	logger zerolog.Logger

	mu      sync.RWMutex
	current *Profile
}

// NewManager wires a Manager to its credential store and state store, then
// restores any persisted session. A malformed persisted session is deleted
// and treated as "no session" rather than surfaced as an error.
func NewManager(ctx context.Context, creds *CredentialStore, state statestore.Store, logger zerolog.Logger) *Manager {
	m := &Manager{
		creds:  creds,
		state:  state,
		logger: logger.With().Str("component", "session").Logger(),
	}
	m.restore(ctx)
	return m
}

func (m *Manager) restore(ctx context.Context) {
	data, found, err := m.state.Get(ctx, sessionKey)
	if err != nil {
		m.logger.Warn().Err(err).Msg("could not read persisted session")
		return
	}
	if !found {
		return
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		// Self-healing: corrupt mirror is discarded, not retried.
		m.logger.Warn().Err(err).Msg("discarding malformed persisted session")
		if delErr := m.state.Delete(ctx, sessionKey); delErr != nil {
			m.logger.Warn().Err(delErr).Msg("could not delete malformed session")
		}
		return
	}

	m.mu.Lock()
	m.current = &p
	m.mu.Unlock()
	m.logger.Info().Str("username", p.Username).Msg("session restored")
}

// Login checks the credentials and, on a match, establishes a session for
// the matched profile and persists it. A failed match returns false and
// leaves any prior session untouched; it is a normal outcome, not an error.
func (m *Manager) Login(ctx context.Context, username, password string) bool {
	c, ok := m.creds.Lookup(username)
	if !ok || c.Password != password {
		return false
	}

	p := c.Profile
	m.mu.Lock()
	m.current = &p
	m.mu.Unlock()

	data, err := json.Marshal(p)
	if err == nil {
		err = m.state.Set(ctx, sessionKey, data)
	}
	if err != nil {
		// The in-memory session is authoritative; a failed mirror write only
		// costs survival across restarts.
		m.logger.Warn().Err(err).Str("username", p.Username).Msg("could not persist session")
	}

	m.logger.Info().Str("username", p.Username).Msg("login")
	return true
}

// Logout clears the session and removes the persisted mirror. Calling it
// with no active session is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	had := m.current != nil
	m.current = nil
	m.mu.Unlock()

	if err := m.state.Delete(ctx, sessionKey); err != nil {
		m.logger.Warn().Err(err).Msg("could not delete persisted session")
	}
	if had {
		m.logger.Info().Msg("logout")
	}
}

// CurrentUser returns a copy of the active profile, or nil when no session
// is established.
func (m *Manager) CurrentUser() *Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	p := *m.current
	return &p
}
