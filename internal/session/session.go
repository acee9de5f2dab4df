// Package session owns the authenticated identity for the current run.
// The Store is the tab-scoped cache: it lives exactly as long as the process
// and is the only place identity is held. The Probe is the sole writer.
package session

import (
	"context"
	"sync"

	"trolley/internal/api"
	"trolley/internal/logging"
)

// Store caches the resolved identity. All reads go through a snapshot copy so
// no caller can mutate the cached value.
type Store struct {
	mu       sync.RWMutex
	identity *api.Identity
}

// NewStore returns an empty identity store.
func NewStore() *Store {
	return &Store{}
}

// Identity returns a copy of the cached identity, or nil when anonymous.
func (s *Store) Identity() *api.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// UserID returns the cached user id and whether an identity is present.
func (s *Store) UserID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return 0, false
	}
	return s.identity.UserID, true
}

func (s *Store) set(id *api.Identity) {
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
}

// Clear drops the cached identity. Called on probe failure, logout, and any
// session-expired response.
func (s *Store) Clear() {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
}

// Probe resolves who the current session belongs to.
type Probe struct {
	client *api.Client
	store  *Store
}

// NewProbe wires a probe over the API client and identity store.
func NewProbe(client *api.Client, store *Store) *Probe {
	return &Probe{client: client, store: store}
}

// Resolve issues one call to the identity endpoint. On success the identity
// is cached and returned. On any failure (network, 401, malformed body) the
// cache is cleared and nil is returned; the anonymous outcome is not an
// error, so Resolve never returns one to the caller. Safe to call any number
// of times per run.
func (p *Probe) Resolve(ctx context.Context) *api.Identity {
	id, err := p.client.Me(ctx)
	if err != nil {
		logging.SessionDebug("identity probe failed: %v", err)
		p.store.Clear()
		return nil
	}
	p.store.set(id)
	logging.Session("resolved identity %s (id=%d)", id.Username, id.UserID)
	return p.store.Identity()
}

// Login authenticates and caches the returned identity.
func (p *Probe) Login(ctx context.Context, username, password string) (*api.Identity, error) {
	id, err := p.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	p.store.set(id)
	return p.store.Identity(), nil
}

// Logout invalidates the server session and clears the cache. The cache is
// cleared even when the server call fails; a dead session cookie is useless
// either way.
func (p *Probe) Logout(ctx context.Context) error {
	err := p.client.Logout(ctx)
	p.store.Clear()
	if err != nil {
		logging.Session("logout call failed: %v", err)
	}
	return err
}
