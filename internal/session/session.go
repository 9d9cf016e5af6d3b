// Package session mirrors the browser side of authentication: one session
// value replicated into two independent client stores, plus the navigation
// guard that runs before a protected page renders. The stores stand in for
// the persistent cookie facility and the ephemeral page cache; both are
// external collaborators reached only through the Store interface.
package session

import (
	"errors"
	"sync"
)

// Session is the client-held credential state: the bearer token plus the
// role and display name needed to route and render without another round
// trip.
type Session struct {
	Token string
	Role  string
	Name  string
}

// Valid reports whether the session represents an authenticated state.
func (s Session) Valid() bool {
	return s.Token != ""
}

// Store is one client-side persistence facility.
type Store interface {
	Save(Session) error
	Load() (Session, bool)
	Clear() error
}

// MemoryStore is an in-process Store, used for the ephemeral page cache and
// in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
	set     bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.set = true
	return nil
}

func (m *MemoryStore) Load() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set || !m.session.Valid() {
		return Session{}, false
	}
	return m.session, true
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	m.set = false
	return nil
}

// AuthCache keeps the session replicated in both stores. Every successful
// write fires a change notification so all consumers re-read; the guard
// store is the one consulted ahead of page code, the page store by in-page
// components.
type AuthCache struct {
	mu    sync.Mutex
	guard Store
	page  Store
	subs  map[int]func(Session, bool)
	next  int
}

func NewAuthCache(guardStore, pageStore Store) *AuthCache {
	return &AuthCache{
		guard: guardStore,
		page:  pageStore,
		subs:  make(map[int]func(Session, bool)),
	}
}

// SignIn writes the session to both stores and notifies subscribers. A
// partial write is rolled back by clearing both stores so the replicas never
// disagree about whether a session exists.
func (c *AuthCache) SignIn(s Session) error {
	if !s.Valid() {
		return errors.New("session requires a token")
	}
	c.mu.Lock()
	if err := c.guard.Save(s); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.page.Save(s); err != nil {
		_ = c.guard.Clear()
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()
	c.notify(s, true)
	return nil
}

// SignOut clears both stores. Each clear is attempted regardless of the
// other's outcome and clearing is idempotent, so a failed SignOut can simply
// be retried until both replicas are empty.
func (c *AuthCache) SignOut() error {
	c.mu.Lock()
	guardErr := c.guard.Clear()
	pageErr := c.page.Clear()
	c.mu.Unlock()
	c.notify(Session{}, false)
	return errors.Join(guardErr, pageErr)
}

// Current reads the replicated session, preferring the guard store and
// falling back to the page store when the guard copy is missing.
func (c *AuthCache) Current() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.guard.Load(); ok {
		return s, true
	}
	return c.page.Load()
}

// Subscribe registers a change listener and returns its unsubscribe func.
func (c *AuthCache) Subscribe(fn func(Session, bool)) func() {
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *AuthCache) notify(s Session, authed bool) {
	c.mu.Lock()
	listeners := make([]func(Session, bool), 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(s, authed)
	}
}
