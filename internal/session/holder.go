// Package session holds the client-side view of whether a user is signed
// in. A Holder is owned by one actor (a web request or a CLI run); other
// components read it and subscribe to its changes.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/moonpull/moonpull-web/internal/model"
)

// Invalidator asks the remote side to end the current session
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// InvalidatorFunc adapts a function to the Invalidator interface
type InvalidatorFunc func(ctx context.Context) error

// Invalidate calls f(ctx)
func (f InvalidatorFunc) Invalidate(ctx context.Context) error {
	return f(ctx)
}

// Snapshot is a read-only copy of the holder state
type Snapshot struct {
	Bootstrapped  bool
	Authenticated bool
	Profile       *model.Profile // nil unless Authenticated
}

// Holder tracks the authentication state for a single actor.
// Mutation happens only through Bootstrap, Login and Logout.
type Holder struct {
	invalidator Invalidator
	logger      *slog.Logger

	mu            sync.RWMutex
	bootstrapped  bool
	authenticated bool
	profile       *model.Profile

	listenersMu sync.Mutex
	listeners   map[int]func(Snapshot)
	nextID      int
}

// NewHolder creates an unbootstrapped, signed-out Holder.
// A nil invalidator makes Logout purely local.
func NewHolder(invalidator Invalidator, logger *slog.Logger) *Holder {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Holder{
		invalidator: invalidator,
		logger:      logger,
		listeners:   make(map[int]func(Snapshot)),
	}
}

// Bootstrap performs the one-time credential check. Only the presence of
// the marker is consulted; later calls are ignored.
func (h *Holder) Bootstrap(marker Marker) {
	h.mu.Lock()
	if h.bootstrapped {
		h.mu.Unlock()
		return
	}
	h.bootstrapped = true
	h.authenticated = marker != nil && marker.Present()
	h.profile = nil
	snap := h.snapshotLocked()
	h.mu.Unlock()

	h.notify(snap)
}

// Bootstrapped reports whether the initial credential check has completed
func (h *Holder) Bootstrapped() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bootstrapped
}

// IsAuthenticated returns the current authentication flag
func (h *Holder) IsAuthenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.authenticated
}

// CurrentProfile returns the signed-in profile, if any
func (h *Holder) CurrentProfile() (model.Profile, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.profile == nil {
		return model.Profile{}, false
	}
	return *h.profile, true
}

// Snapshot returns a copy of the current state
func (h *Holder) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshotLocked()
}

// Login records a signed-in user. No validation happens here: the caller
// has already established the credential with the server.
func (h *Holder) Login(nickname, role string) {
	h.mu.Lock()
	h.bootstrapped = true
	h.authenticated = true
	h.profile = &model.Profile{Nickname: nickname, Role: role}
	snap := h.snapshotLocked()
	h.mu.Unlock()

	h.notify(snap)
}

// Logout clears the local state and then asks the remote side to
// invalidate the session. Local state is cleared whatever the remote
// outcome; a remote failure is only logged.
func (h *Holder) Logout(ctx context.Context) {
	h.mu.Lock()
	changed := h.authenticated || h.profile != nil
	h.authenticated = false
	h.profile = nil
	snap := h.snapshotLocked()
	h.mu.Unlock()

	if changed {
		h.notify(snap)
	}

	if h.invalidator == nil {
		return
	}
	if err := h.invalidator.Invalidate(ctx); err != nil {
		h.logger.Warn("remote logout failed",
			slog.String("error", err.Error()),
		)
	}
}

// Subscribe registers fn to be called after every state change.
// The returned function removes the subscription.
func (h *Holder) Subscribe(fn func(Snapshot)) func() {
	h.listenersMu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.listenersMu.Unlock()

	return func() {
		h.listenersMu.Lock()
		delete(h.listeners, id)
		h.listenersMu.Unlock()
	}
}

func (h *Holder) snapshotLocked() Snapshot {
	snap := Snapshot{
		Bootstrapped:  h.bootstrapped,
		Authenticated: h.authenticated,
	}
	if h.profile != nil {
		p := *h.profile
		snap.Profile = &p
	}
	return snap
}

// notify runs listeners outside the state lock so they may read the holder
func (h *Holder) notify(snap Snapshot) {
	h.listenersMu.Lock()
	fns := make([]func(Snapshot), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.listenersMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
