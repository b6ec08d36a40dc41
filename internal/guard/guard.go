// Package guard decides whether protected content may be shown.
package guard

import (
	"sync"

	"github.com/moonpull/moonpull-web/internal/session"
)

// State is the outcome of evaluating a session for a protected view
type State int

const (
	// Loading means the initial credential check has not finished
	Loading State = iota
	// Denied means the user is not signed in
	Denied
	// Granted means the protected view may be rendered
	Granted
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Denied:
		return "denied"
	case Granted:
		return "granted"
	default:
		return "unknown"
	}
}

// Evaluate maps the two session flags onto a State
func Evaluate(snap session.Snapshot) State {
	switch {
	case !snap.Bootstrapped:
		return Loading
	case !snap.Authenticated:
		return Denied
	default:
		return Granted
	}
}

// Tracker keeps the guard State of a holder current as the holder changes
type Tracker struct {
	mu       sync.Mutex
	state    State
	onChange func(State)
	cancel   func()
}

// NewTracker evaluates holder now and again on every change.
// onChange (optional) is called only when the State actually changes.
func NewTracker(holder *session.Holder, onChange func(State)) *Tracker {
	t := &Tracker{onChange: onChange}
	t.cancel = holder.Subscribe(t.update)
	t.mu.Lock()
	t.state = Evaluate(holder.Snapshot())
	t.mu.Unlock()
	return t
}

// State returns the latest evaluation
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stop detaches the tracker from its holder
func (t *Tracker) Stop() {
	t.cancel()
}

func (t *Tracker) update(snap session.Snapshot) {
	next := Evaluate(snap)

	t.mu.Lock()
	if next == t.state {
		t.mu.Unlock()
		return
	}
	t.state = next
	t.mu.Unlock()

	if t.onChange != nil {
		t.onChange(next)
	}
}
