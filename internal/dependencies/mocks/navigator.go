package mocks

import (
	"sync"

	"github.com/moonpull/moonpull-web/internal/prompt"
)

var _ prompt.Navigator = (*Navigator)(nil)

// Navigator records every navigation target, in order
type Navigator struct {
	mu      sync.Mutex
	targets []string
}

// Navigate records target
func (n *Navigator) Navigate(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

// Targets returns all recorded targets
func (n *Navigator) Targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

// Last returns the most recent target, or "" if none
func (n *Navigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.targets) == 0 {
		return ""
	}
	return n.targets[len(n.targets)-1]
}
