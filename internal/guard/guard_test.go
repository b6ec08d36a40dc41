package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/session"
)

func marker(present bool) session.Marker {
	return session.MarkerFunc(func() bool { return present })
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		snap session.Snapshot
		want State
	}{
		{"not bootstrapped", session.Snapshot{}, Loading},
		{"not bootstrapped ignores auth flag", session.Snapshot{Authenticated: true}, Loading},
		{"signed out", session.Snapshot{Bootstrapped: true}, Denied},
		{"signed in", session.Snapshot{Bootstrapped: true, Authenticated: true}, Granted},
		{
			"signed in with profile",
			session.Snapshot{Bootstrapped: true, Authenticated: true, Profile: &model.Profile{Nickname: "alice"}},
			Granted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.snap))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "granted", Granted.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestEvaluateAfterBootstrapWithoutMarker(t *testing.T) {
	holder := session.NewHolder(nil, nil)
	holder.Bootstrap(marker(false))

	assert.False(t, holder.IsAuthenticated())
	assert.Equal(t, Denied, Evaluate(holder.Snapshot()))
}

func TestEvaluateAfterBootstrapWithMarker(t *testing.T) {
	holder := session.NewHolder(nil, nil)
	holder.Bootstrap(marker(true))

	assert.True(t, holder.IsAuthenticated())
	assert.Equal(t, Granted, Evaluate(holder.Snapshot()))
}

func TestTrackerFollowsHolder(t *testing.T) {
	holder := session.NewHolder(nil, nil)

	var changes []State
	tracker := NewTracker(holder, func(s State) { changes = append(changes, s) })
	defer tracker.Stop()

	assert.Equal(t, Loading, tracker.State())

	holder.Bootstrap(marker(false))
	assert.Equal(t, Denied, tracker.State())

	holder.Login("alice", "mentor")
	assert.Equal(t, Granted, tracker.State())

	holder.Logout(context.Background())
	assert.Equal(t, Denied, tracker.State())

	assert.Equal(t, []State{Denied, Granted, Denied}, changes)
}

func TestTrackerNeverReturnsToLoading(t *testing.T) {
	holder := session.NewHolder(nil, nil)
	holder.Bootstrap(marker(true))

	var changes []State
	tracker := NewTracker(holder, func(s State) { changes = append(changes, s) })
	defer tracker.Stop()

	holder.Logout(context.Background())
	holder.Bootstrap(marker(false))
	holder.Logout(context.Background())

	assert.Equal(t, Denied, tracker.State())
	assert.NotContains(t, changes, Loading)
}

func TestTrackerSkipsUnchangedStates(t *testing.T) {
	holder := session.NewHolder(nil, nil)
	holder.Login("alice", "mentor")

	count := 0
	tracker := NewTracker(holder, func(State) { count++ })
	defer tracker.Stop()

	holder.Login("bob", "mentee")
	assert.Equal(t, 0, count)
	assert.Equal(t, Granted, tracker.State())
}

func TestTrackerStop(t *testing.T) {
	holder := session.NewHolder(nil, nil)
	tracker := NewTracker(holder, nil)

	tracker.Stop()
	holder.Login("alice", "mentor")

	assert.Equal(t, Loading, tracker.State())
}
