package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/testutil"
)

// fakeInvalidator records calls and returns a configured error
type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
	err   error
	// seenAuthenticated records the holder state observed during the call
	holder            *Holder
	seenAuthenticated []bool
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.holder != nil {
		f.seenAuthenticated = append(f.seenAuthenticated, f.holder.IsAuthenticated())
	}
	return f.err
}

type HolderSuite struct {
	suite.Suite
	invalidator *fakeInvalidator
	logs        *testutil.LogBuffer
	holder      *Holder
}

func TestHolderSuite(t *testing.T) {
	suite.Run(t, new(HolderSuite))
}

func (s *HolderSuite) SetupTest() {
	logger, logs := testutil.BufferLogger()
	s.invalidator = &fakeInvalidator{}
	s.logs = logs
	s.holder = NewHolder(s.invalidator, logger)
	s.invalidator.holder = s.holder
}

func present(v bool) Marker {
	return MarkerFunc(func() bool { return v })
}

// Bootstrap tests

func (s *HolderSuite) TestNewHolderIsNotBootstrapped() {
	s.False(s.holder.Bootstrapped())
	s.False(s.holder.IsAuthenticated())
	_, ok := s.holder.CurrentProfile()
	s.False(ok)
}

func (s *HolderSuite) TestBootstrapWithoutMarkerIsSignedOut() {
	s.holder.Bootstrap(present(false))

	s.True(s.holder.Bootstrapped())
	s.False(s.holder.IsAuthenticated())
	_, ok := s.holder.CurrentProfile()
	s.False(ok)
}

func (s *HolderSuite) TestBootstrapWithMarkerIsSignedIn() {
	s.holder.Bootstrap(present(true))

	s.True(s.holder.Bootstrapped())
	s.True(s.holder.IsAuthenticated())
}

func (s *HolderSuite) TestBootstrapNilMarkerIsSignedOut() {
	s.holder.Bootstrap(nil)

	s.True(s.holder.Bootstrapped())
	s.False(s.holder.IsAuthenticated())
}

func (s *HolderSuite) TestBootstrapRunsOnce() {
	reads := 0
	marker := MarkerFunc(func() bool {
		reads++
		return reads == 1
	})

	s.holder.Bootstrap(marker)
	s.holder.Bootstrap(marker)

	s.Equal(1, reads)
	s.True(s.holder.IsAuthenticated())
}

func (s *HolderSuite) TestBootstrapAfterLoginKeepsProfile() {
	s.holder.Login("alice", "mentor")
	s.holder.Bootstrap(present(false))

	s.True(s.holder.IsAuthenticated())
	profile, ok := s.holder.CurrentProfile()
	s.True(ok)
	s.Equal("alice", profile.Nickname)
}

// Login tests

func (s *HolderSuite) TestLoginSetsProfile() {
	s.holder.Login("alice", "mentor")

	s.True(s.holder.IsAuthenticated())
	profile, ok := s.holder.CurrentProfile()
	s.Require().True(ok)
	s.Equal(model.Profile{Nickname: "alice", Role: "mentor"}, profile)
}

func (s *HolderSuite) TestLoginMarksBootstrapped() {
	s.holder.Login("alice", "mentor")
	s.True(s.holder.Bootstrapped())
}

func (s *HolderSuite) TestLoginAcceptsEmptyFields() {
	s.holder.Login("", "")

	s.True(s.holder.IsAuthenticated())
	profile, ok := s.holder.CurrentProfile()
	s.True(ok)
	s.Equal(model.Profile{}, profile)
}

// Logout tests

func (s *HolderSuite) TestLogoutClearsStateAndCallsRemote() {
	s.holder.Login("alice", "mentor")

	s.holder.Logout(context.Background())

	s.False(s.holder.IsAuthenticated())
	_, ok := s.holder.CurrentProfile()
	s.False(ok)
	s.Equal(1, s.invalidator.calls)
}

func (s *HolderSuite) TestLogoutClearsStateBeforeRemoteCall() {
	s.holder.Login("alice", "mentor")

	s.holder.Logout(context.Background())

	s.Equal([]bool{false}, s.invalidator.seenAuthenticated)
}

func (s *HolderSuite) TestLogoutClearsStateWhenRemoteFails() {
	s.invalidator.err = errors.New("502 bad gateway")
	s.holder.Login("alice", "mentor")

	s.holder.Logout(context.Background())

	s.False(s.holder.IsAuthenticated())
	_, ok := s.holder.CurrentProfile()
	s.False(ok)
	s.Contains(s.logs.String(), "remote logout failed")
	s.Contains(s.logs.String(), "502 bad gateway")
}

func (s *HolderSuite) TestLogoutClearsStateWhenRemoteTimesOut() {
	s.invalidator.err = context.DeadlineExceeded
	s.holder.Login("alice", "mentor")

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	s.holder.Logout(ctx)

	s.False(s.holder.IsAuthenticated())
	s.Contains(s.logs.String(), context.DeadlineExceeded.Error())
}

func (s *HolderSuite) TestLogoutTwiceMatchesLogoutOnce() {
	s.holder.Login("alice", "mentor")

	s.holder.Logout(context.Background())
	once := s.holder.Snapshot()
	s.holder.Logout(context.Background())
	twice := s.holder.Snapshot()

	s.Equal(once, twice)
	s.False(twice.Authenticated)
	s.Nil(twice.Profile)
}

func (s *HolderSuite) TestLogoutKeepsBootstrapped() {
	s.holder.Bootstrap(present(true))
	s.holder.Logout(context.Background())

	s.True(s.holder.Bootstrapped())
}

func (s *HolderSuite) TestLogoutWithoutInvalidator() {
	holder := NewHolder(nil, nil)
	holder.Login("alice", "mentor")

	holder.Logout(context.Background())

	s.False(holder.IsAuthenticated())
}

// Subscribe tests

func (s *HolderSuite) TestSubscribeReceivesChanges() {
	var got []Snapshot
	cancel := s.holder.Subscribe(func(snap Snapshot) {
		got = append(got, snap)
	})
	defer cancel()

	s.holder.Bootstrap(present(false))
	s.holder.Login("alice", "mentor")
	s.holder.Logout(context.Background())

	s.Require().Len(got, 3)
	s.Equal(Snapshot{Bootstrapped: true}, got[0])
	s.True(got[1].Authenticated)
	s.Equal(&model.Profile{Nickname: "alice", Role: "mentor"}, got[1].Profile)
	s.Equal(Snapshot{Bootstrapped: true}, got[2])
}

func (s *HolderSuite) TestRepeatedLogoutDoesNotNotify() {
	s.holder.Bootstrap(present(false))

	count := 0
	cancel := s.holder.Subscribe(func(Snapshot) { count++ })
	defer cancel()

	s.holder.Logout(context.Background())
	s.Equal(0, count)
}

func (s *HolderSuite) TestUnsubscribeStopsNotifications() {
	count := 0
	cancel := s.holder.Subscribe(func(Snapshot) { count++ })

	s.holder.Login("alice", "mentor")
	cancel()
	s.holder.Logout(context.Background())

	s.Equal(1, count)
}

func (s *HolderSuite) TestListenerMayReadHolder() {
	var seen bool
	s.holder.Subscribe(func(Snapshot) {
		seen = s.holder.IsAuthenticated()
	})

	s.holder.Login("alice", "mentor")
	s.True(seen)
}

func (s *HolderSuite) TestSnapshotProfileIsACopy() {
	s.holder.Login("alice", "mentor")

	snap := s.holder.Snapshot()
	snap.Profile.Nickname = "mallory"

	profile, _ := s.holder.CurrentProfile()
	s.Equal("alice", profile.Nickname)
}

func TestHolderConcurrentAccess(t *testing.T) {
	holder := NewHolder(InvalidatorFunc(func(context.Context) error { return nil }), nil)
	holder.Bootstrap(MarkerFunc(func() bool { return true }))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			holder.Login("alice", "mentor")
		}()
		go func() {
			defer wg.Done()
			holder.Logout(context.Background())
		}()
		go func() {
			defer wg.Done()
			snap := holder.Snapshot()
			// The profile is never set without the authenticated flag
			if snap.Profile != nil {
				assert.True(t, snap.Authenticated)
			}
		}()
	}
	wg.Wait()

	snap := holder.Snapshot()
	require.True(t, snap.Bootstrapped)
	assert.Equal(t, snap.Authenticated, snap.Profile != nil)
}
