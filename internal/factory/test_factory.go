package factory

import (
	"context"
	"log/slog"
	"time"

	"github.com/moonpull/moonpull-web/internal/dependencies/mocks"
	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/services/auth"
	"github.com/moonpull/moonpull-web/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	Clock *mocks.ManualClock
}

// NewTestApp creates an App on in-memory storage with a manual clock
func NewTestApp() *TestApp {
	return NewTestAppWithLogger(nil)
}

// NewTestAppWithLogger is NewTestApp with a caller-supplied logger
func NewTestAppWithLogger(logger *slog.Logger) *TestApp {
	store := memory.New()
	manual := mocks.NewManualClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	return &TestApp{
		App:   newWithDependencies(store, manual, auth.DefaultConfig(), logger),
		Clock: manual,
	}
}

// MustJoin registers a member and returns its session, panicking on error
func (t *TestApp) MustJoin(loginID, password, nickname string) *model.Session {
	session, err := t.AuthService.Join(context.Background(), loginID, password, nickname)
	if err != nil {
		panic(err)
	}
	return session
}

// MustJoinAdmin registers a member holding ROLE_ADMIN and returns a fresh session
func (t *TestApp) MustJoinAdmin(loginID, password, nickname string) *model.Session {
	ctx := context.Background()
	t.MustJoin(loginID, password, nickname)
	if err := t.AuthService.GrantRole(ctx, loginID, model.RoleAdmin); err != nil {
		panic(err)
	}
	session, err := t.AuthService.Login(ctx, loginID, password)
	if err != nil {
		panic(err)
	}
	return session
}
