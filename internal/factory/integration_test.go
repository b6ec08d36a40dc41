package factory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/moonpull/moonpull-web/internal/config"
	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/services/auth"
	"github.com/moonpull/moonpull-web/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: a member joins, signs in again elsewhere, and signs out of one device
func (s *IntegrationSuite) TestSessionLifecycle() {
	first := s.app.MustJoin("alice01", "password123", "Alice")

	second, err := s.app.AuthService.Login(s.ctx, "alice01", "password123")
	s.Require().NoError(err)
	s.NotEqual(first.Token, second.Token)

	s.Require().NoError(s.app.AuthService.InvalidateSession(s.ctx, first.Token))

	_, err = s.app.AuthService.ValidateSession(s.ctx, first.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)

	still, err := s.app.AuthService.ValidateSession(s.ctx, second.Token)
	s.Require().NoError(err)
	s.Equal(model.Profile{Nickname: "Alice", Role: "MENTEE"}, still.Profile())
}

// Test: sessions expire with the clock
func (s *IntegrationSuite) TestSessionExpiry() {
	session := s.app.MustJoin("alice01", "password123", "Alice")

	s.app.Clock.Advance(23 * time.Hour)
	_, err := s.app.AuthService.ValidateSession(s.ctx, session.Token)
	s.NoError(err)

	s.app.Clock.Advance(2 * time.Hour)
	_, err = s.app.AuthService.ValidateSession(s.ctx, session.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)
}

func (s *IntegrationSuite) TestSeedAdmin() {
	s.app.MustJoin("root", "password123", "Root")

	s.Require().NoError(s.app.SeedAdmin(s.ctx, "root"))

	session, err := s.app.AuthService.Login(s.ctx, "root", "password123")
	s.Require().NoError(err)
	s.True(model.HasRole(session.Roles, model.RoleAdmin))
}

func (s *IntegrationSuite) TestSeedAdminSkipsUnknownLogin() {
	logger, buf := testutil.BufferLogger()
	app := NewTestAppWithLogger(logger)

	s.NoError(app.SeedAdmin(s.ctx, "ghost"))
	s.Contains(buf.String(), "admin login id has not joined yet")
}

func (s *IntegrationSuite) TestSweepSessionsStopsWithContext() {
	s.app.MustJoin("alice01", "password123", "Alice")
	s.app.Clock.Advance(48 * time.Hour)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.app.SweepSessions(ctx, time.Millisecond)
		close(done)
	}()

	s.Eventually(func() bool {
		sessions, err := s.app.Storage.ListSessions(s.ctx)
		return err == nil && len(sessions) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	s.Eventually(func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func (s *IntegrationSuite) TestNewWithMemoryStorage() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.NoError(app.Close())
}

func (s *IntegrationSuite) TestNewRejectsUnknownStorage() {
	_, err := New(Config{StorageType: "postgres"})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewRedisRequiresConfig() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.Error(err)
}

func (s *IntegrationSuite) TestConfigFromRedis() {
	mr := miniredis.RunT(s.T())

	cfg := config.Default()
	cfg.Storage.Type = config.StorageRedis
	cfg.Storage.RedisURL = "redis://" + mr.Addr()
	cfg.Auth.SessionDuration = 2 * time.Hour

	fc := ConfigFrom(cfg, nil)
	s.Require().NotNil(fc.RedisConfig)
	s.Equal(2*time.Hour, fc.RedisConfig.SessionTTL)

	app, err := New(fc)
	s.Require().NoError(err)
	defer func() { s.NoError(app.Close()) }()

	session, err := app.AuthService.Join(s.ctx, "alice01", "password123", "Alice")
	s.Require().NoError(err)

	got, err := app.AuthService.ValidateSession(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal("Alice", got.Nickname)
}
