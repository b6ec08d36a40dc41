package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/moonpull/moonpull-web/internal/dependencies/clock"
	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrLoginIDExists      = errors.New("login id already exists")
)

// Service handles member accounts and server-side sessions
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		logger:          logger,
		sessionDuration: cfg.SessionDuration,
	}
}

// Join registers a new mentee account and opens a session for it
func (s *Service) Join(ctx context.Context, loginID, password, nickname string) (*model.Session, error) {
	_, err := s.storage.GetCredentialByLoginID(ctx, loginID)
	if err == nil {
		return nil, ErrLoginIDExists
	}
	if !errors.Is(err, model.ErrMemberNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	member := &model.Member{
		ID:        model.MemberID(uuid.NewString()),
		LoginID:   loginID,
		Nickname:  nickname,
		Roles:     []string{model.RoleMentee},
		CreatedAt: now,
	}
	cred := &model.Credential{
		MemberID:     member.ID,
		LoginID:      loginID,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveMember(ctx, member); err != nil {
		return nil, err
	}
	if err := s.storage.SaveCredential(ctx, cred); err != nil {
		return nil, err
	}

	s.logger.Info("member joined",
		slog.String("member_id", string(member.ID)),
		slog.String("login_id", loginID),
	)

	return s.createSession(ctx, member)
}

// Login checks a password and opens a session for the member
func (s *Service) Login(ctx context.Context, loginID, password string) (*model.Session, error) {
	cred, err := s.storage.GetCredentialByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, model.ErrMemberNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	member, err := s.storage.GetMember(ctx, cred.MemberID)
	if err != nil {
		return nil, err
	}

	return s.createSession(ctx, member)
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if session.Expired(s.clock.Now()) {
		if err := s.storage.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", slog.String("error", err.Error()))
		}
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session. Unknown tokens are ignored.
func (s *Service) InvalidateSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.storage.DeleteSession(ctx, token)
}

// SetRoles replaces the roles of a member. Existing sessions keep the
// roles they were opened with.
func (s *Service) SetRoles(ctx context.Context, memberID model.MemberID, roles []string) error {
	member, err := s.storage.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	member.Roles = append([]string(nil), roles...)
	return s.storage.SaveMember(ctx, member)
}

// GrantRole adds role to the member with loginID if not already held
func (s *Service) GrantRole(ctx context.Context, loginID, role string) error {
	cred, err := s.storage.GetCredentialByLoginID(ctx, loginID)
	if err != nil {
		return fmt.Errorf("grant %s to %q: %w", role, loginID, err)
	}
	member, err := s.storage.GetMember(ctx, cred.MemberID)
	if err != nil {
		return fmt.Errorf("grant %s to %q: %w", role, loginID, err)
	}
	if model.HasRole(member.Roles, role) {
		return nil
	}

	// The granted role goes first so it becomes the primary role
	roles := append([]string{role}, member.Roles...)
	if err := s.SetRoles(ctx, member.ID, roles); err != nil {
		return err
	}

	s.logger.Info("role granted",
		slog.String("member_id", string(member.ID)),
		slog.String("role", role),
	)
	return nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions(ctx context.Context) (int, error) {
	sessions, err := s.storage.ListSessions(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	removed := 0
	for _, session := range sessions {
		if !session.Expired(now) {
			continue
		}
		if err := s.storage.DeleteSession(ctx, session.Token); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// CountActiveSessions returns the number of unexpired sessions
func (s *Service) CountActiveSessions(ctx context.Context) (int, error) {
	sessions, err := s.storage.ListSessions(ctx)
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	active := 0
	for _, session := range sessions {
		if !session.Expired(now) {
			active++
		}
	}
	return active, nil
}

// Remaining returns how long the session has left, never negative
func (s *Service) Remaining(session *model.Session) time.Duration {
	d := s.clock.Until(session.ExpiresAt)
	if d < 0 {
		return 0
	}
	return d
}

// createSession creates a new session for a member
func (s *Service) createSession(ctx context.Context, member *model.Member) (*model.Session, error) {
	now := s.clock.Now()

	session := &model.Session{
		Token:     generateToken(),
		MemberID:  member.ID,
		LoginID:   member.LoginID,
		Nickname:  member.Nickname,
		Roles:     append([]string(nil), member.Roles...),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// generateToken returns a random URL-safe session token
func generateToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
