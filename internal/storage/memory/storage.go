package memory

import (
	"context"
	"sync"

	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	members      map[model.MemberID]*model.Member
	credentials  map[model.MemberID]*model.Credential
	loginIDIndex map[string]model.MemberID
	sessions     map[string]*model.Session
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		members:      make(map[model.MemberID]*model.Member),
		credentials:  make(map[model.MemberID]*model.Credential),
		loginIDIndex: make(map[string]model.MemberID),
		sessions:     make(map[string]*model.Session),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Member operations

func (s *Storage) SaveMember(ctx context.Context, member *model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.ID] = member
	return nil
}

func (s *Storage) GetMember(ctx context.Context, id model.MemberID) (*model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.members[id]
	if !ok {
		return nil, model.ErrMemberNotFound
	}
	return member, nil
}

func (s *Storage) DeleteMember(ctx context.Context, id model.MemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, id)
	return nil
}

// Credential operations

func (s *Storage) SaveCredential(ctx context.Context, cred *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[cred.MemberID] = cred
	s.loginIDIndex[cred.LoginID] = cred.MemberID
	return nil
}

func (s *Storage) GetCredential(ctx context.Context, memberID model.MemberID) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[memberID]
	if !ok {
		return nil, model.ErrMemberNotFound
	}
	return cred, nil
}

func (s *Storage) GetCredentialByLoginID(ctx context.Context, loginID string) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memberID, ok := s.loginIDIndex[loginID]
	if !ok {
		return nil, model.ErrMemberNotFound
	}
	cred, ok := s.credentials[memberID]
	if !ok {
		return nil, model.ErrMemberNotFound
	}
	return cred, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]*model.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	return sessions, nil
}
