package storage

import (
	"context"

	"github.com/moonpull/moonpull-web/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Member operations
	SaveMember(ctx context.Context, member *model.Member) error
	GetMember(ctx context.Context, id model.MemberID) (*model.Member, error)
	DeleteMember(ctx context.Context, id model.MemberID) error

	// Credential operations
	SaveCredential(ctx context.Context, cred *model.Credential) error
	GetCredential(ctx context.Context, memberID model.MemberID) (*model.Credential, error)
	GetCredentialByLoginID(ctx context.Context, loginID string) (*model.Credential, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	ListSessions(ctx context.Context) ([]*model.Session, error)
}
