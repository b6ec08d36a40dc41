package model

import "time"

// MemberID uniquely identifies a member across the system
type MemberID string

// Role names as issued by the platform
const (
	RoleMentee = "ROLE_MENTEE"
	RoleMentor = "ROLE_MENTOR"
	RoleAdmin  = "ROLE_ADMIN"
)

// Member is a registered user of the platform
type Member struct {
	ID        MemberID
	LoginID   string
	Nickname  string
	Roles     []string
	CreatedAt time.Time
}

// Credential holds the login secret for a member
// Stored separately so sessions never carry the password hash
type Credential struct {
	MemberID     MemberID
	LoginID      string // immutable
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is the server-side record behind a session cookie
type Session struct {
	Token     string
	MemberID  MemberID
	LoginID   string
	Nickname  string
	Roles     []string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Profile returns the client-facing profile for the session
func (s *Session) Profile() Profile {
	return ProfileFromUser(s.LoginID, s.Nickname, s.Roles)
}
