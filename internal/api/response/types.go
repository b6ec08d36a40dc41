package response

import (
	"github.com/moonpull/moonpull-web/internal/model"
)

// Me describes the caller. Only Authenticated is set for anonymous callers.
type Me struct {
	Authenticated bool     `json:"authenticated"`
	LoginID       string   `json:"loginId,omitempty"`
	UserID        string   `json:"userId,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	Nickname      string   `json:"nickname,omitempty"`
}

// Anonymous is the Me of a caller without a valid session
var Anonymous = Me{Authenticated: false}

// MeFromSession converts a model.Session to a response Me
func MeFromSession(s *model.Session) Me {
	return Me{
		Authenticated: true,
		LoginID:       s.LoginID,
		UserID:        string(s.MemberID),
		Roles:         append([]string(nil), s.Roles...),
		Nickname:      s.Nickname,
	}
}

// Profile returns the client-facing profile for an authenticated Me
func (m Me) Profile() model.Profile {
	return model.ProfileFromUser(m.LoginID, m.Nickname, m.Roles)
}

// Health is the body of GET /api/health
type Health struct {
	Status string `json:"status"`
}
