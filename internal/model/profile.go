package model

import "strings"

// Profile is the identity shown to a signed-in user
type Profile struct {
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// ProfileFromUser maps server user fields to a Profile.
// The nickname falls back to the login id when blank, and the role is the
// first granted role with any "ROLE_" prefix removed.
func ProfileFromUser(loginID, nickname string, roles []string) Profile {
	name := strings.TrimSpace(nickname)
	if name == "" {
		name = strings.TrimSpace(loginID)
	}
	return Profile{
		Nickname: name,
		Role:     PrimaryRole(roles),
	}
}

// PrimaryRole returns the first role without its "ROLE_" prefix.
// A single entry holding a comma-separated list is split first.
func PrimaryRole(roles []string) string {
	if len(roles) == 0 {
		return ""
	}
	role := strings.TrimSpace(strings.Split(roles[0], ",")[0])
	return strings.TrimPrefix(role, "ROLE_")
}

// HasRole reports whether roles contains role, ignoring the "ROLE_" prefix
func HasRole(roles []string, role string) bool {
	want := strings.TrimPrefix(role, "ROLE_")
	for _, r := range roles {
		if strings.TrimPrefix(strings.TrimSpace(r), "ROLE_") == want {
			return true
		}
	}
	return false
}
