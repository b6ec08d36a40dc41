// Package pages holds the full HTML pages served by the web router.
package pages

import (
	"time"

	"github.com/moonpull/moonpull-web/internal/prompt"
	"github.com/moonpull/moonpull-web/internal/web/templates/layout"
)

// HomeData is the data for the home page
type HomeData struct {
	layout.PageData
}

// LoginData is the data for the login page
type LoginData struct {
	layout.PageData
	LoginID  string
	Error    string
	Redirect string // where to go after a successful login
}

// JoinData is the data for the sign-up page
type JoinData struct {
	layout.PageData
	LoginID     string
	Nickname    string
	Error       string
	FieldErrors map[string]string
}

// GatedData is the data for a protected page viewed while signed out
type GatedData struct {
	layout.PageData
	Prompt *prompt.Prompt
}

// DashboardData is the data for the member dashboard
type DashboardData struct {
	layout.PageData
}

// MyPageData is the data for the member's own profile page
type MyPageData struct {
	layout.PageData
	LoginID   string
	MemberID  string
	ExpiresIn time.Duration
}

// AdminData is the data for the admin dashboard
type AdminData struct {
	layout.PageData
	ActiveSessions int
}

type formField struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

func joinFields(data JoinData) []formField {
	fields := []formField{
		{Name: "loginId", Label: "Login ID", Type: "text", Value: data.LoginID},
		{Name: "nickname", Label: "Nickname", Type: "text", Value: data.Nickname},
		{Name: "password", Label: "Password", Type: "password"},
		{Name: "password_confirm", Label: "Confirm password", Type: "password"},
	}
	for i := range fields {
		fields[i].Error = data.FieldErrors[fields[i].Name]
	}
	return fields
}

func expiresIn(d time.Duration) string {
	return d.Round(time.Minute).String()
}
