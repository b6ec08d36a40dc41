// Package layout holds the page shell shared by every HTML page.
package layout

import "github.com/moonpull/moonpull-web/internal/model"

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // success, error, info
	Message string
}

// PageData is common to every page
type PageData struct {
	Title   string
	Profile *model.Profile // nil when signed out
	Flash   *FlashMessage
}

func isAdmin(profile *model.Profile) bool {
	return profile != nil && profile.Role == "ADMIN"
}
