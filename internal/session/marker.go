package session

import (
	"net/http"
	"os"
	"strings"
)

// Marker reports whether a persisted credential exists. Its contents are
// never inspected here; validating them is the server's job.
type Marker interface {
	Present() bool
}

// MarkerFunc adapts a function to the Marker interface
type MarkerFunc func() bool

// Present calls f()
func (f MarkerFunc) Present() bool {
	return f()
}

// CookieMarker is present when the request carries a non-empty cookie
type CookieMarker struct {
	Request *http.Request
	Name    string
}

// Present implements Marker
func (m CookieMarker) Present() bool {
	if m.Request == nil {
		return false
	}
	cookie, err := m.Request.Cookie(m.Name)
	return err == nil && cookie.Value != ""
}

// FileMarker is present when the file exists and is not blank
type FileMarker struct {
	Path string
}

// Present implements Marker
func (m FileMarker) Present() bool {
	if m.Path == "" {
		return false
	}
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) != ""
}
