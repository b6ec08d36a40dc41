// Package prompt models the "login required" confirmation shown when a
// signed-out user reaches a protected view.
package prompt

import (
	"net/url"
	"strings"
	"sync"
	"unicode"
)

// Navigation targets
const (
	HomePath  = "/"
	LoginPath = "/auth/login"

	// RedirectParam carries the originally requested path to the login page
	RedirectParam = "redirect"
)

// Navigator moves the user to another location
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(target string)

// Navigate calls f(target)
func (f NavigatorFunc) Navigate(target string) {
	f(target)
}

// Prompt is an open/closed confirmation with two outcomes
type Prompt struct {
	requestedPath string
	nav           Navigator

	mu   sync.Mutex
	open bool
}

// New opens a prompt for a request to requestedPath
func New(requestedPath string, nav Navigator) *Prompt {
	return &Prompt{
		requestedPath: requestedPath,
		nav:           nav,
		open:          true,
	}
}

// Open reports whether the prompt is still shown
func (p *Prompt) Open() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// RequestedPath returns the path the user was trying to reach
func (p *Prompt) RequestedPath() string {
	return p.requestedPath
}

// DismissTarget is where Dismiss navigates
func (p *Prompt) DismissTarget() string {
	return HomePath
}

// ProceedTarget is where Proceed navigates
func (p *Prompt) ProceedTarget() string {
	return LoginTarget(p.requestedPath)
}

// Dismiss closes the prompt and sends the user home
func (p *Prompt) Dismiss() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()

	p.nav.Navigate(p.DismissTarget())
}

// Close hides the prompt without navigating, for when the session becomes
// authenticated while it is shown
func (p *Prompt) Close() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
}

// Proceed sends the user to the login page, remembering where they were going
func (p *Prompt) Proceed() {
	p.nav.Navigate(p.ProceedTarget())
}

// ClickOutside handles a click on the backdrop; it dismisses the prompt
func (p *Prompt) ClickOutside() {
	p.Dismiss()
}

// ClickInside handles a click on the prompt surface. It is contained and
// never reaches the dismiss handler.
func (p *Prompt) ClickInside() {}

// LoginTarget builds the login URL carrying path as the redirect parameter.
// Slashes are kept readable; characters that would break the query are escaped.
func LoginTarget(path string) string {
	if path == "" {
		return LoginPath
	}
	return LoginPath + "?" + RedirectParam + "=" + escapeRedirect(path)
}

var queryBreakers = strings.NewReplacer(
	"&", "%26",
	"+", "%2B",
	"=", "%3D",
)

func escapeRedirect(path string) string {
	// EscapedPath handles spaces, '?', '#' and non-ASCII but leaves '/'
	escaped := (&url.URL{Path: path}).EscapedPath()
	return queryBreakers.Replace(escaped)
}

// SafeRedirect returns target if it is a local absolute path, else HomePath.
// Protocol-relative ("//host"), backslash and control-character forms are
// rejected.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") {
		return HomePath
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return HomePath
	}
	// Browsers drop tabs and line breaks, so "/\t/host" would become "//host"
	if strings.ContainsFunc(target, unicode.IsControl) {
		return HomePath
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return HomePath
	}
	return target
}
