package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonpull/moonpull-web/internal/services/auth"
)

func TestLoginPageCarriesRedirect(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/auth/login?redirect=/dashboard")

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	value, ok := doc.Find("#login-form input[name='redirect']").Attr("value")
	require.True(t, ok)
	assert.Equal(t, "/dashboard", value)
}

func TestPromptToLoginRoundTrip(t *testing.T) {
	ts := newWebTestServer(t)
	ts.app.MustJoin("alice01", "password123", "Alice")

	// Gated page points at the login page
	doc := parseHTML(ts.get("/dashboard").Body)
	proceed, _ := doc.Find("[data-action='proceed']").Attr("href")

	// Login page keeps the destination in the form
	doc = parseHTML(ts.get(proceed).Body)
	redirect, _ := doc.Find("#login-form input[name='redirect']").Attr("value")

	rr := ts.post("/auth/login", url.Values{
		"loginId":  {"alice01"},
		"password": {"password123"},
		"redirect": {redirect},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
	assert.True(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	assert.Equal(t, http.StatusOK, rr.Code)
	doc = parseHTML(rr.Body)
	assertContainsElement(t, doc, "#dashboard")
	assertContainsText(t, doc, ".flash", "Welcome back, Alice!")
}

func TestLoginRejectsOffsiteRedirect(t *testing.T) {
	ts := newWebTestServer(t)
	ts.app.MustJoin("alice01", "password123", "Alice")

	targets := []string{
		"//evil.example",
		"https://evil.example",
		"/\\evil.example",
		"/\t/evil.example",
		"/\r/evil.example",
		"/\n/evil.example",
	}
	for _, target := range targets {
		ts.cookies = newCookieJar()
		rr := ts.post("/auth/login", url.Values{
			"loginId":  {"alice01"},
			"password": {"password123"},
			"redirect": {target},
		})
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"), target)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newWebTestServer(t)
	ts.app.MustJoin("alice01", "password123", "Alice")

	rr := ts.post("/auth/login", url.Values{
		"loginId":  {"alice01"},
		"password": {"wrong"},
		"redirect": {"/mypage"},
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, ts.cookies.hasSession())

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".form-error", "Invalid login ID or password")
	loginID, _ := doc.Find("input[name='loginId']").Attr("value")
	assert.Equal(t, "alice01", loginID)
	redirect, _ := doc.Find("input[name='redirect']").Attr("value")
	assert.Equal(t, "/mypage", redirect)
}

func TestLoginPageRedirectsWhenSignedIn(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signIn("alice01", "Alice")

	rr := ts.get("/auth/login?redirect=/mypage")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/mypage", rr.Header().Get("Location"))
}

func TestJoin(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/auth/join", url.Values{
		"loginId":          {"alice01"},
		"nickname":         {"Alice"},
		"password":         {"password123"},
		"password_confirm": {"password123"},
	})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.True(t, ts.cookies.hasSession())

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, "nav .nav-user", "Alice")
	assertContainsText(t, doc, "nav .nav-role", "MENTEE")
	assertContainsElement(t, doc, "form[action='/auth/logout']")
}

func TestJoinValidation(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/auth/join", url.Values{
		"loginId":          {"al"},
		"nickname":         {""},
		"password":         {"short"},
		"password_confirm": {"different"},
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	doc := parseHTML(rr.Body)
	for _, field := range []string{"loginId", "nickname", "password", "password_confirm"} {
		assertContainsElement(t, doc, ".field-error[data-field='"+field+"']")
	}
	assert.False(t, ts.cookies.hasSession())
}

func TestJoinDuplicateLoginID(t *testing.T) {
	ts := newWebTestServer(t)
	ts.app.MustJoin("alice01", "password123", "Alice")

	rr := ts.post("/auth/join", url.Values{
		"loginId":          {"alice01"},
		"nickname":         {"Other"},
		"password":         {"password123"},
		"password_confirm": {"password123"},
	})

	assert.Equal(t, http.StatusConflict, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), ".field-error[data-field='loginId']", "already taken")
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.signIn("alice01", "Alice")

	rr := ts.post("/auth/logout", url.Values{})

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())

	// The server-side session is gone too
	_, err := ts.app.AuthService.ValidateSession(t.Context(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash", "You have been logged out")
	assertContainsElement(t, doc, "nav .nav-login")
}

func TestLogoutReusedCookieIsRejected(t *testing.T) {
	ts := newWebTestServer(t)
	token := ts.signIn("alice01", "Alice")

	ts.post("/auth/logout", url.Values{})

	// A copy of the old cookie no longer grants access
	ts.cookies.setSession(token)
	rr := ts.get("/dashboard")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutWhenSignedOut(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/auth/logout", url.Values{})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}
