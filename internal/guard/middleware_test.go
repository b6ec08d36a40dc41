package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonpull/moonpull-web/internal/dependencies/mocks"
	"github.com/moonpull/moonpull-web/internal/prompt"
	"github.com/moonpull/moonpull-web/internal/session"
)

const dashboardBody = "<Dashboard/>"

// guardedDashboard wires Protect around a dashboard handler. Denied
// requests open a prompt and record it so tests can drive its actions.
type guardedDashboard struct {
	handler http.Handler
	nav     *mocks.Navigator
	prompts []*prompt.Prompt
}

func newGuardedDashboard() *guardedDashboard {
	g := &guardedDashboard{nav: &mocks.Navigator{}}
	denied := func(w http.ResponseWriter, r *http.Request, requestedPath string) {
		g.prompts = append(g.prompts, prompt.New(requestedPath, g.nav))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("login required"))
	}
	dashboard := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dashboardBody))
	})
	g.handler = Protect(denied)(dashboard)
	return g
}

func (g *guardedDashboard) serve(holder *session.Holder) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if holder != nil {
		req = req.WithContext(WithHolder(req.Context(), holder))
	}
	rr := httptest.NewRecorder()
	g.handler.ServeHTTP(rr, req)
	return rr
}

func TestProtectScenarioSignedOut(t *testing.T) {
	g := newGuardedDashboard()
	holder := session.NewHolder(nil, nil)

	// Before bootstrap nothing is rendered
	rr := g.serve(holder)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Empty(t, g.prompts)

	// After bootstrap without a credential the prompt is shown instead
	holder.Bootstrap(marker(false))
	rr = g.serve(holder)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotContains(t, rr.Body.String(), dashboardBody)
	require.Len(t, g.prompts, 1)
	assert.True(t, g.prompts[0].Open())

	// Proceeding goes to login with the original path
	g.prompts[0].Proceed()
	assert.Equal(t, "/auth/login?redirect=/dashboard", g.nav.Last())
}

func TestProtectScenarioSignedIn(t *testing.T) {
	g := newGuardedDashboard()
	holder := session.NewHolder(nil, nil)
	holder.Bootstrap(marker(true))

	rr := g.serve(holder)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, dashboardBody, rr.Body.String())
	assert.Empty(t, g.prompts)
}

func TestProtectWithoutHolderRendersNothing(t *testing.T) {
	g := newGuardedDashboard()

	rr := g.serve(nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestProtectReevaluatesPerRequest(t *testing.T) {
	g := newGuardedDashboard()
	holder := session.NewHolder(nil, nil)
	holder.Bootstrap(marker(false))

	assert.Equal(t, http.StatusUnauthorized, g.serve(holder).Code)

	holder.Login("alice", "mentor")
	assert.Equal(t, http.StatusOK, g.serve(holder).Code)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole("ROLE_ADMIN")(ok)

	serve := func(holder *session.Holder) int {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if holder != nil {
			req = req.WithContext(WithHolder(req.Context(), holder))
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	admin := session.NewHolder(nil, nil)
	admin.Login("root", "ADMIN")
	assert.Equal(t, http.StatusOK, serve(admin))

	mentor := session.NewHolder(nil, nil)
	mentor.Login("alice", "MENTOR")
	assert.Equal(t, http.StatusForbidden, serve(mentor))

	markerOnly := session.NewHolder(nil, nil)
	markerOnly.Bootstrap(marker(true))
	assert.Equal(t, http.StatusForbidden, serve(markerOnly))

	assert.Equal(t, http.StatusForbidden, serve(nil))
}

func TestHolderFromEmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, HolderFrom(req.Context()))
}
