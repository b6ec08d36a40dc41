package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moonpull/moonpull-web/internal/dependencies/mocks"
	"github.com/moonpull/moonpull-web/internal/prompt"
)

func TestNewPromptIsOpen(t *testing.T) {
	p := prompt.New("/dashboard", &mocks.Navigator{})
	assert.True(t, p.Open())
	assert.Equal(t, "/dashboard", p.RequestedPath())
}

func TestDismissClosesAndNavigatesHome(t *testing.T) {
	rec := &mocks.Navigator{}
	p := prompt.New("/dashboard", rec)

	p.Dismiss()

	assert.False(t, p.Open())
	assert.Equal(t, []string{"/"}, rec.Targets())
}

func TestProceedNavigatesToLoginWithRedirect(t *testing.T) {
	rec := &mocks.Navigator{}
	p := prompt.New("/dashboard", rec)

	p.Proceed()

	assert.Equal(t, "/auth/login?redirect=/dashboard", rec.Last())
}

func TestClickOutsideDismisses(t *testing.T) {
	rec := &mocks.Navigator{}
	p := prompt.New("/mypage", rec)

	p.ClickOutside()

	assert.False(t, p.Open())
	assert.Equal(t, "/", rec.Last())
}

func TestClickInsideIsContained(t *testing.T) {
	rec := &mocks.Navigator{}
	p := prompt.New("/mypage", rec)

	p.ClickInside()

	assert.True(t, p.Open())
	assert.Empty(t, rec.Targets())
}

func TestCloseDoesNotNavigate(t *testing.T) {
	rec := &mocks.Navigator{}
	p := prompt.New("/dashboard", rec)

	p.Close()

	assert.False(t, p.Open())
	assert.Empty(t, rec.Targets())
}

func TestNavigatorFunc(t *testing.T) {
	var got string
	p := prompt.New("/admin", prompt.NavigatorFunc(func(target string) { got = target }))

	p.Proceed()

	assert.Equal(t, "/auth/login?redirect=/admin", got)
}

func TestLoginTarget(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/dashboard", "/auth/login?redirect=/dashboard"},
		{"/mentor/12/reviews", "/auth/login?redirect=/mentor/12/reviews"},
		{"/search a", "/auth/login?redirect=/search%20a"},
		{"/a&b=c", "/auth/login?redirect=/a%26b%3Dc"},
		{"/c++", "/auth/login?redirect=/c%2B%2B"},
		{"/x?y", "/auth/login?redirect=/x%3Fy"},
		{"", "/auth/login"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, prompt.LoginTarget(tt.path))
		})
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/dashboard", "/dashboard"},
		{"/mypage?tab=1", "/mypage?tab=1"},
		{"", "/"},
		{"https://evil.example", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
		{"dashboard", "/"},
		{"/\t/evil.example", "/"},
		{"/\n/evil.example", "/"},
		{"/\r/evil.example", "/"},
		{"/dash\x00board", "/"},
		{"/%09/evil.example", "/%09/evil.example"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, prompt.SafeRedirect(tt.target))
		})
	}
}
