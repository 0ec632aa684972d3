package view

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/ports"
	"github.com/emailportal/portal-client/internal/core/validation"
)

var _ ports.PortalService = (*stubPortal)(nil)

func newViews(t *testing.T) (*Views, *stubPortal) {
	t.Helper()
	portal := newStubPortal()
	return New(portal, validation.New(), zerolog.Nop()), portal
}

func requireValidationError(t *testing.T, err error, field string) {
	t.Helper()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, field)
}

func TestHome_Anonymous(t *testing.T) {
	v, _ := newViews(t)

	res, err := v.Home(context.Background())
	require.NoError(t, err)
	home := res.View.(HomeView)
	assert.Nil(t, home.Navbar.User)
	assert.Equal(t, "/login", home.Start)
	assert.Equal(t, []Link{{Label: "Register", Href: "/register"}, {Label: "Login", Href: "/login"}}, home.Navbar.Links)
}

func TestHome_LoggedIn(t *testing.T) {
	v, portal := newViews(t)
	portal.user = &domain.User{ID: "1", Username: "alice"}

	res, err := v.Home(context.Background())
	require.NoError(t, err)
	home := res.View.(HomeView)
	assert.Equal(t, "alice", home.Navbar.User.Username)
	assert.Equal(t, "/joblist", home.Start)
	assert.Contains(t, home.Navbar.Links, Link{Label: "Logout", Href: "/logout"})
}

func TestMe_WithoutSession(t *testing.T) {
	v, _ := newViews(t)

	_, err := v.Me(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestRegister_SendsResume(t *testing.T) {
	v, portal := newViews(t)

	res, err := v.Register(context.Background(),
		validation.RegisterForm{Username: "alice", Email: "alice@example.com", Password: "pw"},
		&Resume{Filename: "cv.pdf", Content: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, "/login", res.Redirect)
	require.Len(t, portal.registered, 1)
	assert.Equal(t, "cv.pdf", portal.registered[0].ResumeFilename)
	assert.Equal(t, []byte("%PDF"), portal.registered[0].Resume)
}

func TestRegister_InvalidEmailIsNotSent(t *testing.T) {
	v, portal := newViews(t)

	_, err := v.Register(context.Background(),
		validation.RegisterForm{Username: "alice", Email: "alice", Password: "pw"}, nil)
	requireValidationError(t, err, "email")
	assert.False(t, portal.called("Register"))
}

func TestLogin_RedirectsToJobList(t *testing.T) {
	v, portal := newViews(t)

	res, err := v.Login(context.Background(), validation.LoginForm{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "/joblist", res.Redirect)
	assert.Equal(t, LevelSuccess, res.Notice.Level)
	assert.True(t, portal.called("Login"))
	assert.Equal(t, "alice", res.View.(Navbar).User.Username)
}

func TestLogin_FailureHasNoRedirect(t *testing.T) {
	v, portal := newViews(t)
	portal.loginErr = &domain.HTTPError{Operation: "login", Status: 401, Message: "No active account"}

	res, err := v.Login(context.Background(), validation.LoginForm{Username: "alice", Password: "bad"})
	require.Error(t, err)
	assert.Empty(t, res.Redirect)
}

func TestLogin_BlankFieldsAreNotSent(t *testing.T) {
	v, portal := newViews(t)

	_, err := v.Login(context.Background(), validation.LoginForm{Username: " ", Password: ""})
	requireValidationError(t, err, "username")
	assert.False(t, portal.called("Login"))
}

func TestLogout_ClearsFormsAndRedirectsHome(t *testing.T) {
	v, portal := newViews(t)
	portal.user = &domain.User{ID: "1"}
	v.Forms().Sync(42, domain.JobApplication{ID: 9, Subject: "s"}, zeroTime)

	res, err := v.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/", res.Redirect)
	_, ok := v.Forms().Get(42)
	assert.False(t, ok)
}
