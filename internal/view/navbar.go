package view

import (
	"context"

	"github.com/emailportal/portal-client/internal/core/domain"
)

// Link is a navigation entry.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Navbar shows the logged-in user or the login and register entry points.
type Navbar struct {
	User  *domain.User `json:"user,omitempty"`
	Links []Link       `json:"links"`
}

// NavbarFor builds the navbar for user, which may be nil.
func NavbarFor(user *domain.User) Navbar {
	if user == nil {
		return Navbar{Links: []Link{
			{Label: "Register", Href: "/register"},
			{Label: "Login", Href: "/login"},
		}}
	}
	return Navbar{User: user, Links: []Link{
		{Label: "Jobs", Href: "/joblist"},
		{Label: "My jobs", Href: "/myjobs"},
		{Label: "Import job", Href: "/extract"},
		{Label: "Sent mail", Href: "/mails"},
		{Label: "Settings", Href: "/settings"},
		{Label: "Logout", Href: "/logout"},
	}}
}

// HomeView is the landing page.
type HomeView struct {
	Navbar Navbar `json:"navbar"`
	// Start is where the call to action leads.
	Start string `json:"start"`
}

// Home renders the landing page for whoever is logged in, if anyone.
func (v *Views) Home(ctx context.Context) (Result, error) {
	user, err := v.portal.CurrentUser(ctx)
	if err != nil {
		return Result{}, err
	}
	start := "/login"
	if user != nil {
		start = "/joblist"
	}
	return render(HomeView{Navbar: NavbarFor(user), Start: start}), nil
}

// Me returns the session user. It fails with domain.ErrNoSession when
// nobody is logged in.
func (v *Views) Me(ctx context.Context) (Result, error) {
	user, err := v.portal.CurrentUser(ctx)
	if err != nil {
		return Result{}, err
	}
	if user == nil {
		return Result{}, domain.ErrNoSession
	}
	return render(NavbarFor(user)), nil
}

// ProfileView is the backend profile of the session user.
type ProfileView struct {
	Profile *domain.Profile `json:"profile"`
	Fields  map[string]any  `json:"fields"`
}

func (v *Views) Profile(ctx context.Context) (Result, error) {
	p, err := v.portal.GetProfile(ctx)
	if err != nil {
		return Result{}, err
	}
	return render(ProfileView{Profile: p, Fields: p.Raw}), nil
}
