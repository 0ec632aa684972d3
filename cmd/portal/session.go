package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/validation"
)

// identity is the printable form of the session user.
type identity struct {
	UserID    string    `yaml:"user_id"`
	Username  string    `yaml:"username,omitempty"`
	Email     string    `yaml:"email,omitempty"`
	ExpiresAt time.Time `yaml:"expires_at,omitempty"`
	Expired   bool      `yaml:"expired"`
}

func identityOf(u *domain.User, now time.Time) identity {
	return identity{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		ExpiresAt: u.ExpiresAt,
		Expired:   !u.ExpiresAt.IsZero() && now.After(u.ExpiresAt),
	}
}

type loginReport struct {
	Message  string   `yaml:"message"`
	User     identity `yaml:"user"`
	Redirect string   `yaml:"next,omitempty"`
}

func runLogin(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "account password (default $PORTAL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("PORTAL_PASSWORD")
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	res, err := a.views.Login(ctx, validation.LoginForm{Username: *username, Password: *password})
	if err != nil {
		return err
	}
	user, err := a.portal.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNoSession
	}
	return printYAML(out, loginReport{
		Message:  res.Notice.Message,
		User:     identityOf(user, time.Now()),
		Redirect: res.Redirect,
	})
}

func runLogout(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	res, err := a.views.Logout(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, res.Notice.Message)
	return err
}

func runWhoami(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	user, err := a.portal.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNoSession
	}
	return printYAML(out, identityOf(user, time.Now()))
}

func printYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
