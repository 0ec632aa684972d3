package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/emailportal/portal-client/internal/core/validation"
	"github.com/emailportal/portal-client/internal/view"
)

// MaxResumeBytes bounds the resume attached to a registration.
const MaxResumeBytes = 5 << 20

type AuthHandler struct {
	views *view.Views
}

func NewAuthHandler(views *view.Views) *AuthHandler {
	return &AuthHandler{views: views}
}

// Home handles GET /.
func (h *AuthHandler) Home(c echo.Context) error {
	res, err := h.views.Home(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Register handles POST /register. It accepts JSON or a multipart form with
// an optional "resume" file.
func (h *AuthHandler) Register(c echo.Context) error {
	var form validation.RegisterForm
	if err := bind(c, &form); err != nil {
		return err
	}
	resume, err := readResume(c)
	if err != nil {
		return err
	}

	res, err := h.views.Register(c.Request().Context(), form, resume)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func readResume(c echo.Context) (*view.Resume, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid resume upload")
	}
	if fh.Size > MaxResumeBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "resume is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid resume upload")
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, MaxResumeBytes))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid resume upload")
	}
	return &view.Resume{Filename: fh.Filename, Content: content}, nil
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var form validation.LoginForm
	if err := bind(c, &form); err != nil {
		return err
	}
	res, err := h.views.Login(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	res, err := h.views.Logout(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Me handles GET /me.
func (h *AuthHandler) Me(c echo.Context) error {
	res, err := h.views.Me(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Profile handles GET /profile.
func (h *AuthHandler) Profile(c echo.Context) error {
	res, err := h.views.Profile(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
