package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emailportal/portal-client/internal/core/validation"
	"github.com/emailportal/portal-client/internal/view"
)

// SettingsHandler serves prompt templates and SMTP configurations.
type SettingsHandler struct {
	views *view.Views
}

func NewSettingsHandler(views *view.Views) *SettingsHandler {
	return &SettingsHandler{views: views}
}

func (h *SettingsHandler) ListPrompts(c echo.Context) error {
	res, err := h.views.Prompts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SettingsHandler) CreatePrompt(c echo.Context) error {
	var form validation.PromptForm
	if err := bind(c, &form); err != nil {
		return err
	}
	res, err := h.views.CreatePrompt(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *SettingsHandler) UpdatePrompt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var form validation.PromptForm
	if err := bind(c, &form); err != nil {
		return err
	}
	res, err := h.views.UpdatePrompt(c.Request().Context(), id, form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SettingsHandler) DeletePrompt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.views.DeletePrompt(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SettingsHandler) ListSMTP(c echo.Context) error {
	res, err := h.views.SMTPConfigs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SettingsHandler) CreateSMTP(c echo.Context) error {
	form := validation.NewSMTPForm()
	if err := bind(c, &form); err != nil {
		return err
	}
	res, err := h.views.CreateSMTPConfig(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *SettingsHandler) UpdateSMTP(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var form validation.SMTPForm
	if err := bind(c, &form); err != nil {
		return err
	}
	res, err := h.views.UpdateSMTPConfig(c.Request().Context(), id, form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SettingsHandler) DeleteSMTP(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.views.DeleteSMTPConfig(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// TestSend handles POST /settings/smtp/test-send.
func (h *SettingsHandler) TestSend(c echo.Context) error {
	var form validation.TestSendForm
	if err := bind(c, &form); err != nil {
		return err
	}
	res, err := h.views.TestSend(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
