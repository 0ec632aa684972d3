package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emailportal/portal-client/internal/core/validation"
	"github.com/emailportal/portal-client/internal/view"
)

// ApplicationHandler serves the application editor of a job. Every route is
// keyed by the job id.
type ApplicationHandler struct {
	views *view.Views
}

func NewApplicationHandler(views *view.Views) *ApplicationHandler {
	return &ApplicationHandler{views: views}
}

// Show handles GET /jobapplication/:id.
func (h *ApplicationHandler) Show(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.views.Application(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateForm handles PATCH /jobapplication/:id/form. Only the working form
// changes; nothing is sent to the backend.
func (h *ApplicationHandler) UpdateForm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var patch view.FormPatch
	if err := bind(c, &patch); err != nil {
		return err
	}
	res, err := h.views.UpdateForm(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Save handles PUT /jobapplication/:id.
func (h *ApplicationHandler) Save(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var form validation.DraftForm
	if err := bind(c, &form); err != nil {
		return err
	}
	res, err := h.views.SaveApplication(c.Request().Context(), id, form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Regenerate handles POST /jobapplication/:id/regenerate.
func (h *ApplicationHandler) Regenerate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.views.Regenerate(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Send handles POST /jobapplication/:id/send. An empty body sends to the
// receiver of the working form.
func (h *ApplicationHandler) Send(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var form validation.SendForm
	if err := bind(c, &form); err != nil {
		return err
	}
	res, err := h.views.Send(c.Request().Context(), id, form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
