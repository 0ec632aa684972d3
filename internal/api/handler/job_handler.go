package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emailportal/portal-client/internal/core/validation"
	"github.com/emailportal/portal-client/internal/view"
)

// JobHandler serves the job board, the job form, applied jobs and imports.
type JobHandler struct {
	views *view.Views
}

func NewJobHandler(views *view.Views) *JobHandler {
	return &JobHandler{views: views}
}

type jobListQuery struct {
	Location string `query:"location"`
	Selected int64  `query:"selected" validate:"gte=0"`
}

// List handles GET /joblist?location=&selected=.
func (h *JobHandler) List(c echo.Context) error {
	var q jobListQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	res, err := h.views.JobList(c.Request().Context(), q.Location, q.Selected)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Create handles POST /jobform.
func (h *JobHandler) Create(c echo.Context) error {
	var form validation.JobForm
	if err := bind(c, &form); err != nil {
		return err
	}
	res, err := h.views.CreateJob(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

// Apply handles POST /joblist/:id/apply. The draft is generated in the
// background; the response only carries the editor route.
func (h *JobHandler) Apply(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, h.views.Apply(id))
}

// Applied handles GET /myjobs.
func (h *JobHandler) Applied(c echo.Context) error {
	res, err := h.views.AppliedJobs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Extract handles POST /extract.
func (h *JobHandler) Extract(c echo.Context) error {
	var form validation.ExtractForm
	if err := bind(c, &form); err != nil {
		return err
	}
	res, err := h.views.Extract(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, res)
}
