package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emailportal/portal-client/internal/view"
)

type MailHandler struct {
	views *view.Views
}

func NewMailHandler(views *view.Views) *MailHandler {
	return &MailHandler{views: views}
}

type mailQuery struct {
	Query    string `query:"q"`
	Selected int64  `query:"selected" validate:"gte=0"`
}

// List handles GET /mails?q=&selected=.
func (h *MailHandler) List(c echo.Context) error {
	var q mailQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	res, err := h.views.Mails(c.Request().Context(), q.Query, q.Selected)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
