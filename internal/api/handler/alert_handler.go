package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xivapi/common-backend/internal/core/domain"
	"github.com/xivapi/common-backend/internal/core/ports"
)

// AlertHandler serves the alerts of the signed-in user.
type AlertHandler struct {
	alerts ports.AlertService
	auth   ports.AuthService
}

func NewAlertHandler(alerts ports.AlertService, auth ports.AuthService) *AlertHandler {
	return &AlertHandler{alerts: alerts, auth: auth}
}

type createAlertRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	ItemID int    `json:"item_id" validate:"gt=0"`
}

type alertListResponse struct {
	Alerts []*domain.Alert `json:"alerts"`
	Max    int             `json:"max"`
}

type refreshResponse struct {
	Refreshed int `json:"refreshed"`
}

// List returns the user's alerts with the quota.
//
// @Summary      List alerts
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  alertListResponse
// @Router       /account/alerts [get]
func (h *AlertHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	alerts, err := h.alerts.List(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alertListResponse{Alerts: alerts, Max: user.Alerts.Max})
}

// Create adds an alert within the user's quota.
//
// @Summary      Create alert
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        body  body      createAlertRequest  true  "Alert"
// @Success      201   {object}  domain.Alert
// @Failure      400   {object}  domain.ErrorReport
// @Failure      422   {object}  domain.ErrorReport
// @Router       /account/alerts [post]
func (h *AlertHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createAlertRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	alert, err := h.alerts.Create(c.Request().Context(), user, ports.AlertInput{Name: req.Name, ItemID: req.ItemID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, alert)
}

// Refresh extends every alert that expired more than an hour ago.
//
// @Summary      Refresh alert expiries
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  refreshResponse
// @Router       /account/alerts/refresh [post]
func (h *AlertHandler) Refresh(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	n, err := h.auth.RefreshAlertExpiries(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{Refreshed: n})
}
