package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xivapi/common-backend/internal/core/ports"
)

type MaintenanceHandler struct {
	service ports.MaintenanceService
}

func NewMaintenanceHandler(service ports.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

type maintenanceRequest struct {
	Game      int `json:"game" validate:"gte=0"`
	Lodestone int `json:"lodestone" validate:"gte=0"`
	Companion int `json:"companion" validate:"gte=0"`
}

type maintenanceResponse struct {
	Game      bool   `json:"game"`
	Lodestone bool   `json:"lodestone"`
	Companion bool   `json:"companion"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Get returns the maintenance flags.
//
// @Summary      Maintenance flags
// @Tags         maintenance
// @Produce      json
// @Success      200  {object}  maintenanceResponse
// @Router       /maintenance [get]
func (h *MaintenanceHandler) Get(c echo.Context) error {
	m, err := h.service.Current(c.Request().Context())
	if err != nil {
		return err
	}
	resp := maintenanceResponse{Game: m.IsGame(), Lodestone: m.IsLodestone(), Companion: m.IsCompanion()}
	if !m.UpdatedAt.IsZero() {
		resp.UpdatedAt = m.UpdatedAt.Format(timeFormat)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update replaces the maintenance flags. Admin only.
//
// @Summary      Update maintenance flags
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        body  body      maintenanceRequest  true  "Flags"
// @Success      200   {object}  maintenanceResponse
// @Failure      403   {object}  domain.ErrorReport
// @Router       /maintenance [put]
func (h *MaintenanceHandler) Update(c echo.Context) error {
	var req maintenanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	m, err := h.service.Update(c.Request().Context(), ports.MaintenanceInput{
		Game:      req.Game,
		Lodestone: req.Lodestone,
		Companion: req.Companion,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, maintenanceResponse{
		Game:      m.IsGame(),
		Lodestone: m.IsLodestone(),
		Companion: m.IsCompanion(),
		UpdatedAt: m.UpdatedAt.Format(timeFormat),
	})
}
