package intake

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler provides the JSON endpoints for the intake flow.
type Handler struct {
	svc *Service
}

// NewHandler creates a new intake handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the intake routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/symptoms", h.ListSymptoms)
	api.POST("/intake", h.Submit)
}

func (h *Handler) ListSymptoms(c echo.Context) error {
	items, err := h.svc.Catalog(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load symptoms").SetInternal(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Submit(c echo.Context) error {
	var sub Submission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.svc.Submit(c.Request().Context(), sub)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record symptoms").SetInternal(err)
	}
	c.Set("patient_id", receipt.UserID)
	return c.JSON(http.StatusCreated, receipt)
}
