package diagnosis

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler provides the JSON endpoint for diagnosis lookups.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the diagnosis routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/diagnoses", h.GetDiagnoses)
}

func (h *Handler) GetDiagnoses(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	results, err := h.svc.ForPatient(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrInvalidPatientID) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load diagnosis").SetInternal(err)
	}
	return c.JSON(http.StatusOK, Report{UserID: userID, Diagnoses: results})
}
