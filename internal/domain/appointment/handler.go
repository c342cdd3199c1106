package appointment

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/healthconnect/telemed/internal/platform/apperror"
	"github.com/healthconnect/telemed/internal/platform/validation"
	"github.com/healthconnect/telemed/pkg/pagination"
)

var bookingSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["patient_id", "provider", "region", "sub_region", "date", "time", "consultation_type"],
	"properties": {
		"patient_id": {"type": "string", "minLength": 1},
		"provider": {
			"type": "object",
			"required": ["id", "name"],
			"properties": {
				"id": {"type": "integer", "minimum": 1},
				"name": {"type": "string", "minLength": 1},
				"specialty": {"type": "string"},
				"fee": {"type": "integer", "minimum": 0}
			}
		},
		"region": {"type": "string", "minLength": 1},
		"sub_region": {"type": "string", "minLength": 1},
		"date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
		"time": {"type": "string"},
		"consultation_type": {"type": "string", "enum": ["video", "audio"]},
		"symptoms": {"type": "string", "maxLength": 2000}
	}
}`)

var cancelSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["patient_id"],
	"properties": {
		"patient_id": {"type": "string", "minLength": 1},
		"reason": {"type": "string", "maxLength": 500}
	}
}`)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/appointments", h.Book)
	g.GET("/appointments", h.List)
	g.GET("/appointments/slots", h.Slots)
	g.GET("/appointments/:id", h.Get)
	g.POST("/appointments/:id/cancel", h.Cancel)
}

func (h *Handler) Book(c echo.Context) error {
	var req BookingRequest
	if err := validation.Bind(c, bookingSchema, &req); err != nil {
		return err
	}
	a, err := h.svc.Book(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), c.QueryParam("patient_id"), Status(c.QueryParam("status")), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Get(c echo.Context) error {
	patientID := c.QueryParam("patient_id")
	if patientID == "" {
		return ErrMissingPatientID
	}
	a, err := h.svc.Get(c.Request().Context(), c.Param("id"), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

type cancelRequest struct {
	PatientID string `json:"patient_id"`
	Reason    string `json:"reason"`
}

func (h *Handler) Cancel(c echo.Context) error {
	var req cancelRequest
	if err := validation.Bind(c, cancelSchema, &req); err != nil {
		return err
	}
	a, err := h.svc.Cancel(c.Request().Context(), c.Param("id"), req.PatientID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Slots handles GET /appointments/slots.
func (h *Handler) Slots(c echo.Context) error {
	providerID, err := strconv.Atoi(c.QueryParam("provider_id"))
	if err != nil || providerID <= 0 {
		return apperror.InvalidArgument(apperror.CodeInvalidArgument, "provider_id must be a positive integer")
	}
	p := ProviderSnapshot{ID: providerID, Name: c.QueryParam("provider_name")}
	if p.Name == "" {
		return ErrMissingProvider
	}
	region, subRegion := c.QueryParam("region"), c.QueryParam("sub_region")
	if region == "" || subRegion == "" {
		return ErrMissingLocation
	}
	slots, err := h.svc.Availability(c.Request().Context(), p, region, subRegion, c.QueryParam("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"date": c.QueryParam("date"), "slots": slots})
}
