package consultation

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthconnect/telemed/internal/platform/validation"
)

var startSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["appointment_id", "patient_id"],
	"properties": {
		"appointment_id": {"type": "string", "minLength": 1},
		"patient_id": {"type": "string", "minLength": 1}
	}
}`)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/consultations", h.Start)
	g.GET("/consultations/:id", h.Get)
	g.POST("/consultations/:id/end", h.End)
}

type startRequest struct {
	AppointmentID string `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
}

func (h *Handler) Start(c echo.Context) error {
	var req startRequest
	if err := validation.Bind(c, startSchema, &req); err != nil {
		return err
	}
	sess, err := h.svc.Start(c.Request().Context(), req.AppointmentID, req.PatientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) Get(c echo.Context) error {
	sess, err := h.svc.Get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) End(c echo.Context) error {
	summary, err := h.svc.End(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
