package triage

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthconnect/telemed/internal/platform/validation"
)

var assessmentSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["category", "symptoms", "severity", "duration"],
	"properties": {
		"category": {"type": "string", "minLength": 1},
		"symptoms": {"type": "array", "items": {"type": "string"}},
		"severity": {"type": "string"},
		"duration": {"type": "string"},
		"notes": {"type": "string", "maxLength": 2000}
	}
}`)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/triage/categories", h.ListCategories)
	g.POST("/triage/assessments", h.Assess)
}

func (h *Handler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"categories": h.svc.Categories()})
}

func (h *Handler) Assess(c echo.Context) error {
	var in Input
	if err := validation.Bind(c, assessmentSchema, &in); err != nil {
		return err
	}
	res, err := h.svc.Assess(in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
