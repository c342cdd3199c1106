package pharmacy

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	inv *Inventory
}

func NewHandler(inv *Inventory) *Handler {
	return &Handler{inv: inv}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/pharmacies", h.Search)
}

func (h *Handler) Search(c echo.Context) error {
	results := h.inv.Search(c.QueryParam("q"))
	return c.JSON(http.StatusOK, map[string]any{
		"query":      c.QueryParam("q"),
		"pharmacies": results,
		"total":      len(results),
	})
}
