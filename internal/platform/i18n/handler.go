package i18n

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/i18n", h.Languages)
	g.GET("/i18n/:lang", h.Table)
}

// Languages lists the supported languages and the one negotiated from the
// request's Accept-Language header.
func (h *Handler) Languages(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"languages": h.catalog.Languages(),
		"default":   h.catalog.DefaultLanguage(),
		"preferred": h.catalog.Match(c.Request().Header.Get("Accept-Language")),
	})
}

func (h *Handler) Table(c echo.Context) error {
	lang := c.Param("lang")
	table, err := h.catalog.Table(lang)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"language": lang, "strings": table})
}
