package location

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/healthconnect/telemed/internal/platform/apperror"
)

type Handler struct {
	dir *Directory
}

func NewHandler(dir *Directory) *Handler {
	return &Handler{dir: dir}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/locations/regions", h.ListRegions)
	g.GET("/locations/regions/:region/sub-regions", h.ListSubRegions)
}

type regionsResponse struct {
	Regions []string `json:"regions"`
	Total   int      `json:"total"`
}

type subRegionsResponse struct {
	Region     string   `json:"region"`
	SubRegions []string `json:"sub_regions"`
	Total      int      `json:"total"`
}

func (h *Handler) ListRegions(c echo.Context) error {
	regions := h.dir.AllRegions()
	return c.JSON(http.StatusOK, regionsResponse{Regions: regions, Total: len(regions)})
}

func (h *Handler) ListSubRegions(c echo.Context) error {
	region, err := url.PathUnescape(c.Param("region"))
	if err != nil {
		return apperror.InvalidArgument(apperror.CodeInvalidArgument, "invalid region")
	}
	subs, err := h.dir.SubRegionsOf(region)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subRegionsResponse{Region: region, SubRegions: subs, Total: len(subs)})
}
