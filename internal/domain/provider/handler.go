package provider

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/healthconnect/telemed/internal/platform/apperror"
)

// MaxCount caps the count query parameter.
const MaxCount = 100

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/providers", h.List)
}

type listResponse struct {
	Region    string   `json:"region"`
	SubRegion string   `json:"sub_region"`
	Providers []Record `json:"providers"`
	Total     int      `json:"total"`
}

func (h *Handler) List(c echo.Context) error {
	region := c.QueryParam("region")
	if region == "" {
		return apperror.InvalidArgument(apperror.CodeInvalidArgument, "region is required")
	}
	subRegion := c.QueryParam("sub_region")

	count := 0
	if raw := c.QueryParam("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperror.InvalidArgument(apperror.CodeInvalidCount, "count must be an integer")
		}
		if n <= 0 {
			return ErrInvalidCount
		}
		if n > MaxCount {
			n = MaxCount
		}
		count = n
	}

	records, err := h.svc.List(count, region, subRegion)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{
		Region:    region,
		SubRegion: subRegion,
		Providers: records,
		Total:     len(records),
	})
}
